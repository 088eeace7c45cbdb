package rpc

import (
	"github.com/gorilla/rpc/v2/json2"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
)

// JSON-RPC error codes for the domain failure families, in the server-defined
// -32000..-32099 range. Validation failures use the standard invalid-params code.
const (
	rpcCodeNotFound     json2.ErrorCode = -32001
	rpcCodeConflict     json2.ErrorCode = -32002
	rpcCodeUnauthorized json2.ErrorCode = -32003
	rpcCodePrecondition json2.ErrorCode = -32004
	rpcCodeSecurity     json2.ErrorCode = -32005
)

// toRPCError maps a service error onto the wire. The machine code rides in
// Data so clients can branch without parsing messages.
func toRPCError(err error) error {
	if err == nil {
		return nil
	}

	code := apperrors.CodeOf(err)
	rpcCode := json2.E_INTERNAL
	switch code.Kind() {
	case apperrors.KindValidation:
		rpcCode = json2.E_BAD_PARAMS
	case apperrors.KindNotFound:
		rpcCode = rpcCodeNotFound
	case apperrors.KindConflict:
		rpcCode = rpcCodeConflict
	case apperrors.KindUnauthorized:
		rpcCode = rpcCodeUnauthorized
	case apperrors.KindPrecondition:
		rpcCode = rpcCodePrecondition
	case apperrors.KindSecurity:
		rpcCode = rpcCodeSecurity
	}

	message := err.Error()
	if code == apperrors.CodeUnknown {
		// Do not leak internal error text for unclassified failures.
		message = "internal error"
	}
	return &json2.Error{
		Code:    rpcCode,
		Message: message,
		Data:    map[string]string{"code": string(code)},
	}
}
