package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeLocationSlugTaken, "slug is already in use")
	other := New(CodeLocationSlugTaken, "different message, same code")

	if !errors.Is(other, sentinel) {
		t.Fatal("expected errors with the same code to match")
	}
	if errors.Is(New(CodeNotFound, "record not found"), sentinel) {
		t.Fatal("expected different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeUnknown, "commit failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if err.Error() != "commit failed" {
		t.Fatalf("expected outer message, got %q", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	direct := New(CodeTribeInactive, "tribe is not active")
	if got := CodeOf(direct); got != CodeTribeInactive {
		t.Fatalf("expected %s, got %s", CodeTribeInactive, got)
	}

	wrapped := fmt.Errorf("outer: %w", direct)
	if got := CodeOf(wrapped); got != CodeTribeInactive {
		t.Fatalf("expected %s through wrapping, got %s", CodeTribeInactive, got)
	}

	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected %s for foreign error, got %s", CodeUnknown, got)
	}
	if got := CodeOf(nil); got != CodeUnknown {
		t.Fatalf("expected %s for nil, got %s", CodeUnknown, got)
	}
}

func TestKindClassification(t *testing.T) {
	tests := []struct {
		code Code
		kind Kind
	}{
		{CodeLocationSlugEmpty, KindValidation},
		{CodeAddressInvalid, KindValidation},
		{CodeNotFound, KindNotFound},
		{CodeLocationSlugTaken, KindConflict},
		{CodeTribeAlreadyInitiated, KindConflict},
		{CodeUnauthorized, KindUnauthorized},
		{CodeTribeNotRequestDecider, KindUnauthorized},
		{CodeRealmNotInitialized, KindPrecondition},
		{CodeTokenInsufficientBalance, KindPrecondition},
		{CodeQuestSignatureInvalid, KindSecurity},
		{CodeQuestVoucherClaimed, KindSecurity},
		{Code("SOMETHING_NEW"), KindUnknown},
	}
	for _, tc := range tests {
		if got := tc.code.Kind(); got != tc.kind {
			t.Fatalf("%s: kind = %d, want %d", tc.code, got, tc.kind)
		}
	}
}
