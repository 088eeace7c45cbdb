// Package service implements the ledger module operations: validation,
// authorization, cross-module sub-calls, and the atomic commit of state plus
// journal entry. One mutex per module service serializes its mutations;
// reads go straight to the store and observe committed snapshots.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/authz"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
)

// RoleReader resolves persisted role grants for an address.
type RoleReader interface {
	RolesOf(ctx context.Context, addr common.Address) ([]string, error)
}

// Authorizer resolves a caller's roles and evaluates the capability policy.
// The configured admin address holds the admin role implicitly; all other
// roles come from persisted grants.
type Authorizer struct {
	admin common.Address
	roles RoleReader
}

// NewAuthorizer creates an authorizer bound to the realm admin address.
func NewAuthorizer(admin common.Address, roles RoleReader) *Authorizer {
	return &Authorizer{admin: admin, roles: roles}
}

// RolesOf returns the roles held by an address.
func (a *Authorizer) RolesOf(ctx context.Context, caller common.Address) ([]authz.Role, error) {
	var held []authz.Role
	if a.admin != (common.Address{}) && caller == a.admin {
		held = append(held, authz.RoleAdmin)
	}
	granted, err := a.roles.RolesOf(ctx, caller)
	if err != nil {
		return nil, err
	}
	for _, name := range granted {
		role, err := authz.ParseRole(name)
		if err != nil {
			// Skip grants persisted before a role was retired.
			continue
		}
		held = append(held, role)
	}
	return held, nil
}

// Require fails with the unauthorized error unless the caller holds a role
// granting the capability.
func (a *Authorizer) Require(ctx context.Context, caller common.Address, capability authz.Capability) error {
	held, err := a.RolesOf(ctx, caller)
	if err != nil {
		return err
	}
	return authz.Authorize(held, capability)
}

// IsAdmin reports whether the caller is the configured realm admin.
func (a *Authorizer) IsAdmin(caller common.Address) bool {
	return a.admin != (common.Address{}) && caller == a.admin
}

// newEvent builds a journal entry with a marshaled payload.
func newEvent(t event.Type, at time.Time, payload any) event.Event {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	return event.Event{
		ID:      event.NewID(),
		Type:    t,
		At:      at,
		Payload: data,
	}
}

// requireCaller rejects the zero address, which can never act.
func requireCaller(caller common.Address) error {
	if caller == (common.Address{}) {
		return apperrors.New(apperrors.CodeAddressInvalid, "caller address is required")
	}
	return nil
}

// mapStoreErr converts storage sentinel errors into domain errors.
func mapStoreErr(err error, conflict *apperrors.Error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, "record not found", err)
	case errors.Is(err, storage.ErrConflict) && conflict != nil:
		return conflict
	default:
		return err
	}
}
