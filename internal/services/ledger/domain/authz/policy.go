// Package authz defines the ledger capability policy matrix.
//
// The package centralizes role/capability authorization so every module
// entry point calls one evaluator instead of re-deriving role checks.
// Contextual guards (tribe leadership, tribe membership, artifact ownership)
// stay with the domain that owns the state they inspect.
package authz

import (
	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
)

// Role is a granted standing a caller can hold.
type Role string

const (
	// RoleAdmin is the realm administrator, the strongest capability holder.
	RoleAdmin Role = "admin"
	// RoleLocationEditor can create and mutate location records.
	RoleLocationEditor Role = "location-editor"
)

// Capability is an action class a role can be allowed to perform.
type Capability string

const (
	// CapabilityEditLocations covers location registry mutations.
	CapabilityEditLocations Capability = "locations:edit"
	// CapabilityManageTribes covers tribe creation and leader changes.
	CapabilityManageTribes Capability = "tribes:manage"
	// CapabilityDecideJoinRequests covers admin decisions on join requests.
	CapabilityDecideJoinRequests Capability = "tribes:decide"
	// CapabilityOverridePower covers the totem power admin override.
	CapabilityOverridePower Capability = "totems:override-power"
	// CapabilityManageRealm covers realm initialization, role grants, and
	// attestor rotation.
	CapabilityManageRealm Capability = "realm:manage"
)

// ErrUnauthorized indicates a caller without the required capability.
var ErrUnauthorized = apperrors.New(apperrors.CodeUnauthorized, "caller lacks the required capability")

// Rule allows one role to exercise one capability.
type Rule struct {
	Role       Role
	Capability Capability
}

// PolicyTable returns the full role/capability matrix.
func PolicyTable() []Rule {
	return []Rule{
		{Role: RoleAdmin, Capability: CapabilityEditLocations},
		{Role: RoleAdmin, Capability: CapabilityManageTribes},
		{Role: RoleAdmin, Capability: CapabilityDecideJoinRequests},
		{Role: RoleAdmin, Capability: CapabilityOverridePower},
		{Role: RoleAdmin, Capability: CapabilityManageRealm},
		{Role: RoleLocationEditor, Capability: CapabilityEditLocations},
	}
}

// ParseRole validates a role name.
func ParseRole(name string) (Role, error) {
	switch Role(name) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleLocationEditor:
		return RoleLocationEditor, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeRoleUnknown, "role is not recognized",
			map[string]string{"Role": name})
	}
}

// Can reports whether any of the held roles grants the capability.
func Can(held []Role, capability Capability) bool {
	for _, rule := range PolicyTable() {
		if rule.Capability != capability {
			continue
		}
		for _, role := range held {
			if role == rule.Role {
				return true
			}
		}
	}
	return false
}

// Authorize returns ErrUnauthorized unless one of the held roles grants the
// capability.
func Authorize(held []Role, capability Capability) error {
	if !Can(held, capability) {
		return ErrUnauthorized
	}
	return nil
}
