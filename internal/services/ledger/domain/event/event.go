// Package event defines the ledger event taxonomy and journal entry shape.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the type of a ledger event.
type Type string

// Realm lifecycle events.
const (
	// TypeRealmInitialized records the one-time realm initialization.
	TypeRealmInitialized Type = "realm.initialized"
	// TypeRoleGranted records a capability role grant.
	TypeRoleGranted Type = "authz.role_granted"
	// TypeRoleRevoked records a capability role revocation.
	TypeRoleRevoked Type = "authz.role_revoked"
)

// Location registry events.
const (
	// TypeLocationCreated records the registration of a location.
	TypeLocationCreated Type = "location.created"
	// TypeLocationUpdated records a metadata update to a location.
	TypeLocationUpdated Type = "location.updated"
	// TypeLocationSlugChanged records a slug rename.
	TypeLocationSlugChanged Type = "location.slug_changed"
	// TypeLocationControllerChanged records a controller assignment.
	TypeLocationControllerChanged Type = "location.controller_changed"
	// TypeLocationActivationChanged records an activation toggle.
	TypeLocationActivationChanged Type = "location.activation_changed"
)

// Totem events.
const (
	// TypeTotemCreated records the creation of a totem.
	TypeTotemCreated Type = "totem.created"
	// TypeTotemArtifactAdded records an artifact binding.
	TypeTotemArtifactAdded Type = "totem.artifact_added"
	// TypeTotemPoweredUp records an organic burn-funded power increase.
	TypeTotemPoweredUp Type = "totem.powered_up"
	// TypeTotemPowerOverridden records an admin power override.
	// Kept distinct from organic power changes so monotonicity audits can
	// exclude admin intervention.
	TypeTotemPowerOverridden Type = "totem.power_overridden"
)

// Tribe events.
const (
	// TypeTribeCreated records the founding of a tribe.
	TypeTribeCreated Type = "tribe.created"
	// TypeTribeLeaderChanged records a leader change.
	TypeTribeLeaderChanged Type = "tribe.leader_changed"
	// TypeTribeJoinRequested records a new join request and its initiation mint.
	TypeTribeJoinRequested Type = "tribe.join_requested"
	// TypeTribeJoinApproved records a join request approval.
	TypeTribeJoinApproved Type = "tribe.join_approved"
	// TypeTribeJoinRejected records a join request rejection.
	TypeTribeJoinRejected Type = "tribe.join_rejected"
	// TypeTribeVoteCast records a quorum vote that did not resolve the request.
	TypeTribeVoteCast Type = "tribe.vote_cast"
	// TypeTribeMemberArtifactMinted records a member artifact mint.
	TypeTribeMemberArtifactMinted Type = "tribe.member_artifact_minted"
)

// Quest events.
const (
	// TypeQuestAttestorChanged records an attestor rotation.
	TypeQuestAttestorChanged Type = "quest.attestor_changed"
	// TypeQuestRewardClaimed records a consumed voucher and its mint.
	TypeQuestRewardClaimed Type = "quest.reward_claimed"
)

// Event is one committed journal entry. Seq is the store-assigned total
// order; ID is stable across exports.
type Event struct {
	ID      string
	Seq     uint64
	Type    Type
	At      time.Time
	Payload []byte
}

// NewID allocates a journal entry identifier.
func NewID() string {
	return uuid.NewString()
}
