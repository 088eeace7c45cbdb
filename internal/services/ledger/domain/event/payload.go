package event

// Payloads are marshaled to JSON and stored on the journal entry. Addresses
// are hex strings and amounts are decimal strings so consumers do not need
// the ledger's numeric types.

// RealmInitializedPayload describes a realm.initialized event.
type RealmInitializedPayload struct {
	Name string `json:"name"`
}

// RoleChangePayload describes authz.role_granted and authz.role_revoked.
type RoleChangePayload struct {
	Address string `json:"address"`
	Role    string `json:"role"`
}

// LocationCreatedPayload describes a location.created event.
type LocationCreatedPayload struct {
	LocationID uint64 `json:"location_id"`
	Slug       string `json:"slug"`
	ParentID   uint64 `json:"parent_id"`
}

// LocationUpdatedPayload describes a location.updated event.
type LocationUpdatedPayload struct {
	LocationID uint64 `json:"location_id"`
}

// LocationSlugChangedPayload describes a location.slug_changed event.
type LocationSlugChangedPayload struct {
	LocationID uint64 `json:"location_id"`
	OldSlug    string `json:"old_slug"`
	NewSlug    string `json:"new_slug"`
}

// LocationControllerChangedPayload describes a location.controller_changed event.
type LocationControllerChangedPayload struct {
	LocationID uint64 `json:"location_id"`
	Controller string `json:"controller"`
}

// LocationActivationChangedPayload describes a location.activation_changed event.
type LocationActivationChangedPayload struct {
	LocationID uint64 `json:"location_id"`
	Active     bool   `json:"active"`
}

// TotemCreatedPayload describes a totem.created event.
type TotemCreatedPayload struct {
	TotemID     uint64   `json:"totem_id"`
	Creator     string   `json:"creator"`
	Power       string   `json:"power"`
	ArtifactIDs []uint64 `json:"artifact_ids"`
}

// TotemArtifactAddedPayload describes a totem.artifact_added event.
type TotemArtifactAddedPayload struct {
	TotemID    uint64 `json:"totem_id"`
	ArtifactID uint64 `json:"artifact_id"`
	Power      string `json:"power"`
}

// TotemPoweredUpPayload describes a totem.powered_up event.
type TotemPoweredUpPayload struct {
	TotemID uint64 `json:"totem_id"`
	Caller  string `json:"caller"`
	Burned  string `json:"burned"`
	Power   string `json:"power"`
}

// TotemPowerOverriddenPayload describes a totem.power_overridden event.
type TotemPowerOverriddenPayload struct {
	TotemID  uint64 `json:"totem_id"`
	Admin    string `json:"admin"`
	OldPower string `json:"old_power"`
	NewPower string `json:"new_power"`
}

// TribeCreatedPayload describes a tribe.created event.
type TribeCreatedPayload struct {
	TribeID         uint64 `json:"tribe_id"`
	Name            string `json:"name"`
	Leader          string `json:"leader"`
	QuorumThreshold uint32 `json:"quorum_threshold"`
}

// TribeLeaderChangedPayload describes a tribe.leader_changed event.
type TribeLeaderChangedPayload struct {
	TribeID uint64 `json:"tribe_id"`
	Leader  string `json:"leader"`
}

// TribeJoinRequestedPayload describes a tribe.join_requested event.
type TribeJoinRequestedPayload struct {
	RequestID  uint64 `json:"request_id"`
	TribeID    uint64 `json:"tribe_id"`
	Applicant  string `json:"applicant"`
	ArtifactID uint64 `json:"artifact_id"`
}

// TribeJoinDecidedPayload describes tribe.join_approved and tribe.join_rejected.
type TribeJoinDecidedPayload struct {
	RequestID      uint64 `json:"request_id"`
	TribeID        uint64 `json:"tribe_id"`
	Applicant      string `json:"applicant"`
	ApprovalCount  uint32 `json:"approval_count"`
	RejectionCount uint32 `json:"rejection_count"`
}

// TribeVoteCastPayload describes a tribe.vote_cast event.
type TribeVoteCastPayload struct {
	RequestID      uint64 `json:"request_id"`
	TribeID        uint64 `json:"tribe_id"`
	Voter          string `json:"voter"`
	Approve        bool   `json:"approve"`
	ApprovalCount  uint32 `json:"approval_count"`
	RejectionCount uint32 `json:"rejection_count"`
}

// TribeMemberArtifactMintedPayload describes a tribe.member_artifact_minted event.
type TribeMemberArtifactMintedPayload struct {
	TribeID    uint64 `json:"tribe_id"`
	Member     string `json:"member"`
	ArtifactID uint64 `json:"artifact_id"`
}

// QuestAttestorChangedPayload describes a quest.attestor_changed event.
type QuestAttestorChangedPayload struct {
	Attestor string `json:"attestor"`
}

// QuestRewardClaimedPayload describes a quest.reward_claimed event.
type QuestRewardClaimedPayload struct {
	Player  string `json:"player"`
	QuestID uint64 `json:"quest_id"`
	Amount  string `json:"amount"`
	Digest  string `json:"digest"`
}
