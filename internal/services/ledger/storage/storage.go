// Package storage declares the persistence interfaces for the ledger modules.
//
// Every mutating store operation takes the journal entry to append so the
// state change and its event commit in one transaction. Reads observe
// committed state only.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/location"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/totem"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/tribe"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrConflict indicates a uniqueness or exactly-once violation at commit.
var ErrConflict = errors.New("record conflicts with committed state")

// Realm is the one-time-initialized realm descriptor record.
type Realm struct {
	Name          string
	InitializedAt time.Time
}

// RoleGrant is one persisted capability role grant.
type RoleGrant struct {
	Address   common.Address
	Role      string
	GrantedAt time.Time
}

// VoteRecord is the single vote cast within one join-request save.
type VoteRecord struct {
	Voter   common.Address
	Approve bool
	At      time.Time
}

// RealmStore persists the realm descriptor and role grants.
type RealmStore interface {
	// GetRealm returns the realm record, or ErrNotFound before initialization.
	GetRealm(ctx context.Context) (Realm, error)
	// InitializeRealm writes the realm record exactly once; a second call
	// fails with ErrConflict.
	InitializeRealm(ctx context.Context, realm Realm, evt event.Event) error
	// GrantRole records a role grant; granting an already-held role is a no-op.
	GrantRole(ctx context.Context, grant RoleGrant, evt event.Event) error
	// RevokeRole removes a role grant.
	RevokeRole(ctx context.Context, addr common.Address, role string, evt event.Event) error
	// RolesOf returns the roles granted to an address.
	RolesOf(ctx context.Context, addr common.Address) ([]string, error)
	// ListRoleGrants returns all grants ordered by grant time.
	ListRoleGrants(ctx context.Context) ([]RoleGrant, error)
}

// LocationStore persists the location catalog and its slug index.
type LocationStore interface {
	// CreateLocation assigns the next sequential ID and persists the record.
	// evtFn builds the journal entry once the assigned ID is known. A
	// committed duplicate slug fails with ErrConflict.
	CreateLocation(ctx context.Context, loc location.Location, evtFn func(id uint64) event.Event) (uint64, error)
	// GetLocation returns a location by ID.
	GetLocation(ctx context.Context, id uint64) (location.Location, error)
	// GetLocationBySlug returns the location currently holding a slug.
	GetLocationBySlug(ctx context.Context, slug string) (location.Location, error)
	// UpdateLocation persists a mutated location row, including slug renames.
	UpdateLocation(ctx context.Context, loc location.Location, evt event.Event) error
	// ListLocations returns a page of locations ordered by ID.
	ListLocations(ctx context.Context, offset, limit int) ([]location.Location, error)
	// ListChildren returns the direct children of a parent, ordered by ID.
	ListChildren(ctx context.Context, parentID uint64) ([]location.Location, error)
}

// TotemStore persists totems and the global artifact binding index.
type TotemStore interface {
	// CreateTotem assigns the next sequential ID, persists the totem, and
	// binds its artifacts. evtFn builds the journal entry once the assigned
	// ID is known. An already-bound artifact fails with ErrConflict.
	CreateTotem(ctx context.Context, t totem.Totem, evtFn func(id uint64) event.Event) (uint64, error)
	// GetTotem returns a totem with its bound artifact IDs.
	GetTotem(ctx context.Context, id uint64) (totem.Totem, error)
	// BindArtifact binds one more artifact and stores the updated totem row.
	BindArtifact(ctx context.Context, t totem.Totem, artifactID uint64, evt event.Event) error
	// SavePower stores the totem's power score and update time.
	SavePower(ctx context.Context, t totem.Totem, evt event.Event) error
	// ArtifactTotem returns the totem an artifact is bound to, 0 when unbound.
	ArtifactTotem(ctx context.Context, artifactID uint64) (uint64, error)
}

// TribeStore persists tribes, join requests, votes, and membership.
type TribeStore interface {
	// CreateTribe assigns the next sequential ID and persists the record.
	// evtFn builds the journal entry once the assigned ID is known.
	CreateTribe(ctx context.Context, t tribe.Tribe, evtFn func(id uint64) event.Event) (uint64, error)
	// GetTribe returns a tribe by ID.
	GetTribe(ctx context.Context, id uint64) (tribe.Tribe, error)
	// SaveTribe persists a mutated tribe row.
	SaveTribe(ctx context.Context, t tribe.Tribe, evt event.Event) error
	// CreateJoinRequest persists a pending request and consumes the
	// applicant's one initiation. evtFn builds the journal entry once the
	// assigned ID is known. A second initiation fails with ErrConflict.
	CreateJoinRequest(ctx context.Context, r tribe.JoinRequest, evtFn func(id uint64) event.Event) (uint64, error)
	// GetJoinRequest returns a join request with its recorded voters.
	GetJoinRequest(ctx context.Context, id uint64) (tribe.JoinRequest, error)
	// SaveJoinRequest persists request progress, records the vote cast in
	// this call when present, and grants membership in the same transaction
	// when grantMembership is set.
	SaveJoinRequest(ctx context.Context, r tribe.JoinRequest, vote *VoteRecord, grantMembership bool, evt event.Event) error
	// HasInitiated reports whether an address ever filed a join request.
	HasInitiated(ctx context.Context, addr common.Address) (bool, error)
	// IsMember reports tribe membership.
	IsMember(ctx context.Context, tribeID uint64, addr common.Address) (bool, error)
	// IsMemberAnywhere reports whether an address was approved in any tribe.
	IsMemberAnywhere(ctx context.Context, addr common.Address) (bool, error)
}

// QuestStore persists the attestor and the consumed voucher set.
type QuestStore interface {
	// Attestor returns the configured attestor, or ErrNotFound before one is set.
	Attestor(ctx context.Context) (common.Address, error)
	// SetAttestor stores the attestor address.
	SetAttestor(ctx context.Context, attestor common.Address, evt event.Event) error
	// ConsumeVoucher marks a digest used exactly once; a reused digest fails
	// with ErrConflict.
	ConsumeVoucher(ctx context.Context, digest common.Hash, evt event.Event) error
	// VoucherUsed reports whether a digest was already consumed.
	VoucherUsed(ctx context.Context, digest common.Hash) (bool, error)
}

// EventStore reads the journal and appends entries for operations whose only
// ledger-side state is the event itself.
type EventStore interface {
	// AppendEvent appends a journal entry outside any other state change.
	AppendEvent(ctx context.Context, evt event.Event) error
	// ListEvents returns up to limit entries with Seq greater than afterSeq.
	ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error)
}

// Store aggregates all module stores.
type Store interface {
	RealmStore
	LocationStore
	TotemStore
	TribeStore
	QuestStore
	EventStore
}
