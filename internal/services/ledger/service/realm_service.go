package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/authz"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
)

// RealmService manages the one-time realm descriptor, role grants, and the
// journal read path.
type RealmService struct {
	mu    sync.Mutex
	store storage.Store
	auth  *Authorizer
	clock func() time.Time
}

// NewRealmService creates a RealmService with default dependencies.
func NewRealmService(store storage.Store, auth *Authorizer) *RealmService {
	return &RealmService{
		store: store,
		auth:  auth,
		clock: time.Now,
	}
}

// Initialize writes the realm descriptor exactly once.
func (s *RealmService) Initialize(ctx context.Context, caller common.Address, name string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := s.auth.Require(ctx, caller, authz.CapabilityManageRealm); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.New(apperrors.CodeRealmNameEmpty, "realm name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock().UTC()
	realm := storage.Realm{Name: name, InitializedAt: now}
	evt := newEvent(event.TypeRealmInitialized, now, event.RealmInitializedPayload{Name: name})
	err := s.store.InitializeRealm(ctx, realm, evt)
	return mapStoreErr(err, apperrors.New(apperrors.CodeRealmAlreadyInitialized, "realm is already initialized"))
}

// Get returns the realm descriptor.
func (s *RealmService) Get(ctx context.Context) (storage.Realm, error) {
	realm, err := s.store.GetRealm(ctx)
	if err != nil {
		return storage.Realm{}, mapStoreErr(err, nil)
	}
	return realm, nil
}

// GrantRole grants a capability role to an address.
func (s *RealmService) GrantRole(ctx context.Context, caller, target common.Address, roleName string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := s.auth.Require(ctx, caller, authz.CapabilityManageRealm); err != nil {
		return err
	}
	if target == (common.Address{}) {
		return apperrors.New(apperrors.CodeAddressInvalid, "grant target address is required")
	}
	role, err := authz.ParseRole(roleName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock().UTC()
	grant := storage.RoleGrant{Address: target, Role: string(role), GrantedAt: now}
	evt := newEvent(event.TypeRoleGranted, now, event.RoleChangePayload{
		Address: strings.ToLower(target.Hex()),
		Role:    string(role),
	})
	return mapStoreErr(s.store.GrantRole(ctx, grant, evt), nil)
}

// RevokeRole removes a capability role from an address.
func (s *RealmService) RevokeRole(ctx context.Context, caller, target common.Address, roleName string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := s.auth.Require(ctx, caller, authz.CapabilityManageRealm); err != nil {
		return err
	}
	role, err := authz.ParseRole(roleName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock().UTC()
	evt := newEvent(event.TypeRoleRevoked, now, event.RoleChangePayload{
		Address: strings.ToLower(target.Hex()),
		Role:    string(role),
	})
	return mapStoreErr(s.store.RevokeRole(ctx, target, string(role), evt), nil)
}

// ListRoleGrants returns all persisted role grants.
func (s *RealmService) ListRoleGrants(ctx context.Context) ([]storage.RoleGrant, error) {
	return s.store.ListRoleGrants(ctx)
}

// ListEvents returns a page of the journal for pollers.
func (s *RealmService) ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	return s.store.ListEvents(ctx, afterSeq, limit)
}
