package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
	"github.com/mythosforge/realmledger/internal/services/ledger/chain"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/authz"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/totem"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
)

// TotemService manages artifact bundles and their power scores. Ownership is
// checked against the artifact ledger and binding exclusivity against the
// global binding index.
type TotemService struct {
	mu        sync.Mutex
	store     storage.TotemStore
	artifacts chain.ArtifactLedger
	tokens    chain.TokenLedger
	auth      *Authorizer
	clock     func() time.Time
}

// NewTotemService creates a TotemService with default dependencies.
func NewTotemService(store storage.TotemStore, artifacts chain.ArtifactLedger, tokens chain.TokenLedger, auth *Authorizer) *TotemService {
	return &TotemService{
		store:     store,
		artifacts: artifacts,
		tokens:    tokens,
		auth:      auth,
		clock:     time.Now,
	}
}

// Create builds a totem from the caller's artifacts. Every artifact must be
// owned by the caller and bound to no other totem; initial power equals the
// artifact count.
func (s *TotemService) Create(ctx context.Context, caller common.Address, artifactIDs []uint64) (uint64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}

	t, err := totem.CreateTotem(caller, artifactIDs, s.clock)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, artifactID := range t.ArtifactIDs {
		if err := s.checkBindable(ctx, caller, artifactID); err != nil {
			return 0, err
		}
	}

	id, err := s.store.CreateTotem(ctx, t, func(id uint64) event.Event {
		return newEvent(event.TypeTotemCreated, t.CreatedAt, event.TotemCreatedPayload{
			TotemID:     id,
			Creator:     strings.ToLower(caller.Hex()),
			Power:       t.Power.Dec(),
			ArtifactIDs: t.ArtifactIDs,
		})
	})
	if err != nil {
		return 0, mapStoreErr(err, totem.ErrArtifactBound)
	}
	return id, nil
}

// AddArtifact binds one more caller-owned artifact to an existing totem and
// grows its power by one.
func (s *TotemService) AddArtifact(ctx context.Context, caller common.Address, totemID, artifactID uint64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.GetTotem(ctx, totemID)
	if err != nil {
		return mapStoreErr(err, nil)
	}
	if t.Creator != caller {
		return totem.ErrNotArtifactOwner
	}
	if err := s.checkBindable(ctx, caller, artifactID); err != nil {
		return err
	}

	updated, err := totem.BindArtifact(t, artifactID, s.clock)
	if err != nil {
		return err
	}

	evt := newEvent(event.TypeTotemArtifactAdded, updated.UpdatedAt, event.TotemArtifactAddedPayload{
		TotemID:    totemID,
		ArtifactID: artifactID,
		Power:      updated.Power.Dec(),
	})
	return mapStoreErr(s.store.BindArtifact(ctx, updated, artifactID, evt), totem.ErrArtifactBound)
}

// PowerUp burns reward tokens from the caller's balance and grows the totem's
// power by the burned amount. Any holder may power up any totem.
func (s *TotemService) PowerUp(ctx context.Context, caller common.Address, totemID uint64, amount *uint256.Int) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return totem.ErrZeroAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.GetTotem(ctx, totemID)
	if err != nil {
		return mapStoreErr(err, nil)
	}

	updated, err := totem.PowerUp(t, amount, s.clock)
	if err != nil {
		return err
	}

	// Burn first so an insufficient balance fails before any state change.
	if err := s.tokens.Burn(ctx, caller, amount); err != nil {
		return err
	}

	evt := newEvent(event.TypeTotemPoweredUp, updated.UpdatedAt, event.TotemPoweredUpPayload{
		TotemID: totemID,
		Caller:  strings.ToLower(caller.Hex()),
		Burned:  amount.Dec(),
		Power:   updated.Power.Dec(),
	})
	if err := s.store.SavePower(ctx, updated, evt); err != nil {
		// The burn already happened; restore the balance so a failed commit
		// does not destroy tokens.
		if mintErr := s.tokens.Mint(ctx, caller, amount); mintErr != nil {
			return mintErr
		}
		return mapStoreErr(err, nil)
	}
	return nil
}

// AdminSetPower unconditionally replaces a totem's power score. This is the
// only path that can lower power and requires the override capability.
func (s *TotemService) AdminSetPower(ctx context.Context, caller common.Address, totemID uint64, value *uint256.Int) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := s.auth.Require(ctx, caller, authz.CapabilityOverridePower); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.GetTotem(ctx, totemID)
	if err != nil {
		return mapStoreErr(err, nil)
	}

	oldPower := t.Power.Dec()
	updated := totem.OverridePower(t, value, s.clock)

	evt := newEvent(event.TypeTotemPowerOverridden, updated.UpdatedAt, event.TotemPowerOverriddenPayload{
		TotemID:  totemID,
		Admin:    strings.ToLower(caller.Hex()),
		OldPower: oldPower,
		NewPower: updated.Power.Dec(),
	})
	return mapStoreErr(s.store.SavePower(ctx, updated, evt), nil)
}

// Get returns a totem with its bound artifact IDs.
func (s *TotemService) Get(ctx context.Context, id uint64) (totem.Totem, error) {
	t, err := s.store.GetTotem(ctx, id)
	if err != nil {
		return totem.Totem{}, mapStoreErr(err, nil)
	}
	return t, nil
}

// ArtifactTotem returns the totem an artifact is bound to, 0 when unbound.
func (s *TotemService) ArtifactTotem(ctx context.Context, artifactID uint64) (uint64, error) {
	return s.store.ArtifactTotem(ctx, artifactID)
}

// checkBindable verifies the caller owns the artifact and no totem holds it.
func (s *TotemService) checkBindable(ctx context.Context, caller common.Address, artifactID uint64) error {
	owner, err := s.artifacts.OwnerOf(ctx, artifactID)
	if err != nil {
		return err
	}
	if owner != caller {
		return apperrors.WithMetadata(apperrors.CodeTotemNotArtifactOwner,
			"caller does not own the artifact", map[string]string{
				"artifact_id": strconv.FormatUint(artifactID, 10),
			})
	}
	boundTo, err := s.store.ArtifactTotem(ctx, artifactID)
	if err != nil {
		return err
	}
	if boundTo != 0 {
		return apperrors.WithMetadata(apperrors.CodeTotemArtifactBound,
			"artifact is already bound to a totem", map[string]string{
				"artifact_id": strconv.FormatUint(artifactID, 10),
				"totem_id":    strconv.FormatUint(boundTo, 10),
			})
	}
	return nil
}
