package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
	"github.com/mythosforge/realmledger/internal/services/ledger/chain"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/authz"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/location"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
)

const (
	defaultListLocationsPageSize = 50
	maxListLocationsPageSize     = 200
)

// LocationService manages the hierarchical location catalog. Every mutation
// is gated on the realm descriptor and the location-editor capability.
type LocationService struct {
	mu         sync.Mutex
	store      storage.LocationStore
	descriptor chain.RealmDescriptor
	auth       *Authorizer
	clock      func() time.Time
}

// NewLocationService creates a LocationService with default dependencies.
func NewLocationService(store storage.LocationStore, descriptor chain.RealmDescriptor, auth *Authorizer) *LocationService {
	return &LocationService{
		store:      store,
		descriptor: descriptor,
		auth:       auth,
		clock:      time.Now,
	}
}

// guard checks the realm gate and the editor capability.
func (s *LocationService) guard(ctx context.Context, caller common.Address) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	initialized, err := s.descriptor.Initialized(ctx)
	if err != nil {
		return err
	}
	if !initialized {
		return apperrors.New(apperrors.CodeRealmNotInitialized, "realm has not been initialized")
	}
	return s.auth.Require(ctx, caller, authz.CapabilityEditLocations)
}

// Create registers a new location and returns its sequential ID.
func (s *LocationService) Create(ctx context.Context, caller common.Address, input location.CreateLocationInput) (uint64, error) {
	if err := s.guard(ctx, caller); err != nil {
		return 0, err
	}

	loc, err := location.CreateLocation(input, s.clock)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSlugFree(ctx, loc.Slug, 0); err != nil {
		return 0, err
	}
	if loc.ParentID != 0 {
		if _, err := s.store.GetLocation(ctx, loc.ParentID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return 0, apperrors.New(apperrors.CodeLocationParentNotFound, "parent location does not exist")
			}
			return 0, err
		}
	}

	id, err := s.store.CreateLocation(ctx, loc, func(id uint64) event.Event {
		return newEvent(event.TypeLocationCreated, loc.CreatedAt, event.LocationCreatedPayload{
			LocationID: id,
			Slug:       loc.Slug,
			ParentID:   loc.ParentID,
		})
	})
	if err != nil {
		return 0, mapStoreErr(err, apperrors.New(apperrors.CodeLocationSlugTaken, "slug is already in use"))
	}
	return id, nil
}

// UpdateMetadata applies a partial metadata update. Nil input fields are
// left unchanged; set pointers force-assign, including zero values.
func (s *LocationService) UpdateMetadata(ctx context.Context, caller common.Address, id uint64, input location.UpdateLocationInput) error {
	if err := s.guard(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loc, err := s.store.GetLocation(ctx, id)
	if err != nil {
		return mapStoreErr(err, nil)
	}

	if input.ParentID != nil && *input.ParentID != 0 && *input.ParentID != loc.ParentID {
		if err := s.checkParent(ctx, id, *input.ParentID); err != nil {
			return err
		}
	}

	updated, changed, err := location.ApplyUpdate(loc, input, s.clock)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	evt := newEvent(event.TypeLocationUpdated, updated.UpdatedAt, event.LocationUpdatedPayload{LocationID: id})
	return mapStoreErr(s.store.UpdateLocation(ctx, updated, evt), nil)
}

// UpdateSlug renames a location's slug, freeing the old slug for reuse.
func (s *LocationService) UpdateSlug(ctx context.Context, caller common.Address, id uint64, newSlug string) error {
	if err := s.guard(ctx, caller); err != nil {
		return err
	}

	slug, err := location.NormalizeSlug(newSlug)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loc, err := s.store.GetLocation(ctx, id)
	if err != nil {
		return mapStoreErr(err, nil)
	}
	if slug == loc.Slug {
		return nil
	}
	if err := s.checkSlugFree(ctx, slug, id); err != nil {
		return err
	}

	oldSlug := loc.Slug
	loc.Slug = slug
	loc.UpdatedAt = s.clock().UTC()
	evt := newEvent(event.TypeLocationSlugChanged, loc.UpdatedAt, event.LocationSlugChangedPayload{
		LocationID: id,
		OldSlug:    oldSlug,
		NewSlug:    slug,
	})
	return mapStoreErr(s.store.UpdateLocation(ctx, loc, evt),
		apperrors.New(apperrors.CodeLocationSlugTaken, "slug is already in use"))
}

// SetController assigns the controlling address of a location.
func (s *LocationService) SetController(ctx context.Context, caller common.Address, id uint64, controller common.Address) error {
	if err := s.guard(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loc, err := s.store.GetLocation(ctx, id)
	if err != nil {
		return mapStoreErr(err, nil)
	}
	loc.Controller = controller
	loc.UpdatedAt = s.clock().UTC()
	evt := newEvent(event.TypeLocationControllerChanged, loc.UpdatedAt, event.LocationControllerChangedPayload{
		LocationID: id,
		Controller: strings.ToLower(controller.Hex()),
	})
	return mapStoreErr(s.store.UpdateLocation(ctx, loc, evt), nil)
}

// SetActive toggles a location's active flag.
func (s *LocationService) SetActive(ctx context.Context, caller common.Address, id uint64, active bool) error {
	if err := s.guard(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loc, err := s.store.GetLocation(ctx, id)
	if err != nil {
		return mapStoreErr(err, nil)
	}
	loc.Active = active
	loc.UpdatedAt = s.clock().UTC()
	evt := newEvent(event.TypeLocationActivationChanged, loc.UpdatedAt, event.LocationActivationChangedPayload{
		LocationID: id,
		Active:     active,
	})
	return mapStoreErr(s.store.UpdateLocation(ctx, loc, evt), nil)
}

// Get returns a location by ID.
func (s *LocationService) Get(ctx context.Context, id uint64) (location.Location, error) {
	loc, err := s.store.GetLocation(ctx, id)
	if err != nil {
		return location.Location{}, mapStoreErr(err, nil)
	}
	return loc, nil
}

// GetBySlug returns the location currently holding a slug.
func (s *LocationService) GetBySlug(ctx context.Context, slug string) (location.Location, error) {
	normalized, err := location.NormalizeSlug(slug)
	if err != nil {
		return location.Location{}, err
	}
	loc, err := s.store.GetLocationBySlug(ctx, normalized)
	if err != nil {
		return location.Location{}, mapStoreErr(err, nil)
	}
	return loc, nil
}

// List returns a bounded page of locations ordered by ID.
func (s *LocationService) List(ctx context.Context, offset, limit int) ([]location.Location, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultListLocationsPageSize
	}
	if limit > maxListLocationsPageSize {
		limit = maxListLocationsPageSize
	}
	return s.store.ListLocations(ctx, offset, limit)
}

// Children returns the direct children of a parent location.
func (s *LocationService) Children(ctx context.Context, parentID uint64) ([]location.Location, error) {
	return s.store.ListChildren(ctx, parentID)
}

// checkSlugFree fails when another location already holds the slug.
func (s *LocationService) checkSlugFree(ctx context.Context, slug string, selfID uint64) error {
	existing, err := s.store.GetLocationBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return apperrors.New(apperrors.CodeLocationSlugTaken, "slug is already in use")
}

// checkParent verifies the new parent exists and is not a descendant of id,
// so re-parenting can never introduce a cycle.
func (s *LocationService) checkParent(ctx context.Context, id, parentID uint64) error {
	if parentID == id {
		return apperrors.New(apperrors.CodeLocationParentCycle, "location cannot be its own ancestor")
	}

	current := parentID
	for current != 0 {
		parent, err := s.store.GetLocation(ctx, current)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.New(apperrors.CodeLocationParentNotFound, "parent location does not exist")
			}
			return err
		}
		if parent.ParentID == id {
			return apperrors.New(apperrors.CodeLocationParentCycle, "location cannot be its own ancestor")
		}
		current = parent.ParentID
	}
	return nil
}
