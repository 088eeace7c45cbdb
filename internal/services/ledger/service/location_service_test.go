package service

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/authz"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/location"
)

func newLocationService(t *testing.T, env *testEnv) *LocationService {
	t.Helper()
	svc := NewLocationService(env.store, env.store, env.auth)
	svc.clock = testClock
	return svc
}

func locationInput(slug string, parentID uint64) location.CreateLocationInput {
	return location.CreateLocationInput{
		Slug:        slug,
		DisplayName: "Ember Hollow",
		Biome:       location.BiomeForest,
		Difficulty:  location.DifficultyNovice,
		ParentID:    parentID,
	}
}

func TestLocationCreateGates(t *testing.T) {
	env := newTestEnv(t)
	svc := newLocationService(t, env)
	ctx := context.Background()

	// No mutation before the realm exists, not even for the admin.
	_, err := svc.Create(ctx, admin, locationInput("ember-hollow", 0))
	if code := apperrors.CodeOf(err); code != apperrors.CodeRealmNotInitialized {
		t.Fatalf("expected %s, got %s (%v)", apperrors.CodeRealmNotInitialized, code, err)
	}

	env.initRealm(t)

	_, err = svc.Create(ctx, player, locationInput("ember-hollow", 0))
	if code := apperrors.CodeOf(err); code != apperrors.CodeUnauthorized {
		t.Fatalf("expected %s, got %s (%v)", apperrors.CodeUnauthorized, code, err)
	}

	env.grantRole(t, editor, authz.RoleLocationEditor)
	id, err := svc.Create(ctx, editor, locationInput("ember-hollow", 0))
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	if id == 0 {
		t.Fatal("expected assigned location ID")
	}
}

func TestLocationSlugTaken(t *testing.T) {
	env := newTestEnv(t)
	env.initRealm(t)
	svc := newLocationService(t, env)
	ctx := context.Background()

	if _, err := svc.Create(ctx, admin, locationInput("ember-hollow", 0)); err != nil {
		t.Fatalf("create location: %v", err)
	}
	_, err := svc.Create(ctx, admin, locationInput("Ember-Hollow", 0))
	if code := apperrors.CodeOf(err); code != apperrors.CodeLocationSlugTaken {
		t.Fatalf("expected %s for duplicate slug, got %s (%v)", apperrors.CodeLocationSlugTaken, code, err)
	}
}

func TestLocationHierarchy(t *testing.T) {
	env := newTestEnv(t)
	env.initRealm(t)
	svc := newLocationService(t, env)
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, locationInput("orphan", 404))
	if code := apperrors.CodeOf(err); code != apperrors.CodeLocationParentNotFound {
		t.Fatalf("expected %s for missing parent, got %s (%v)", apperrors.CodeLocationParentNotFound, code, err)
	}

	rootID, err := svc.Create(ctx, admin, locationInput("verdant-reach", 0))
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	childID, err := svc.Create(ctx, admin, locationInput("ember-hollow", rootID))
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	grandchildID, err := svc.Create(ctx, admin, locationInput("ash-pit", childID))
	if err != nil {
		t.Fatalf("create grandchild: %v", err)
	}

	children, err := svc.Children(ctx, rootID)
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(children) != 1 || children[0].ID != childID {
		t.Fatalf("unexpected children of root: %+v", children)
	}

	// Re-parenting the root under its own grandchild would close a cycle.
	err = svc.UpdateMetadata(ctx, admin, rootID, location.UpdateLocationInput{ParentID: &grandchildID})
	if code := apperrors.CodeOf(err); code != apperrors.CodeLocationParentCycle {
		t.Fatalf("expected %s, got %s (%v)", apperrors.CodeLocationParentCycle, code, err)
	}
	selfID := rootID
	err = svc.UpdateMetadata(ctx, admin, rootID, location.UpdateLocationInput{ParentID: &selfID})
	if code := apperrors.CodeOf(err); code != apperrors.CodeLocationParentCycle {
		t.Fatalf("expected %s for self-parent, got %s (%v)", apperrors.CodeLocationParentCycle, code, err)
	}
}

func TestLocationUpdateSlug(t *testing.T) {
	env := newTestEnv(t)
	env.initRealm(t)
	svc := newLocationService(t, env)
	ctx := context.Background()

	id, err := svc.Create(ctx, admin, locationInput("ember-hollow", 0))
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	otherID, err := svc.Create(ctx, admin, locationInput("verdant-reach", 0))
	if err != nil {
		t.Fatalf("create other: %v", err)
	}

	err = svc.UpdateSlug(ctx, admin, otherID, "ember-hollow")
	if code := apperrors.CodeOf(err); code != apperrors.CodeLocationSlugTaken {
		t.Fatalf("expected %s, got %s (%v)", apperrors.CodeLocationSlugTaken, code, err)
	}

	// Same slug is a no-op, not a conflict with itself.
	if err := svc.UpdateSlug(ctx, admin, id, "Ember-Hollow"); err != nil {
		t.Fatalf("same-slug rename: %v", err)
	}

	if err := svc.UpdateSlug(ctx, admin, id, "ash-hollow"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := svc.UpdateSlug(ctx, admin, otherID, "ember-hollow"); err != nil {
		t.Fatalf("expected freed slug to be assignable: %v", err)
	}

	loc, err := svc.GetBySlug(ctx, "ash-hollow")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if loc.ID != id {
		t.Fatalf("expected location %d, got %d", id, loc.ID)
	}
}

func TestLocationControllerAndActivation(t *testing.T) {
	env := newTestEnv(t)
	env.initRealm(t)
	svc := newLocationService(t, env)
	ctx := context.Background()

	id, err := svc.Create(ctx, admin, locationInput("ember-hollow", 0))
	if err != nil {
		t.Fatalf("create location: %v", err)
	}

	if err := svc.SetController(ctx, admin, id, player); err != nil {
		t.Fatalf("set controller: %v", err)
	}
	if err := svc.SetActive(ctx, admin, id, false); err != nil {
		t.Fatalf("set active: %v", err)
	}

	loc, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get location: %v", err)
	}
	if loc.Controller != player {
		t.Fatalf("expected controller %s, got %s", player.Hex(), loc.Controller.Hex())
	}
	if loc.Active {
		t.Fatal("expected deactivated location")
	}

	// Releasing the claim resets the controller to unclaimed.
	if err := svc.SetController(ctx, admin, id, common.Address{}); err != nil {
		t.Fatalf("release controller: %v", err)
	}
	loc, err = svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get location: %v", err)
	}
	if loc.Controller != (common.Address{}) {
		t.Fatalf("expected unclaimed controller, got %s", loc.Controller.Hex())
	}
}

func TestLocationListClampsPageSize(t *testing.T) {
	env := newTestEnv(t)
	env.initRealm(t)
	svc := newLocationService(t, env)
	ctx := context.Background()

	for _, slug := range []string{"a", "b", "c"} {
		if _, err := svc.Create(ctx, admin, locationInput(slug, 0)); err != nil {
			t.Fatalf("create %s: %v", slug, err)
		}
	}
	all, err := svc.List(ctx, -5, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 locations, got %d", len(all))
	}
	page, err := svc.List(ctx, 1, 1)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 || page[0].Slug != "b" {
		t.Fatalf("unexpected page: %+v", page)
	}
}
