package service

import (
	"context"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/totem"
)

func newTotemService(t *testing.T, env *testEnv) *TotemService {
	t.Helper()
	svc := NewTotemService(env.store, env.artifacts, env.tokens, env.auth)
	svc.clock = testClock
	return svc
}

func TestTotemCreateInitialPower(t *testing.T) {
	env := newTestEnv(t)
	svc := newTotemService(t, env)
	ctx := context.Background()

	a := env.mintArtifact(t, player)
	b := env.mintArtifact(t, player)
	c := env.mintArtifact(t, player)

	id, err := svc.Create(ctx, player, []uint64{a, b, c})
	if err != nil {
		t.Fatalf("create totem: %v", err)
	}

	tot, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get totem: %v", err)
	}
	if got, want := tot.Power.Uint64(), uint64(3); got != want {
		t.Fatalf("expected initial power %d, got %d", want, got)
	}
	if tot.Creator != player {
		t.Fatalf("expected creator %s, got %s", player.Hex(), tot.Creator.Hex())
	}
}

func TestTotemCreateRequiresOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := newTotemService(t, env)
	ctx := context.Background()

	foreign := env.mintArtifact(t, player2)
	_, err := svc.Create(ctx, player, []uint64{foreign})
	if !errors.Is(err, totem.ErrNotArtifactOwner) {
		t.Fatalf("expected %v, got %v", totem.ErrNotArtifactOwner, err)
	}
}

func TestTotemArtifactExclusivity(t *testing.T) {
	env := newTestEnv(t)
	svc := newTotemService(t, env)
	ctx := context.Background()

	a := env.mintArtifact(t, player)
	b := env.mintArtifact(t, player)

	firstID, err := svc.Create(ctx, player, []uint64{a})
	if err != nil {
		t.Fatalf("create first totem: %v", err)
	}
	_, err = svc.Create(ctx, player, []uint64{a, b})
	if !errors.Is(err, totem.ErrArtifactBound) {
		t.Fatalf("expected %v, got %v", totem.ErrArtifactBound, err)
	}

	boundTo, err := svc.ArtifactTotem(ctx, a)
	if err != nil {
		t.Fatalf("artifact totem: %v", err)
	}
	if boundTo != firstID {
		t.Fatalf("expected artifact bound to %d, got %d", firstID, boundTo)
	}
}

func TestTotemAddArtifact(t *testing.T) {
	env := newTestEnv(t)
	svc := newTotemService(t, env)
	ctx := context.Background()

	a := env.mintArtifact(t, player)
	b := env.mintArtifact(t, player)
	id, err := svc.Create(ctx, player, []uint64{a})
	if err != nil {
		t.Fatalf("create totem: %v", err)
	}

	// Only the creator can grow the bundle.
	err = svc.AddArtifact(ctx, player2, id, b)
	if !errors.Is(err, totem.ErrNotArtifactOwner) {
		t.Fatalf("expected %v for non-creator, got %v", totem.ErrNotArtifactOwner, err)
	}

	if err := svc.AddArtifact(ctx, player, id, b); err != nil {
		t.Fatalf("add artifact: %v", err)
	}
	err = svc.AddArtifact(ctx, player, id, b)
	if !errors.Is(err, totem.ErrArtifactBound) {
		t.Fatalf("expected %v for rebind, got %v", totem.ErrArtifactBound, err)
	}

	tot, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get totem: %v", err)
	}
	if got, want := tot.Power.Uint64(), uint64(2); got != want {
		t.Fatalf("expected power %d after bind, got %d", want, got)
	}
}

func TestTotemPowerUpBurnsTokens(t *testing.T) {
	env := newTestEnv(t)
	svc := newTotemService(t, env)
	ctx := context.Background()

	a := env.mintArtifact(t, player2)
	id, err := svc.Create(ctx, player2, []uint64{a})
	if err != nil {
		t.Fatalf("create totem: %v", err)
	}

	if err := env.tokens.Mint(ctx, player, uint256.NewInt(100)); err != nil {
		t.Fatalf("mint tokens: %v", err)
	}

	// Any holder can power up any totem, not just its creator.
	if err := svc.PowerUp(ctx, player, id, uint256.NewInt(41)); err != nil {
		t.Fatalf("power up: %v", err)
	}

	tot, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get totem: %v", err)
	}
	if got, want := tot.Power.Uint64(), uint64(42); got != want {
		t.Fatalf("expected power %d, got %d", want, got)
	}
	balance, err := env.tokens.BalanceOf(ctx, player)
	if err != nil {
		t.Fatalf("balance of: %v", err)
	}
	if got, want := balance.Uint64(), uint64(59); got != want {
		t.Fatalf("expected balance %d after burn, got %d", want, got)
	}
}

func TestTotemPowerUpInsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	svc := newTotemService(t, env)
	ctx := context.Background()

	a := env.mintArtifact(t, player)
	id, err := svc.Create(ctx, player, []uint64{a})
	if err != nil {
		t.Fatalf("create totem: %v", err)
	}

	err = svc.PowerUp(ctx, player, id, uint256.NewInt(10))
	if code := apperrors.CodeOf(err); code != apperrors.CodeTokenInsufficientBalance {
		t.Fatalf("expected %s, got %s (%v)", apperrors.CodeTokenInsufficientBalance, code, err)
	}

	tot, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get totem: %v", err)
	}
	if got, want := tot.Power.Uint64(), uint64(1); got != want {
		t.Fatalf("expected power unchanged at %d, got %d", want, got)
	}
}

func TestTotemPowerUpZeroAmount(t *testing.T) {
	env := newTestEnv(t)
	svc := newTotemService(t, env)

	err := svc.PowerUp(context.Background(), player, 1, uint256.NewInt(0))
	if !errors.Is(err, totem.ErrZeroAmount) {
		t.Fatalf("expected %v, got %v", totem.ErrZeroAmount, err)
	}
	err = svc.PowerUp(context.Background(), player, 1, nil)
	if !errors.Is(err, totem.ErrZeroAmount) {
		t.Fatalf("expected %v for nil amount, got %v", totem.ErrZeroAmount, err)
	}
}

func TestTotemAdminSetPower(t *testing.T) {
	env := newTestEnv(t)
	svc := newTotemService(t, env)
	ctx := context.Background()

	a := env.mintArtifact(t, player)
	id, err := svc.Create(ctx, player, []uint64{a})
	if err != nil {
		t.Fatalf("create totem: %v", err)
	}

	err = svc.AdminSetPower(ctx, player, id, uint256.NewInt(9000))
	if code := apperrors.CodeOf(err); code != apperrors.CodeUnauthorized {
		t.Fatalf("expected %s for non-admin, got %s (%v)", apperrors.CodeUnauthorized, code, err)
	}

	// The override is the only path that can lower power.
	if err := svc.AdminSetPower(ctx, admin, id, uint256.NewInt(0)); err != nil {
		t.Fatalf("admin set power: %v", err)
	}
	tot, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get totem: %v", err)
	}
	if !tot.Power.IsZero() {
		t.Fatalf("expected zero power, got %s", tot.Power.Dec())
	}
}
