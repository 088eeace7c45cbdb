package totem

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var creator = common.HexToAddress("0x1000000000000000000000000000000000000001")

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestCreateTotemPowerEqualsArtifactCount(t *testing.T) {
	totem, err := CreateTotem(creator, []uint64{3, 7, 11}, fixedClock)
	if err != nil {
		t.Fatalf("create totem: %v", err)
	}
	if got, want := totem.Power.Uint64(), uint64(3); got != want {
		t.Fatalf("expected power %d, got %d", want, got)
	}
	if len(totem.ArtifactIDs) != 3 {
		t.Fatalf("expected 3 artifacts, got %d", len(totem.ArtifactIDs))
	}
}

func TestCreateTotemRejectsEmptySet(t *testing.T) {
	if _, err := CreateTotem(creator, nil, fixedClock); !errors.Is(err, ErrEmptyArtifactSet) {
		t.Fatalf("expected %v, got %v", ErrEmptyArtifactSet, err)
	}
}

func TestCreateTotemRejectsDuplicates(t *testing.T) {
	if _, err := CreateTotem(creator, []uint64{3, 7, 3}, fixedClock); !errors.Is(err, ErrArtifactBound) {
		t.Fatalf("expected %v, got %v", ErrArtifactBound, err)
	}
}

func TestBindArtifactGrowsPowerByOne(t *testing.T) {
	totem, err := CreateTotem(creator, []uint64{3}, fixedClock)
	if err != nil {
		t.Fatalf("create totem: %v", err)
	}

	updated, err := BindArtifact(totem, 7, fixedClock)
	if err != nil {
		t.Fatalf("bind artifact: %v", err)
	}
	if got, want := updated.Power.Uint64(), uint64(2); got != want {
		t.Fatalf("expected power %d, got %d", want, got)
	}
	// The original value is untouched.
	if got := totem.Power.Uint64(); got != 1 {
		t.Fatalf("expected original power 1, got %d", got)
	}

	if _, err := BindArtifact(updated, 7, fixedClock); !errors.Is(err, ErrArtifactBound) {
		t.Fatalf("expected %v for rebind, got %v", ErrArtifactBound, err)
	}
}

func TestPowerUp(t *testing.T) {
	totem, err := CreateTotem(creator, []uint64{3}, fixedClock)
	if err != nil {
		t.Fatalf("create totem: %v", err)
	}

	updated, err := PowerUp(totem, uint256.NewInt(41), fixedClock)
	if err != nil {
		t.Fatalf("power up: %v", err)
	}
	if got, want := updated.Power.Uint64(), uint64(42); got != want {
		t.Fatalf("expected power %d, got %d", want, got)
	}

	if _, err := PowerUp(totem, uint256.NewInt(0), fixedClock); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected %v for zero amount, got %v", ErrZeroAmount, err)
	}
	if _, err := PowerUp(totem, nil, fixedClock); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected %v for nil amount, got %v", ErrZeroAmount, err)
	}
}

func TestOverridePowerCanLower(t *testing.T) {
	totem, err := CreateTotem(creator, []uint64{3, 7}, fixedClock)
	if err != nil {
		t.Fatalf("create totem: %v", err)
	}

	updated := OverridePower(totem, uint256.NewInt(1), fixedClock)
	if got := updated.Power.Uint64(); got != 1 {
		t.Fatalf("expected power 1, got %d", got)
	}

	zeroed := OverridePower(totem, nil, fixedClock)
	if !zeroed.Power.IsZero() {
		t.Fatalf("expected nil override to zero power, got %s", zeroed.Power.Dec())
	}
}
