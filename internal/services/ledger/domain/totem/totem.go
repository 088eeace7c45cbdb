// Package totem models artifact bundles and their accumulated power.
package totem

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
)

var (
	// ErrEmptyArtifactSet indicates a totem creation without artifacts.
	ErrEmptyArtifactSet = apperrors.New(apperrors.CodeTotemEmptyArtifactSet, "at least one artifact is required")
	// ErrArtifactBound indicates an artifact already bound to a totem.
	ErrArtifactBound = apperrors.New(apperrors.CodeTotemArtifactBound, "artifact is already bound to a totem")
	// ErrNotArtifactOwner indicates the caller does not own an artifact.
	ErrNotArtifactOwner = apperrors.New(apperrors.CodeTotemNotArtifactOwner, "caller does not own the artifact")
	// ErrZeroAmount indicates a power-up with no burn amount.
	ErrZeroAmount = apperrors.New(apperrors.CodeTotemZeroAmount, "power-up amount must be positive")
)

// Totem aggregates owned artifacts into a single power score.
type Totem struct {
	ID      uint64
	Creator common.Address
	// Power grows by one per bound artifact and by the burned amount per
	// power-up. Only the admin override can move it any other way.
	Power       *uint256.Int
	ArtifactIDs []uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateTotem validates the artifact set and builds a new totem record.
// Ownership and binding exclusivity are checked by the service against the
// artifact ledger and the binding index before this record is persisted.
func CreateTotem(creator common.Address, artifactIDs []uint64, now func() time.Time) (Totem, error) {
	if now == nil {
		now = time.Now
	}
	if len(artifactIDs) == 0 {
		return Totem{}, ErrEmptyArtifactSet
	}

	seen := make(map[uint64]struct{}, len(artifactIDs))
	ids := make([]uint64, 0, len(artifactIDs))
	for _, id := range artifactIDs {
		if _, dup := seen[id]; dup {
			return Totem{}, ErrArtifactBound
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	createdAt := now().UTC()
	return Totem{
		Creator:     creator,
		Power:       uint256.NewInt(uint64(len(ids))),
		ArtifactIDs: ids,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// BindArtifact appends an artifact to the totem and grows power by one.
func BindArtifact(t Totem, artifactID uint64, now func() time.Time) (Totem, error) {
	if now == nil {
		now = time.Now
	}
	for _, id := range t.ArtifactIDs {
		if id == artifactID {
			return Totem{}, ErrArtifactBound
		}
	}

	updated := t
	updated.ArtifactIDs = append(append([]uint64(nil), t.ArtifactIDs...), artifactID)
	updated.Power = new(uint256.Int).AddUint64(t.Power, 1)
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// PowerUp grows power by the burned amount.
func PowerUp(t Totem, amount *uint256.Int, now func() time.Time) (Totem, error) {
	if now == nil {
		now = time.Now
	}
	if amount == nil || amount.IsZero() {
		return Totem{}, ErrZeroAmount
	}

	updated := t
	updated.Power = new(uint256.Int).Add(t.Power, amount)
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// OverridePower unconditionally replaces the power score. This is the one
// path that can lower power, reserved for the admin capability.
func OverridePower(t Totem, value *uint256.Int, now func() time.Time) Totem {
	if now == nil {
		now = time.Now
	}
	if value == nil {
		value = uint256.NewInt(0)
	}

	updated := t
	updated.Power = value.Clone()
	updated.UpdatedAt = now().UTC()
	return updated
}
