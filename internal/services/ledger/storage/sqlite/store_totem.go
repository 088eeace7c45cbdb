package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/totem"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
)

// CreateTotem assigns the next sequential ID, persists the totem, and binds
// its artifacts. The artifact primary key enforces binding exclusivity.
func (s *Store) CreateTotem(ctx context.Context, t totem.Totem, evtFn func(id uint64) event.Event) (uint64, error) {
	var id uint64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			"INSERT INTO totems (creator, power, created_at, updated_at) VALUES (?, ?, ?, ?)",
			addrToText(t.Creator), powerToText(t.Power), toMillis(t.CreatedAt), toMillis(t.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert totem: %w", err)
		}
		lastID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("totem insert id: %w", err)
		}
		id = uint64(lastID)

		boundAt := toMillis(t.CreatedAt)
		for _, artifactID := range t.ArtifactIDs {
			if _, err := tx.Exec(
				"INSERT INTO totem_artifacts (artifact_id, totem_id, bound_at) VALUES (?, ?, ?)",
				artifactID, id, boundAt,
			); err != nil {
				return mapConflict(err)
			}
		}
		return appendEventTx(tx, evtFn(id))
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetTotem returns a totem with its bound artifact IDs in binding order.
func (s *Store) GetTotem(ctx context.Context, id uint64) (totem.Totem, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT id, creator, power, created_at, updated_at FROM totems WHERE id = ?", id)

	var t totem.Totem
	var creator, power string
	var createdAt, updatedAt int64
	if err := row.Scan(&t.ID, &creator, &power, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return totem.Totem{}, storage.ErrNotFound
		}
		return totem.Totem{}, fmt.Errorf("scan totem: %w", err)
	}
	t.Creator = addrFromText(creator)
	parsed, err := powerFromText(power)
	if err != nil {
		return totem.Totem{}, err
	}
	t.Power = parsed
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT artifact_id FROM totem_artifacts WHERE totem_id = ? ORDER BY bound_at, artifact_id", id)
	if err != nil {
		return totem.Totem{}, fmt.Errorf("query totem artifacts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var artifactID uint64
		if err := rows.Scan(&artifactID); err != nil {
			return totem.Totem{}, fmt.Errorf("scan totem artifact: %w", err)
		}
		t.ArtifactIDs = append(t.ArtifactIDs, artifactID)
	}
	return t, rows.Err()
}

// BindArtifact binds one more artifact and stores the updated totem row.
func (s *Store) BindArtifact(ctx context.Context, t totem.Totem, artifactID uint64, evt event.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"INSERT INTO totem_artifacts (artifact_id, totem_id, bound_at) VALUES (?, ?, ?)",
			artifactID, t.ID, toMillis(t.UpdatedAt),
		); err != nil {
			return mapConflict(err)
		}
		return s.savePowerTx(tx, t, evt)
	})
}

// SavePower stores the totem's power score and update time.
func (s *Store) SavePower(ctx context.Context, t totem.Totem, evt event.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.savePowerTx(tx, t, evt)
	})
}

func (s *Store) savePowerTx(tx *sql.Tx, t totem.Totem, evt event.Event) error {
	result, err := tx.Exec(
		"UPDATE totems SET power = ?, updated_at = ? WHERE id = ?",
		powerToText(t.Power), toMillis(t.UpdatedAt), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update totem power: %w", err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("totem power result: %w", err)
	}
	if updated == 0 {
		return storage.ErrNotFound
	}
	return appendEventTx(tx, evt)
}

// ArtifactTotem returns the totem an artifact is bound to, 0 when unbound.
func (s *Store) ArtifactTotem(ctx context.Context, artifactID uint64) (uint64, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT totem_id FROM totem_artifacts WHERE artifact_id = ?", artifactID)

	var totemID uint64
	if err := row.Scan(&totemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("scan artifact binding: %w", err)
	}
	return totemID, nil
}
