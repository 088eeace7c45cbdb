package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/location"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
)

const locationColumns = "id, slug, display_name, description, biome, difficulty, parent_id, active, scene_uri, controller, metadata_uri, created_at, updated_at"

// CreateLocation assigns the next sequential ID and persists the record.
func (s *Store) CreateLocation(ctx context.Context, loc location.Location, evtFn func(id uint64) event.Event) (uint64, error) {
	var id uint64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
INSERT INTO locations (slug, display_name, description, biome, difficulty, parent_id, active, scene_uri, controller, metadata_uri, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			loc.Slug, loc.DisplayName, loc.Description, int(loc.Biome), int(loc.Difficulty),
			loc.ParentID, boolToInt(loc.Active), loc.SceneURI, addrToText(loc.Controller),
			loc.MetadataURI, toMillis(loc.CreatedAt), toMillis(loc.UpdatedAt),
		)
		if err != nil {
			return mapConflict(err)
		}
		lastID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("location insert id: %w", err)
		}
		id = uint64(lastID)
		return appendEventTx(tx, evtFn(id))
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetLocation returns a location by ID.
func (s *Store) GetLocation(ctx context.Context, id uint64) (location.Location, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE id = ?", id)
	return scanLocation(row)
}

// GetLocationBySlug returns the location currently holding a slug.
func (s *Store) GetLocationBySlug(ctx context.Context, slug string) (location.Location, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE slug = ?", slug)
	return scanLocation(row)
}

// UpdateLocation persists a mutated location row, including slug renames.
// Renames free the old slug because the unique index tracks the single
// current value per row.
func (s *Store) UpdateLocation(ctx context.Context, loc location.Location, evt event.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
UPDATE locations
SET slug = ?, display_name = ?, description = ?, biome = ?, difficulty = ?, parent_id = ?, active = ?, scene_uri = ?, controller = ?, metadata_uri = ?, updated_at = ?
WHERE id = ?`,
			loc.Slug, loc.DisplayName, loc.Description, int(loc.Biome), int(loc.Difficulty),
			loc.ParentID, boolToInt(loc.Active), loc.SceneURI, addrToText(loc.Controller),
			loc.MetadataURI, toMillis(loc.UpdatedAt), loc.ID,
		)
		if err != nil {
			return mapConflict(err)
		}
		updated, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("location update result: %w", err)
		}
		if updated == 0 {
			return storage.ErrNotFound
		}
		return appendEventTx(tx, evt)
	})
}

// ListLocations returns a page of locations ordered by ID.
func (s *Store) ListLocations(ctx context.Context, offset, limit int) ([]location.Location, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+locationColumns+" FROM locations ORDER BY id LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()
	return scanLocations(rows)
}

// ListChildren returns the direct children of a parent, ordered by ID.
// The parent_id index backs this lookup.
func (s *Store) ListChildren(ctx context.Context, parentID uint64) ([]location.Location, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE parent_id = ? ORDER BY id",
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()
	return scanLocations(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (location.Location, error) {
	var loc location.Location
	var biome, difficulty, active int
	var controller string
	var createdAt, updatedAt int64
	err := row.Scan(
		&loc.ID, &loc.Slug, &loc.DisplayName, &loc.Description, &biome, &difficulty,
		&loc.ParentID, &active, &loc.SceneURI, &controller, &loc.MetadataURI,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return location.Location{}, storage.ErrNotFound
		}
		return location.Location{}, fmt.Errorf("scan location: %w", err)
	}
	loc.Biome = location.Biome(biome)
	loc.Difficulty = location.Difficulty(difficulty)
	loc.Active = active != 0
	loc.Controller = addrFromText(controller)
	loc.CreatedAt = fromMillis(createdAt)
	loc.UpdatedAt = fromMillis(updatedAt)
	return loc, nil
}

func scanLocations(rows *sql.Rows) ([]location.Location, error) {
	var locations []location.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
