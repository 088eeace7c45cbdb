package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/tribe"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
)

// CreateTribe assigns the next sequential ID and persists the record.
func (s *Store) CreateTribe(ctx context.Context, t tribe.Tribe, evtFn func(id uint64) event.Event) (uint64, error) {
	var id uint64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
INSERT INTO tribes (name, leader, requires_approval, active, quorum_threshold, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.Name, addrToText(t.Leader), boolToInt(t.RequiresApproval), boolToInt(t.Active),
			t.QuorumThreshold, toMillis(t.CreatedAt), toMillis(t.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert tribe: %w", err)
		}
		lastID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("tribe insert id: %w", err)
		}
		id = uint64(lastID)
		return appendEventTx(tx, evtFn(id))
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetTribe returns a tribe by ID.
func (s *Store) GetTribe(ctx context.Context, id uint64) (tribe.Tribe, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, leader, requires_approval, active, quorum_threshold, created_at, updated_at
FROM tribes WHERE id = ?`, id)

	var t tribe.Tribe
	var leader string
	var requiresApproval, active int
	var createdAt, updatedAt int64
	err := row.Scan(&t.ID, &t.Name, &leader, &requiresApproval, &active,
		&t.QuorumThreshold, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tribe.Tribe{}, storage.ErrNotFound
		}
		return tribe.Tribe{}, fmt.Errorf("scan tribe: %w", err)
	}
	t.Leader = addrFromText(leader)
	t.RequiresApproval = requiresApproval != 0
	t.Active = active != 0
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return t, nil
}

// SaveTribe persists a mutated tribe row.
func (s *Store) SaveTribe(ctx context.Context, t tribe.Tribe, evt event.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
UPDATE tribes SET name = ?, leader = ?, requires_approval = ?, active = ?, quorum_threshold = ?, updated_at = ?
WHERE id = ?`,
			t.Name, addrToText(t.Leader), boolToInt(t.RequiresApproval), boolToInt(t.Active),
			t.QuorumThreshold, toMillis(t.UpdatedAt), t.ID,
		)
		if err != nil {
			return fmt.Errorf("update tribe: %w", err)
		}
		updated, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("tribe update result: %w", err)
		}
		if updated == 0 {
			return storage.ErrNotFound
		}
		return appendEventTx(tx, evt)
	})
}

// CreateJoinRequest persists a pending request and consumes the applicant's
// one initiation. The initiations primary key enforces the one-shot rule.
func (s *Store) CreateJoinRequest(ctx context.Context, r tribe.JoinRequest, evtFn func(id uint64) event.Event) (uint64, error) {
	var id uint64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
INSERT INTO join_requests (tribe_id, applicant, initiation_artifact_id, approved, processed, approval_count, rejection_count, created_at, processed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.TribeID, addrToText(r.Applicant), r.InitiationArtifactID,
			boolToInt(r.Approved), boolToInt(r.Processed), r.ApprovalCount, r.RejectionCount,
			toMillis(r.CreatedAt), toNullMillis(r.ProcessedAt),
		)
		if err != nil {
			return fmt.Errorf("insert join request: %w", err)
		}
		lastID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("join request insert id: %w", err)
		}
		id = uint64(lastID)

		if _, err := tx.Exec(
			"INSERT INTO initiations (address, request_id, initiated_at) VALUES (?, ?, ?)",
			addrToText(r.Applicant), id, toMillis(r.CreatedAt),
		); err != nil {
			return mapConflict(err)
		}
		return appendEventTx(tx, evtFn(id))
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetJoinRequest returns a join request with its recorded voters in vote order.
func (s *Store) GetJoinRequest(ctx context.Context, id uint64) (tribe.JoinRequest, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, tribe_id, applicant, initiation_artifact_id, approved, processed, approval_count, rejection_count, created_at, processed_at
FROM join_requests WHERE id = ?`, id)

	var r tribe.JoinRequest
	var applicant string
	var approved, processed int
	var createdAt int64
	var processedAt sql.NullInt64
	err := row.Scan(&r.ID, &r.TribeID, &applicant, &r.InitiationArtifactID,
		&approved, &processed, &r.ApprovalCount, &r.RejectionCount, &createdAt, &processedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tribe.JoinRequest{}, storage.ErrNotFound
		}
		return tribe.JoinRequest{}, fmt.Errorf("scan join request: %w", err)
	}
	r.Applicant = addrFromText(applicant)
	r.Approved = approved != 0
	r.Processed = processed != 0
	r.CreatedAt = fromMillis(createdAt)
	r.ProcessedAt = fromNullMillis(processedAt)

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT voter FROM join_votes WHERE request_id = ? ORDER BY position", id)
	if err != nil {
		return tribe.JoinRequest{}, fmt.Errorf("query join votes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var voter string
		if err := rows.Scan(&voter); err != nil {
			return tribe.JoinRequest{}, fmt.Errorf("scan join vote: %w", err)
		}
		r.Voters = append(r.Voters, addrFromText(voter))
	}
	return r, rows.Err()
}

// SaveJoinRequest persists request progress, records the vote cast in this
// call when present, and grants membership in the same transaction when
// requested.
func (s *Store) SaveJoinRequest(ctx context.Context, r tribe.JoinRequest, vote *storage.VoteRecord, grantMembership bool, evt event.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
UPDATE join_requests SET approved = ?, processed = ?, approval_count = ?, rejection_count = ?, processed_at = ?
WHERE id = ?`,
			boolToInt(r.Approved), boolToInt(r.Processed), r.ApprovalCount, r.RejectionCount,
			toNullMillis(r.ProcessedAt), r.ID,
		)
		if err != nil {
			return fmt.Errorf("update join request: %w", err)
		}
		updated, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("join request update result: %w", err)
		}
		if updated == 0 {
			return storage.ErrNotFound
		}

		if vote != nil {
			if _, err := tx.Exec(`
INSERT INTO join_votes (request_id, voter, approve, position, voted_at)
VALUES (?, ?, ?, ?, ?)`,
				r.ID, addrToText(vote.Voter), boolToInt(vote.Approve), len(r.Voters)-1,
				toMillis(vote.At),
			); err != nil {
				return mapConflict(err)
			}
		}

		if grantMembership {
			joinedAt := r.CreatedAt
			if r.ProcessedAt != nil {
				joinedAt = *r.ProcessedAt
			}
			if _, err := tx.Exec(
				"INSERT OR IGNORE INTO tribe_members (tribe_id, address, joined_at) VALUES (?, ?, ?)",
				r.TribeID, addrToText(r.Applicant), toMillis(joinedAt),
			); err != nil {
				return fmt.Errorf("insert membership: %w", err)
			}
		}
		return appendEventTx(tx, evt)
	})
}

// HasInitiated reports whether an address ever filed a join request.
func (s *Store) HasInitiated(ctx context.Context, addr common.Address) (bool, error) {
	return s.existsQuery(ctx,
		"SELECT COUNT(1) FROM initiations WHERE address = ?", addrToText(addr))
}

// IsMember reports tribe membership.
func (s *Store) IsMember(ctx context.Context, tribeID uint64, addr common.Address) (bool, error) {
	return s.existsQuery(ctx,
		"SELECT COUNT(1) FROM tribe_members WHERE tribe_id = ? AND address = ?",
		tribeID, addrToText(addr))
}

// IsMemberAnywhere reports whether an address was approved in any tribe.
func (s *Store) IsMemberAnywhere(ctx context.Context, addr common.Address) (bool, error) {
	return s.existsQuery(ctx,
		"SELECT COUNT(1) FROM tribe_members WHERE address = ?", addrToText(addr))
}

// existsQuery runs a COUNT query and reports whether any row matched.
func (s *Store) existsQuery(ctx context.Context, query string, args ...any) (bool, error) {
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("exists query: %w", err)
	}
	return count > 0, nil
}
