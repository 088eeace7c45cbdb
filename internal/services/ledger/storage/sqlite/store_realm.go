package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
)

// GetRealm returns the realm record, or storage.ErrNotFound before initialization.
func (s *Store) GetRealm(ctx context.Context) (storage.Realm, error) {
	row := s.sqlDB.QueryRowContext(ctx, "SELECT name, initialized_at FROM realm WHERE id = 1")

	var name string
	var initializedAt int64
	if err := row.Scan(&name, &initializedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Realm{}, storage.ErrNotFound
		}
		return storage.Realm{}, fmt.Errorf("scan realm: %w", err)
	}
	return storage.Realm{Name: name, InitializedAt: fromMillis(initializedAt)}, nil
}

// InitializeRealm writes the realm record exactly once.
func (s *Store) InitializeRealm(ctx context.Context, realm storage.Realm, evt event.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"INSERT INTO realm (id, name, initialized_at) VALUES (1, ?, ?)",
			realm.Name, toMillis(realm.InitializedAt),
		); err != nil {
			return mapConflict(err)
		}
		return appendEventTx(tx, evt)
	})
}

// Initialized reports whether the realm record exists. It satisfies the
// chain.RealmDescriptor boundary for the location registry gate.
func (s *Store) Initialized(ctx context.Context) (bool, error) {
	if _, err := s.GetRealm(ctx); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GrantRole records a role grant; granting an already-held role is a no-op.
func (s *Store) GrantRole(ctx context.Context, grant storage.RoleGrant, evt event.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			"INSERT OR IGNORE INTO role_grants (address, role, granted_at) VALUES (?, ?, ?)",
			addrToText(grant.Address), grant.Role, toMillis(grant.GrantedAt),
		)
		if err != nil {
			return fmt.Errorf("grant role: %w", err)
		}
		inserted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("grant role result: %w", err)
		}
		if inserted == 0 {
			return nil
		}
		return appendEventTx(tx, evt)
	})
}

// RevokeRole removes a role grant.
func (s *Store) RevokeRole(ctx context.Context, addr common.Address, role string, evt event.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			"DELETE FROM role_grants WHERE address = ? AND role = ?",
			addrToText(addr), role,
		)
		if err != nil {
			return fmt.Errorf("revoke role: %w", err)
		}
		removed, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("revoke role result: %w", err)
		}
		if removed == 0 {
			return storage.ErrNotFound
		}
		return appendEventTx(tx, evt)
	})
}

// RolesOf returns the roles granted to an address.
func (s *Store) RolesOf(ctx context.Context, addr common.Address) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT role FROM role_grants WHERE address = ? ORDER BY role",
		addrToText(addr),
	)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// ListRoleGrants returns all grants ordered by grant time.
func (s *Store) ListRoleGrants(ctx context.Context) ([]storage.RoleGrant, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT address, role, granted_at FROM role_grants ORDER BY granted_at, address, role",
	)
	if err != nil {
		return nil, fmt.Errorf("query role grants: %w", err)
	}
	defer rows.Close()

	var grants []storage.RoleGrant
	for rows.Next() {
		var addr, role string
		var grantedAt int64
		if err := rows.Scan(&addr, &role, &grantedAt); err != nil {
			return nil, fmt.Errorf("scan role grant: %w", err)
		}
		grants = append(grants, storage.RoleGrant{
			Address:   addrFromText(addr),
			Role:      role,
			GrantedAt: fromMillis(grantedAt),
		})
	}
	return grants, rows.Err()
}
