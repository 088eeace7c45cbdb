package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
)

const attestorKey = "quest.attestor"

// Attestor returns the configured attestor, or storage.ErrNotFound before one is set.
func (s *Store) Attestor(ctx context.Context) (common.Address, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", attestorKey)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.Address{}, storage.ErrNotFound
		}
		return common.Address{}, fmt.Errorf("scan attestor: %w", err)
	}
	return addrFromText(value), nil
}

// SetAttestor stores the attestor address.
func (s *Store) SetAttestor(ctx context.Context, attestor common.Address, evt event.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			attestorKey, addrToText(attestor),
		); err != nil {
			return fmt.Errorf("set attestor: %w", err)
		}
		return appendEventTx(tx, evt)
	})
}

// ConsumeVoucher marks a digest used exactly once. The digest primary key
// makes the second consume fail with storage.ErrConflict.
func (s *Store) ConsumeVoucher(ctx context.Context, digest common.Hash, evt event.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"INSERT INTO used_vouchers (digest, used_at) VALUES (?, ?)",
			digestToText(digest), time.Now().UTC().UnixMilli(),
		); err != nil {
			return mapConflict(err)
		}
		return appendEventTx(tx, evt)
	})
}

// VoucherUsed reports whether a digest was already consumed.
func (s *Store) VoucherUsed(ctx context.Context, digest common.Hash) (bool, error) {
	return s.existsQuery(ctx,
		"SELECT COUNT(1) FROM used_vouchers WHERE digest = ?", digestToText(digest))
}

// digestToText stores digests as lowercase hex.
func digestToText(digest common.Hash) string {
	return strings.ToLower(digest.Hex())
}
