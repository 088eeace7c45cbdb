package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
)

// AppendEvent appends a journal entry outside any other state change.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return appendEventTx(tx, evt)
	})
}

// ListEvents returns up to limit entries with Seq greater than afterSeq.
func (s *Store) ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT seq, id, type, at, payload FROM events WHERE seq > ? ORDER BY seq LIMIT ?",
		afterSeq, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var evt event.Event
		var eventType, payload string
		var at int64
		if err := rows.Scan(&evt.Seq, &evt.ID, &eventType, &at, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Type = event.Type(eventType)
		evt.At = fromMillis(at)
		evt.Payload = []byte(payload)
		events = append(events, evt)
	}
	return events, rows.Err()
}
