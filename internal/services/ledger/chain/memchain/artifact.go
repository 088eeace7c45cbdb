// Package memchain provides in-process reference implementations of the
// external chain ledgers, used by server wiring and tests.
package memchain

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
)

// ArtifactLedger is an in-memory non-fungible artifact registry.
type ArtifactLedger struct {
	mu     sync.RWMutex
	nextID uint64
	owners map[uint64]common.Address
	uris   map[uint64]string
}

// NewArtifactLedger creates an empty artifact ledger. IDs start at 1.
func NewArtifactLedger() *ArtifactLedger {
	return &ArtifactLedger{
		nextID: 1,
		owners: make(map[uint64]common.Address),
		uris:   make(map[uint64]string),
	}
}

// OwnerOf returns the current owner of an artifact.
func (l *ArtifactLedger) OwnerOf(ctx context.Context, artifactID uint64) (common.Address, error) {
	if err := ctx.Err(); err != nil {
		return common.Address{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	owner, ok := l.owners[artifactID]
	if !ok {
		return common.Address{}, apperrors.New(apperrors.CodeArtifactNotFound, "artifact does not exist")
	}
	return owner, nil
}

// Mint creates a new artifact owned by to and returns its ID.
func (l *ArtifactLedger) Mint(ctx context.Context, to common.Address, uri string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if to == (common.Address{}) {
		return 0, apperrors.New(apperrors.CodeAddressInvalid, "mint recipient is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.owners[id] = to
	l.uris[id] = uri
	return id, nil
}

// URI returns the metadata URI recorded at mint time.
func (l *ArtifactLedger) URI(artifactID uint64) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.uris[artifactID]
}
