// Package chain declares the external collaborator boundary: the artifact
// and fungible token ledgers the core calls but does not reimplement, and
// the one-time-initialized realm descriptor that gates the location registry.
package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ArtifactLedger is the ownership registry for non-fungible artifacts.
type ArtifactLedger interface {
	// OwnerOf returns the current owner of an artifact.
	OwnerOf(ctx context.Context, artifactID uint64) (common.Address, error)
	// Mint creates a new artifact owned by to and returns its ID.
	Mint(ctx context.Context, to common.Address, uri string) (uint64, error)
}

// TokenLedger is the fungible reward-currency ledger.
type TokenLedger interface {
	// BalanceOf returns the current balance of an address.
	BalanceOf(ctx context.Context, addr common.Address) (*uint256.Int, error)
	// Mint credits newly issued tokens to an address.
	Mint(ctx context.Context, to common.Address, amount *uint256.Int) error
	// Transfer moves tokens between addresses.
	Transfer(ctx context.Context, from, to common.Address, amount *uint256.Int) error
	// Burn destroys tokens held by an address. Burned tokens are gone, not
	// escrowed.
	Burn(ctx context.Context, from common.Address, amount *uint256.Int) error
}

// RealmDescriptor reports whether the realm record has been initialized.
type RealmDescriptor interface {
	Initialized(ctx context.Context) (bool, error)
}
