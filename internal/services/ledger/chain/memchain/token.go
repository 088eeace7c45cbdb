package memchain

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
)

// TokenLedger is an in-memory fungible token ledger.
type TokenLedger struct {
	mu       sync.RWMutex
	balances map[common.Address]*uint256.Int
}

// NewTokenLedger creates an empty token ledger.
func NewTokenLedger() *TokenLedger {
	return &TokenLedger{balances: make(map[common.Address]*uint256.Int)}
}

// BalanceOf returns the current balance of an address.
func (l *TokenLedger) BalanceOf(ctx context.Context, addr common.Address) (*uint256.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	balance, ok := l.balances[addr]
	if !ok {
		return uint256.NewInt(0), nil
	}
	return balance.Clone(), nil
}

// Mint credits newly issued tokens to an address.
func (l *TokenLedger) Mint(ctx context.Context, to common.Address, amount *uint256.Int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return apperrors.New(apperrors.CodeAmountInvalid, "mint amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[to] = new(uint256.Int).Add(l.balance(to), amount)
	return nil
}

// Transfer moves tokens between addresses.
func (l *TokenLedger) Transfer(ctx context.Context, from, to common.Address, amount *uint256.Int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return apperrors.New(apperrors.CodeAmountInvalid, "transfer amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balance(from)
	if balance.Lt(amount) {
		return apperrors.New(apperrors.CodeTokenInsufficientBalance, "balance is insufficient")
	}
	l.balances[from] = new(uint256.Int).Sub(balance, amount)
	l.balances[to] = new(uint256.Int).Add(l.balance(to), amount)
	return nil
}

// Burn destroys tokens held by an address.
func (l *TokenLedger) Burn(ctx context.Context, from common.Address, amount *uint256.Int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return apperrors.New(apperrors.CodeAmountInvalid, "burn amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balance(from)
	if balance.Lt(amount) {
		return apperrors.New(apperrors.CodeTokenInsufficientBalance, "balance is insufficient")
	}
	l.balances[from] = new(uint256.Int).Sub(balance, amount)
	return nil
}

// balance reads a balance without copying. Callers hold the lock.
func (l *TokenLedger) balance(addr common.Address) *uint256.Int {
	if balance, ok := l.balances[addr]; ok {
		return balance
	}
	return uint256.NewInt(0)
}
