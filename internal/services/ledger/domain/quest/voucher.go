// Package quest models signed reward vouchers and their exactly-once claims.
package quest

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
)

var (
	// ErrZeroAmount indicates a voucher with no reward amount.
	ErrZeroAmount = apperrors.New(apperrors.CodeQuestZeroAmount, "reward amount must be positive")
	// ErrSignatureInvalid indicates a signature that does not recover to the attestor.
	ErrSignatureInvalid = apperrors.New(apperrors.CodeQuestSignatureInvalid, "voucher signature is invalid")
	// ErrVoucherClaimed indicates a voucher digest that was already consumed.
	ErrVoucherClaimed = apperrors.New(apperrors.CodeQuestVoucherClaimed, "voucher has already been claimed")
)

// signedMessagePrefix is the transform the attestor's signing routine applies
// before signing a 32-byte digest.
const signedMessagePrefix = "\x19Ethereum Signed Message:\n32"

// Voucher is the logical reward grant an attestor signs. Binding the ledger
// address and chain ID into the digest is what stops cross-deployment and
// cross-chain replay.
type Voucher struct {
	Player  common.Address
	QuestID uint64
	Amount  *uint256.Int
	// Ledger is the deployment address the voucher is scoped to.
	Ledger common.Address
	// ChainID is the chain the voucher is scoped to.
	ChainID uint64
}

// Validate checks the voucher fields that do not need chain state.
func (v Voucher) Validate() error {
	if v.Amount == nil || v.Amount.IsZero() {
		return ErrZeroAmount
	}
	return nil
}

// MessageHash computes the tightly-packed digest over
// (player, questID, amount, ledger, chainID).
func (v Voucher) MessageHash() common.Hash {
	questID := uint256.NewInt(v.QuestID).Bytes32()
	amount := v.Amount.Bytes32()
	chainID := uint256.NewInt(v.ChainID).Bytes32()

	return common.BytesToHash(crypto.Keccak256(
		v.Player.Bytes(),
		questID[:],
		amount[:],
		v.Ledger.Bytes(),
		chainID[:],
	))
}

// SignedDigest applies the signed-message prefix to the message hash,
// producing the digest the attestor actually signs.
func (v Voucher) SignedDigest() common.Hash {
	message := v.MessageHash()
	return common.BytesToHash(crypto.Keccak256(
		[]byte(signedMessagePrefix),
		message.Bytes(),
	))
}
