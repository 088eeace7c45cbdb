package quest

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Verifier checks that a signature over a digest was produced by the
// expected signer. Claim logic depends only on this interface so it can be
// exercised without the concrete recovery scheme.
type Verifier interface {
	Verify(digest common.Hash, signature []byte, expected common.Address) error
}

// RecoveryVerifier verifies signatures via secp256k1 public key recovery.
type RecoveryVerifier struct{}

// Verify recovers the signer from a 65-byte recoverable signature and
// compares it to the expected address.
func (RecoveryVerifier) Verify(digest common.Hash, signature []byte, expected common.Address) error {
	if len(signature) != crypto.SignatureLength {
		return ErrSignatureInvalid
	}

	// Accept the 27/28 recovery identifiers attestor tooling emits.
	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, signature)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(digest.Bytes(), normalized)
	if err != nil {
		return ErrSignatureInvalid
	}
	if crypto.PubkeyToAddress(*pub) != expected {
		return ErrSignatureInvalid
	}
	return nil
}
