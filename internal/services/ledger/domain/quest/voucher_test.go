package quest

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

var (
	player     = common.HexToAddress("0x1000000000000000000000000000000000000001")
	ledgerAddr = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func testVoucher() Voucher {
	return Voucher{
		Player:  player,
		QuestID: 7,
		Amount:  uint256.NewInt(1500),
		Ledger:  ledgerAddr,
		ChainID: 1,
	}
}

func TestVoucherValidate(t *testing.T) {
	v := testVoucher()
	if err := v.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	v.Amount = uint256.NewInt(0)
	if err := v.Validate(); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected %v, got %v", ErrZeroAmount, err)
	}
	v.Amount = nil
	if err := v.Validate(); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected %v for nil amount, got %v", ErrZeroAmount, err)
	}
}

func TestMessageHashDeterministic(t *testing.T) {
	a := testVoucher().MessageHash()
	b := testVoucher().MessageHash()
	if a != b {
		t.Fatalf("expected deterministic digest, got %s and %s", a.Hex(), b.Hex())
	}
}

func TestMessageHashBindsEveryField(t *testing.T) {
	base := testVoucher().MessageHash()

	variants := map[string]Voucher{}

	v := testVoucher()
	v.Player = common.HexToAddress("0x3000000000000000000000000000000000000003")
	variants["player"] = v

	v = testVoucher()
	v.QuestID = 8
	variants["quest"] = v

	v = testVoucher()
	v.Amount = uint256.NewInt(1501)
	variants["amount"] = v

	v = testVoucher()
	v.Ledger = common.HexToAddress("0x4000000000000000000000000000000000000004")
	variants["ledger"] = v

	v = testVoucher()
	v.ChainID = 2
	variants["chain"] = v

	for field, variant := range variants {
		if variant.MessageHash() == base {
			t.Fatalf("digest did not change when %s changed", field)
		}
	}
}

func TestRecoveryVerifier(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	attestor := crypto.PubkeyToAddress(key.PublicKey)

	digest := testVoucher().SignedDigest()
	signature, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		t.Fatalf("sign digest: %v", err)
	}

	verifier := RecoveryVerifier{}
	if err := verifier.Verify(digest, signature, attestor); err != nil {
		t.Fatalf("verify: %v", err)
	}

	t.Run("accepts 27/28 recovery id", func(t *testing.T) {
		legacy := make([]byte, len(signature))
		copy(legacy, signature)
		legacy[crypto.RecoveryIDOffset] += 27
		if err := verifier.Verify(digest, legacy, attestor); err != nil {
			t.Fatalf("verify legacy signature: %v", err)
		}
	})

	t.Run("wrong signer", func(t *testing.T) {
		other := common.HexToAddress("0x5000000000000000000000000000000000000005")
		if err := verifier.Verify(digest, signature, other); !errors.Is(err, ErrSignatureInvalid) {
			t.Fatalf("expected %v, got %v", ErrSignatureInvalid, err)
		}
	})

	t.Run("truncated signature", func(t *testing.T) {
		if err := verifier.Verify(digest, signature[:32], attestor); !errors.Is(err, ErrSignatureInvalid) {
			t.Fatalf("expected %v, got %v", ErrSignatureInvalid, err)
		}
	})

	t.Run("tampered digest", func(t *testing.T) {
		tampered := testVoucher()
		tampered.Amount = uint256.NewInt(999999)
		if err := verifier.Verify(tampered.SignedDigest(), signature, attestor); !errors.Is(err, ErrSignatureInvalid) {
			t.Fatalf("expected %v, got %v", ErrSignatureInvalid, err)
		}
	})
}
