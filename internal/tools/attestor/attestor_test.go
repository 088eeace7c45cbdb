package attestor

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/mythosforge/realmledger/internal/services/ledger/domain/quest"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("attestor", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.GenKey {
		t.Fatal("expected genkey off by default")
	}
	if cfg.ChainID != 1 {
		t.Fatalf("expected default chain ID 1, got %d", cfg.ChainID)
	}
}

func TestParseConfigBadArgs(t *testing.T) {
	fs := flag.NewFlagSet("attestor", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	if _, err := ParseConfig(fs, []string{"-invalid"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestRunNilOutput(t *testing.T) {
	if err := Run(Config{GenKey: true}, nil); err == nil {
		t.Fatal("expected error for nil output")
	}
}

func TestRunGenerateKey(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Run(Config{GenKey: true}, buf); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %d: %q", len(lines), buf.String())
	}
	keyHex := strings.TrimPrefix(lines[0], "MYTHOS_ATTESTOR_KEY=")
	addr := strings.TrimPrefix(lines[1], "MYTHOS_ATTESTOR_ADDRESS=")
	if keyHex == lines[0] || addr == lines[1] {
		t.Fatalf("expected env-style output, got %q", buf.String())
	}

	// The printed address must belong to the printed key.
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		t.Fatalf("parse generated key: %v", err)
	}
	if got := strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex()); got != addr {
		t.Fatalf("expected address %s, got %s", got, addr)
	}
}

func TestRunSignVoucher(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	attestorAddr := crypto.PubkeyToAddress(key.PublicKey)

	cfg := Config{
		Key:     common.Bytes2Hex(crypto.FromECDSA(key)),
		Player:  "0x1000000000000000000000000000000000000001",
		QuestID: 7,
		Amount:  "500",
		Ledger:  "0x2000000000000000000000000000000000000002",
		ChainID: 7,
	}
	buf := &bytes.Buffer{}
	if err := Run(cfg, buf); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %d: %q", len(lines), buf.String())
	}
	signature, err := hexutil.Decode(strings.TrimPrefix(lines[1], "signature="))
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	voucher := quest.Voucher{
		Player:  common.HexToAddress(cfg.Player),
		QuestID: cfg.QuestID,
		Amount:  uint256.NewInt(500),
		Ledger:  common.HexToAddress(cfg.Ledger),
		ChainID: cfg.ChainID,
	}
	if got := strings.TrimPrefix(lines[0], "digest="); got != voucher.MessageHash().Hex() {
		t.Fatalf("expected digest %s, got %s", voucher.MessageHash().Hex(), got)
	}
	// The emitted signature carries a 27/28 recovery identifier and must
	// verify against the claim-side recovery path.
	if signature[crypto.RecoveryIDOffset] < 27 {
		t.Fatalf("expected legacy recovery identifier, got %d", signature[crypto.RecoveryIDOffset])
	}
	verifier := quest.RecoveryVerifier{}
	if err := verifier.Verify(voucher.SignedDigest(), signature, attestorAddr); err != nil {
		t.Fatalf("verify emitted signature: %v", err)
	}
}

func TestRunSignVoucherValidation(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Run(Config{}, buf); err == nil {
		t.Fatal("expected error for missing key")
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	keyHex := common.Bytes2Hex(crypto.FromECDSA(key))

	cases := map[string]Config{
		"bad player":  {Key: keyHex, Player: "nope", Amount: "1", Ledger: "0x2000000000000000000000000000000000000002"},
		"bad ledger":  {Key: keyHex, Player: "0x1000000000000000000000000000000000000001", Amount: "1", Ledger: "nope"},
		"bad amount":  {Key: keyHex, Player: "0x1000000000000000000000000000000000000001", Amount: "one", Ledger: "0x2000000000000000000000000000000000000002"},
		"zero amount": {Key: keyHex, Player: "0x1000000000000000000000000000000000000001", Amount: "0", Ledger: "0x2000000000000000000000000000000000000002"},
	}
	for name, cfg := range cases {
		if err := Run(cfg, &bytes.Buffer{}); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
