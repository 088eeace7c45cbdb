// Package attestor generates attestor keys and signs reward vouchers, the
// off-board half of the quest claim flow.
package attestor

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/mythosforge/realmledger/internal/services/ledger/domain/quest"
)

// Config holds attestor tool configuration.
type Config struct {
	// GenKey generates a fresh key pair instead of signing.
	GenKey bool
	// Key is the signing key as hex, required unless GenKey is set.
	Key string

	Player  string
	QuestID uint64
	Amount  string
	Ledger  string
	ChainID uint64
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.BoolVar(&cfg.GenKey, "genkey", false, "generate a new attestor key pair and exit")
	fs.StringVar(&cfg.Key, "key", "", "attestor private key (hex)")
	fs.StringVar(&cfg.Player, "player", "", "player address the voucher pays")
	fs.Uint64Var(&cfg.QuestID, "quest", 0, "quest identifier")
	fs.StringVar(&cfg.Amount, "amount", "", "reward amount (decimal)")
	fs.StringVar(&cfg.Ledger, "ledger", "", "ledger deployment address the voucher is scoped to")
	fs.Uint64Var(&cfg.ChainID, "chain-id", 1, "chain ID the voucher is scoped to")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the tool and writes its output to out.
func Run(cfg Config, out io.Writer) error {
	if out == nil {
		return errors.New("output is required")
	}
	if cfg.GenKey {
		return generateKey(out)
	}
	return signVoucher(cfg, out)
}

func generateKey(out io.Writer) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	addr := crypto.PubkeyToAddress(key.PublicKey)
	fmt.Fprintf(out, "MYTHOS_ATTESTOR_KEY=%x\n", crypto.FromECDSA(key))
	fmt.Fprintf(out, "MYTHOS_ATTESTOR_ADDRESS=%s\n", strings.ToLower(addr.Hex()))
	return nil
}

func signVoucher(cfg Config, out io.Writer) error {
	if cfg.Key == "" {
		return errors.New("signing key is required")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.Key, "0x"))
	if err != nil {
		return fmt.Errorf("parse key: %w", err)
	}
	if !common.IsHexAddress(cfg.Player) {
		return fmt.Errorf("player %q is not a valid hex address", cfg.Player)
	}
	if !common.IsHexAddress(cfg.Ledger) {
		return fmt.Errorf("ledger %q is not a valid hex address", cfg.Ledger)
	}
	amount, err := uint256.FromDecimal(cfg.Amount)
	if err != nil {
		return fmt.Errorf("parse amount: %w", err)
	}

	voucher := quest.Voucher{
		Player:  common.HexToAddress(cfg.Player),
		QuestID: cfg.QuestID,
		Amount:  amount,
		Ledger:  common.HexToAddress(cfg.Ledger),
		ChainID: cfg.ChainID,
	}
	if err := voucher.Validate(); err != nil {
		return err
	}

	digest := voucher.SignedDigest()
	signature, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return fmt.Errorf("sign digest: %w", err)
	}
	// Emit the 27/28 recovery identifier convention.
	signature[crypto.RecoveryIDOffset] += 27

	fmt.Fprintf(out, "digest=%s\n", voucher.MessageHash().Hex())
	fmt.Fprintf(out, "signature=%s\n", hexutil.Encode(signature))
	return nil
}
