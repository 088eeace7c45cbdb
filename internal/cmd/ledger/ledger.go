// Package ledger parses ledger command flags and starts the server runtime.
package ledger

import (
	"context"
	"flag"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	entrypoint "github.com/mythosforge/realmledger/internal/platform/cmd"
	server "github.com/mythosforge/realmledger/internal/services/ledger/app"
)

// Config holds ledger command configuration.
type Config struct {
	Port            int    `env:"MYTHOS_HTTP_PORT" envDefault:"8090"`
	Addr            string `env:"MYTHOS_HTTP_ADDR"`
	DBPath          string `env:"MYTHOS_DB_PATH"`
	ChainID         uint64 `env:"MYTHOS_CHAIN_ID" envDefault:"1"`
	LedgerAddress   string `env:"MYTHOS_LEDGER_ADDRESS"`
	AdminAddress    string `env:"MYTHOS_ADMIN_ADDRESS"`
	AttestorAddress string `env:"MYTHOS_ATTESTOR_ADDRESS"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The ledger server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The ledger server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the sqlite database file")
	fs.Uint64Var(&cfg.ChainID, "chain-id", cfg.ChainID, "Chain ID bound into voucher digests")
	fs.StringVar(&cfg.LedgerAddress, "ledger-address", cfg.LedgerAddress, "Deployment address bound into voucher digests")
	fs.StringVar(&cfg.AdminAddress, "admin", cfg.AdminAddress, "Realm admin address")
	fs.StringVar(&cfg.AttestorAddress, "attestor", cfg.AttestorAddress, "Initial voucher attestor address")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the ledger JSON-RPC service.
func Run(ctx context.Context, cfg Config) error {
	serverCfg, err := buildServerConfig(cfg)
	if err != nil {
		return err
	}
	return server.Run(ctx, serverCfg)
}

func buildServerConfig(cfg Config) (server.Config, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Port)
	}

	out := server.Config{
		Addr:    addr,
		DBPath:  cfg.DBPath,
		ChainID: cfg.ChainID,
	}
	var err error
	if out.LedgerAddress, err = parseOptionalAddress("ledger address", cfg.LedgerAddress); err != nil {
		return server.Config{}, err
	}
	if out.AdminAddress, err = parseOptionalAddress("admin address", cfg.AdminAddress); err != nil {
		return server.Config{}, err
	}
	if out.AttestorAddress, err = parseOptionalAddress("attestor address", cfg.AttestorAddress); err != nil {
		return server.Config{}, err
	}
	return out, nil
}

func parseOptionalAddress(name, value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s %q is not a valid hex address", name, value)
	}
	return common.HexToAddress(value), nil
}
