package ledger

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8090 {
		t.Fatalf("expected default port 8090, got %d", cfg.Port)
	}
	if cfg.Addr != "" {
		t.Fatalf("expected empty addr, got %q", cfg.Addr)
	}
	if cfg.ChainID != 1 {
		t.Fatalf("expected default chain ID 1, got %d", cfg.ChainID)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-port", "9001",
		"-addr", "127.0.0.1:9999",
		"-chain-id", "7",
		"-admin", "0x1000000000000000000000000000000000000001",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.Port)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected addr override, got %q", cfg.Addr)
	}
	if cfg.ChainID != 7 {
		t.Fatalf("expected chain ID 7, got %d", cfg.ChainID)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("MYTHOS_HTTP_PORT", "9002")
	t.Setenv("MYTHOS_DB_PATH", "/tmp/ledger.db")

	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9002 {
		t.Fatalf("expected env port 9002, got %d", cfg.Port)
	}
	if cfg.DBPath != "/tmp/ledger.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}
}

func TestBuildServerConfig(t *testing.T) {
	cfg := Config{
		Port:         9001,
		ChainID:      7,
		AdminAddress: "0x1000000000000000000000000000000000000001",
	}
	serverCfg, err := buildServerConfig(cfg)
	if err != nil {
		t.Fatalf("build server config: %v", err)
	}
	if serverCfg.Addr != ":9001" {
		t.Fatalf("expected addr :9001, got %q", serverCfg.Addr)
	}
	if serverCfg.AdminAddress.Hex() != "0x1000000000000000000000000000000000000001" {
		t.Fatalf("unexpected admin address %s", serverCfg.AdminAddress.Hex())
	}

	cfg.Addr = "127.0.0.1:0"
	serverCfg, err = buildServerConfig(cfg)
	if err != nil {
		t.Fatalf("build server config: %v", err)
	}
	if serverCfg.Addr != "127.0.0.1:0" {
		t.Fatalf("expected explicit addr to win, got %q", serverCfg.Addr)
	}

	cfg.AdminAddress = "not-an-address"
	if _, err := buildServerConfig(cfg); err == nil {
		t.Fatal("expected error for malformed admin address")
	}
}
