package main

import (
	"flag"
	"os"

	"github.com/mythosforge/realmledger/internal/platform/config"
	"github.com/mythosforge/realmledger/internal/tools/attestor"
)

func main() {
	cfg, err := attestor.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := attestor.Run(cfg, os.Stdout); err != nil {
		config.Exitf("attestor: %v", err)
	}
}
