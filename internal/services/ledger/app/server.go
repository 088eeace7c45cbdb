// Package server wires the ledger runtime: store, chain ledgers, module
// services, JSON-RPC surface, and the HTTP lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mythosforge/realmledger/internal/services/ledger/api/rpc"
	"github.com/mythosforge/realmledger/internal/services/ledger/chain/memchain"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/quest"
	"github.com/mythosforge/realmledger/internal/services/ledger/service"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
	storagesqlite "github.com/mythosforge/realmledger/internal/services/ledger/storage/sqlite"
)

// Config carries the resolved runtime settings for the ledger server.
type Config struct {
	Addr   string
	DBPath string
	// ChainID and LedgerAddress scope every voucher digest to this deployment.
	ChainID       uint64
	LedgerAddress common.Address
	// AdminAddress implicitly holds the admin role.
	AdminAddress common.Address
	// AttestorAddress seeds the voucher attestor when none is stored yet.
	AttestorAddress common.Address
}

func (cfg Config) withDefaults() Config {
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "ledger.db")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = ":8090"
	}
	return cfg
}

// Server hosts the ledger JSON-RPC API and storage lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *storagesqlite.Store
}

// New creates a configured ledger server listening on cfg.Addr.
func New(cfg Config) (*Server, error) {
	cfg = cfg.withDefaults()

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	handler, err := buildHandler(cfg, store)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store: store,
	}, nil
}

// buildHandler assembles services over the store and mounts the RPC surface.
func buildHandler(cfg Config, store *storagesqlite.Store) (http.Handler, error) {
	artifacts := memchain.NewArtifactLedger()
	tokens := memchain.NewTokenLedger()

	auth := service.NewAuthorizer(cfg.AdminAddress, store)
	services := rpc.Services{
		Realm:    service.NewRealmService(store, auth),
		Location: service.NewLocationService(store, store, auth),
		Totem:    service.NewTotemService(store, artifacts, tokens, auth),
		Tribe:    service.NewTribeService(store, artifacts, auth),
		Quest: service.NewQuestService(store, tokens, quest.RecoveryVerifier{}, auth,
			cfg.LedgerAddress, cfg.ChainID),
	}

	if err := seedAttestor(store, cfg.AttestorAddress); err != nil {
		return nil, err
	}
	return rpc.NewHandler(services)
}

// seedAttestor stores the configured attestor when none is set yet, so a
// fresh deployment can verify vouchers before the first rotation.
func seedAttestor(store storage.QuestStore, attestor common.Address) error {
	if attestor == (common.Address{}) {
		return nil
	}
	ctx := context.Background()
	_, err := store.Attestor(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	evt := service.AttestorSeedEvent(attestor)
	if err := store.SetAttestor(ctx, attestor, evt); err != nil {
		return fmt.Errorf("seed attestor: %w", err)
	}
	log.Printf("seeded attestor %s", strings.ToLower(attestor.Hex()))
	return nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a ledger server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the HTTP server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("ledger server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases the server resources.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
