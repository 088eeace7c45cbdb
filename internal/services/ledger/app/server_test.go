package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/rpc/v2/json2"

	rpcapi "github.com/mythosforge/realmledger/internal/services/ledger/api/rpc"
)

var adminAddr = common.HexToAddress("0x1000000000000000000000000000000000000001")

func startTestServer(t *testing.T) string {
	t.Helper()
	srv, err := New(Config{
		Addr:         "127.0.0.1:0",
		DBPath:       filepath.Join(t.TempDir(), "ledger.db"),
		ChainID:      1,
		AdminAddress: adminAddr,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})
	return "http://" + srv.Addr()
}

// call performs one JSON-RPC method call against the running server.
func call(t *testing.T, baseURL, method string, args, reply any) error {
	t.Helper()
	body, err := json2.EncodeClientRequest(method, args)
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	resp, err := http.Post(baseURL+"/rpc", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", method, err)
	}
	defer resp.Body.Close()
	return json2.DecodeClientResponse(resp.Body, reply)
}

func TestServer_RealmAndLocationRoundTrip(t *testing.T) {
	baseURL := startTestServer(t)

	resp, err := http.Get(baseURL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	caller := adminAddr.Hex()
	var empty rpcapi.EmptyReply
	if err := call(t, baseURL, "realm.Initialize", &rpcapi.InitializeArgs{Caller: caller, Name: "Mythos"}, &empty); err != nil {
		t.Fatalf("realm.Initialize: %v", err)
	}

	var realm rpcapi.GetRealmReply
	if err := call(t, baseURL, "realm.Get", &rpcapi.EmptyReply{}, &realm); err != nil {
		t.Fatalf("realm.Get: %v", err)
	}
	if realm.Name != "Mythos" {
		t.Fatalf("realm name = %q, want Mythos", realm.Name)
	}

	var created rpcapi.CreateLocationReply
	err = call(t, baseURL, "location.Create", &rpcapi.CreateLocationArgs{
		Caller:      caller,
		Slug:        "Ember-Hollow",
		DisplayName: "Ember Hollow",
		Biome:       "FOREST",
		Difficulty:  "NOVICE",
	}, &created)
	if err != nil {
		t.Fatalf("location.Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned location ID")
	}

	var fetched rpcapi.GetLocationReply
	if err := call(t, baseURL, "location.GetBySlug", &rpcapi.GetBySlugArgs{Slug: "ember-hollow"}, &fetched); err != nil {
		t.Fatalf("location.GetBySlug: %v", err)
	}
	if fetched.Location.ID != created.ID {
		t.Fatalf("location ID = %d, want %d", fetched.Location.ID, created.ID)
	}
	if fetched.Location.Biome != "FOREST" {
		t.Fatalf("biome = %q, want FOREST", fetched.Location.Biome)
	}
}

func TestServer_ErrorsCarryMachineCodes(t *testing.T) {
	baseURL := startTestServer(t)

	caller := adminAddr.Hex()
	var empty rpcapi.EmptyReply
	if err := call(t, baseURL, "realm.Initialize", &rpcapi.InitializeArgs{Caller: caller, Name: "Mythos"}, &empty); err != nil {
		t.Fatalf("realm.Initialize: %v", err)
	}

	createArgs := &rpcapi.CreateLocationArgs{
		Caller:      caller,
		Slug:        "ember-hollow",
		DisplayName: "Ember Hollow",
		Biome:       "FOREST",
		Difficulty:  "NOVICE",
	}
	var created rpcapi.CreateLocationReply
	if err := call(t, baseURL, "location.Create", createArgs, &created); err != nil {
		t.Fatalf("location.Create: %v", err)
	}

	err := call(t, baseURL, "location.Create", createArgs, &created)
	var rpcErr *json2.Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *json2.Error, got %T (%v)", err, err)
	}
	if rpcErr.Code != -32002 {
		t.Fatalf("error code = %d, want -32002", rpcErr.Code)
	}
	if fmt.Sprint(rpcErr.Data) != "map[code:LOCATION_SLUG_TAKEN]" {
		t.Fatalf("unexpected error data: %v", rpcErr.Data)
	}
}
