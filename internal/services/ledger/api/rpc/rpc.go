// Package rpc exposes the ledger modules over JSON-RPC 2.0. One RPC service
// per module is mounted at /rpc, so wire methods read as "location.Create",
// "totem.PowerUp", "quest.ClaimReward".
package rpc

import (
	"net/http"

	"github.com/gorilla/mux"
	gorillarpc "github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"

	"github.com/mythosforge/realmledger/internal/services/ledger/service"
)

// Services bundles the module services the API fronts.
type Services struct {
	Realm    *service.RealmService
	Location *service.LocationService
	Totem    *service.TotemService
	Tribe    *service.TribeService
	Quest    *service.QuestService
}

// NewHandler builds the HTTP handler: the JSON-RPC server at /rpc plus a
// readiness probe at /healthz.
func NewHandler(services Services) (http.Handler, error) {
	server := gorillarpc.NewServer()
	codec := json2.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")

	registrations := []struct {
		name    string
		service any
	}{
		{name: "realm", service: &RealmAPI{realm: services.Realm}},
		{name: "location", service: &LocationAPI{locations: services.Location}},
		{name: "totem", service: &TotemAPI{totems: services.Totem}},
		{name: "tribe", service: &TribeAPI{tribes: services.Tribe}},
		{name: "quest", service: &QuestAPI{quests: services.Quest}},
	}
	for _, reg := range registrations {
		if err := server.RegisterService(reg.service, reg.name); err != nil {
			return nil, err
		}
	}

	router := mux.NewRouter()
	router.Handle("/rpc", server).Methods(http.MethodPost)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	return router, nil
}
