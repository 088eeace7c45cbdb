package rpc

import (
	"net/http"
	"time"

	"github.com/mythosforge/realmledger/internal/services/ledger/service"
)

// RealmAPI serves realm lifecycle, role administration, and journal reads.
type RealmAPI struct {
	realm *service.RealmService
}

// InitializeArgs are the arguments for realm.Initialize.
type InitializeArgs struct {
	Caller string `json:"caller"`
	Name   string `json:"name"`
}

// Initialize performs the one-time realm initialization.
func (api *RealmAPI) Initialize(r *http.Request, args *InitializeArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.realm.Initialize(r.Context(), caller, args.Name))
}

// GetRealmReply is the reply for realm.Get.
type GetRealmReply struct {
	Name          string `json:"name"`
	InitializedAt string `json:"initializedAt"`
}

// Get returns the realm record.
func (api *RealmAPI) Get(r *http.Request, _ *EmptyReply, reply *GetRealmReply) error {
	realm, err := api.realm.Get(r.Context())
	if err != nil {
		return toRPCError(err)
	}
	reply.Name = realm.Name
	reply.InitializedAt = realm.InitializedAt.Format(time.RFC3339)
	return nil
}

// RoleArgs are the arguments for realm.GrantRole and realm.RevokeRole.
type RoleArgs struct {
	Caller  string `json:"caller"`
	Address string `json:"address"`
	Role    string `json:"role"`
}

// GrantRole grants a capability role to an address.
func (api *RealmAPI) GrantRole(r *http.Request, args *RoleArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	target, err := parseAddress("address", args.Address)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.realm.GrantRole(r.Context(), caller, target, args.Role))
}

// RevokeRole removes a capability role from an address.
func (api *RealmAPI) RevokeRole(r *http.Request, args *RoleArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	target, err := parseAddress("address", args.Address)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.realm.RevokeRole(r.Context(), caller, target, args.Role))
}

// RoleGrantDTO is the wire shape of one role grant.
type RoleGrantDTO struct {
	Address   string `json:"address"`
	Role      string `json:"role"`
	GrantedAt string `json:"grantedAt"`
}

// ListRolesReply is the reply for realm.ListRoles.
type ListRolesReply struct {
	Grants []RoleGrantDTO `json:"grants"`
}

// ListRoles returns all role grants ordered by grant time.
func (api *RealmAPI) ListRoles(r *http.Request, _ *EmptyReply, reply *ListRolesReply) error {
	grants, err := api.realm.ListRoleGrants(r.Context())
	if err != nil {
		return toRPCError(err)
	}
	reply.Grants = make([]RoleGrantDTO, 0, len(grants))
	for _, grant := range grants {
		reply.Grants = append(reply.Grants, RoleGrantDTO{
			Address:   addressString(grant.Address),
			Role:      grant.Role,
			GrantedAt: grant.GrantedAt.Format(time.RFC3339),
		})
	}
	return nil
}

// ListEventsArgs are the arguments for realm.ListEvents.
type ListEventsArgs struct {
	AfterSeq uint64 `json:"afterSeq"`
	Limit    int    `json:"limit"`
}

// ListEventsReply is the reply for realm.ListEvents.
type ListEventsReply struct {
	Events []EventDTO `json:"events"`
}

// ListEvents returns journal entries after a sequence number, for pollers.
func (api *RealmAPI) ListEvents(r *http.Request, args *ListEventsArgs, reply *ListEventsReply) error {
	events, err := api.realm.ListEvents(r.Context(), args.AfterSeq, args.Limit)
	if err != nil {
		return toRPCError(err)
	}
	reply.Events = make([]EventDTO, 0, len(events))
	for _, evt := range events {
		reply.Events = append(reply.Events, toEventDTO(evt))
	}
	return nil
}
