package rpc

import (
	"net/http"

	"github.com/mythosforge/realmledger/internal/services/ledger/service"
)

// TotemAPI serves the totem manager methods.
type TotemAPI struct {
	totems *service.TotemService
}

// CreateTotemArgs are the arguments for totem.Create.
type CreateTotemArgs struct {
	Caller      string   `json:"caller"`
	ArtifactIDs []uint64 `json:"artifactIds"`
}

// CreateTotemReply is the reply for totem.Create.
type CreateTotemReply struct {
	ID uint64 `json:"id"`
}

// Create builds a totem from the caller's artifacts.
func (api *TotemAPI) Create(r *http.Request, args *CreateTotemArgs, reply *CreateTotemReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	id, err := api.totems.Create(r.Context(), caller, args.ArtifactIDs)
	if err != nil {
		return toRPCError(err)
	}
	reply.ID = id
	return nil
}

// AddArtifactArgs are the arguments for totem.AddArtifact.
type AddArtifactArgs struct {
	Caller     string `json:"caller"`
	TotemID    uint64 `json:"totemId"`
	ArtifactID uint64 `json:"artifactId"`
}

// AddArtifact binds one more artifact to an existing totem.
func (api *TotemAPI) AddArtifact(r *http.Request, args *AddArtifactArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.totems.AddArtifact(r.Context(), caller, args.TotemID, args.ArtifactID))
}

// PowerUpArgs are the arguments for totem.PowerUp. Amount is a decimal string.
type PowerUpArgs struct {
	Caller  string `json:"caller"`
	TotemID uint64 `json:"totemId"`
	Amount  string `json:"amount"`
}

// PowerUp burns tokens from the caller and grows the totem's power.
func (api *TotemAPI) PowerUp(r *http.Request, args *PowerUpArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	amount, err := parseAmount("amount", args.Amount)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.totems.PowerUp(r.Context(), caller, args.TotemID, amount))
}

// AdminSetPowerArgs are the arguments for totem.AdminSetPower.
type AdminSetPowerArgs struct {
	Caller  string `json:"caller"`
	TotemID uint64 `json:"totemId"`
	Power   string `json:"power"`
}

// AdminSetPower unconditionally replaces a totem's power score.
func (api *TotemAPI) AdminSetPower(r *http.Request, args *AdminSetPowerArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	power, err := parseAmount("power", args.Power)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.totems.AdminSetPower(r.Context(), caller, args.TotemID, power))
}

// GetTotemArgs are the arguments for totem.Get.
type GetTotemArgs struct {
	ID uint64 `json:"id"`
}

// GetTotemReply is the reply for totem.Get.
type GetTotemReply struct {
	Totem TotemDTO `json:"totem"`
}

// Get returns a totem with its bound artifact IDs.
func (api *TotemAPI) Get(r *http.Request, args *GetTotemArgs, reply *GetTotemReply) error {
	t, err := api.totems.Get(r.Context(), args.ID)
	if err != nil {
		return toRPCError(err)
	}
	reply.Totem = toTotemDTO(t)
	return nil
}

// GetArtifactsReply is the reply for totem.GetArtifacts.
type GetArtifactsReply struct {
	ArtifactIDs []uint64 `json:"artifactIds"`
}

// GetArtifacts returns the artifact IDs bound to a totem, in binding order.
func (api *TotemAPI) GetArtifacts(r *http.Request, args *GetTotemArgs, reply *GetArtifactsReply) error {
	t, err := api.totems.Get(r.Context(), args.ID)
	if err != nil {
		return toRPCError(err)
	}
	reply.ArtifactIDs = t.ArtifactIDs
	return nil
}

// ArtifactTotemArgs are the arguments for totem.ArtifactTotem.
type ArtifactTotemArgs struct {
	ArtifactID uint64 `json:"artifactId"`
}

// ArtifactTotemReply is the reply for totem.ArtifactTotem. TotemID is 0 when
// the artifact is unbound.
type ArtifactTotemReply struct {
	TotemID uint64 `json:"totemId"`
}

// ArtifactTotem returns the totem an artifact is bound to.
func (api *TotemAPI) ArtifactTotem(r *http.Request, args *ArtifactTotemArgs, reply *ArtifactTotemReply) error {
	totemID, err := api.totems.ArtifactTotem(r.Context(), args.ArtifactID)
	if err != nil {
		return toRPCError(err)
	}
	reply.TotemID = totemID
	return nil
}
