package rpc

import (
	"net/http"

	"github.com/mythosforge/realmledger/internal/services/ledger/service"
)

// QuestAPI serves the quest reward methods.
type QuestAPI struct {
	quests *service.QuestService
}

// ClaimRewardArgs are the arguments for quest.ClaimReward. Amount is a
// decimal string; Signature is the attestor's 65-byte recoverable signature
// as 0x-prefixed hex.
type ClaimRewardArgs struct {
	Player    string `json:"player"`
	QuestID   uint64 `json:"questId"`
	Amount    string `json:"amount"`
	Signature string `json:"signature"`
}

// ClaimReward consumes a signed voucher and mints the reward to the player.
func (api *QuestAPI) ClaimReward(r *http.Request, args *ClaimRewardArgs, _ *EmptyReply) error {
	player, err := parseAddress("player", args.Player)
	if err != nil {
		return toRPCError(err)
	}
	amount, err := parseAmount("amount", args.Amount)
	if err != nil {
		return toRPCError(err)
	}
	signature, err := parseSignature(args.Signature)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.quests.ClaimReward(r.Context(), player, args.QuestID, amount, signature))
}

// SetAttestorArgs are the arguments for quest.SetAttestor.
type SetAttestorArgs struct {
	Caller   string `json:"caller"`
	Attestor string `json:"attestor"`
}

// SetAttestor rotates the attestor key.
func (api *QuestAPI) SetAttestor(r *http.Request, args *SetAttestorArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	attestor, err := parseAddress("attestor", args.Attestor)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.quests.SetAttestor(r.Context(), caller, attestor))
}

// GetAttestorReply is the reply for quest.GetAttestor.
type GetAttestorReply struct {
	Attestor string `json:"attestor"`
}

// GetAttestor returns the configured attestor address.
func (api *QuestAPI) GetAttestor(r *http.Request, _ *EmptyReply, reply *GetAttestorReply) error {
	attestor, err := api.quests.GetAttestor(r.Context())
	if err != nil {
		return toRPCError(err)
	}
	reply.Attestor = addressString(attestor)
	return nil
}
