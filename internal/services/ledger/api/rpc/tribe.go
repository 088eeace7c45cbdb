package rpc

import (
	"net/http"

	"github.com/mythosforge/realmledger/internal/services/ledger/domain/tribe"
	"github.com/mythosforge/realmledger/internal/services/ledger/service"
)

// TribeAPI serves the tribe manager methods.
type TribeAPI struct {
	tribes *service.TribeService
}

// CreateTribeArgs are the arguments for tribe.Create.
type CreateTribeArgs struct {
	Caller           string `json:"caller"`
	Name             string `json:"name"`
	Leader           string `json:"leader"`
	RequiresApproval bool   `json:"requiresApproval"`
	QuorumThreshold  uint32 `json:"quorumThreshold"`
}

// CreateTribeReply is the reply for tribe.Create.
type CreateTribeReply struct {
	ID uint64 `json:"id"`
}

// Create founds a new tribe.
func (api *TribeAPI) Create(r *http.Request, args *CreateTribeArgs, reply *CreateTribeReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	leader, err := parseAddress("leader", args.Leader)
	if err != nil {
		return toRPCError(err)
	}

	id, err := api.tribes.Create(r.Context(), caller, tribe.CreateTribeInput{
		Name:             args.Name,
		Leader:           leader,
		RequiresApproval: args.RequiresApproval,
		QuorumThreshold:  args.QuorumThreshold,
	})
	if err != nil {
		return toRPCError(err)
	}
	reply.ID = id
	return nil
}

// SetLeaderArgs are the arguments for tribe.SetLeader.
type SetLeaderArgs struct {
	Caller  string `json:"caller"`
	TribeID uint64 `json:"tribeId"`
	Leader  string `json:"leader"`
}

// SetLeader reassigns the tribe leader.
func (api *TribeAPI) SetLeader(r *http.Request, args *SetLeaderArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	leader, err := parseAddress("leader", args.Leader)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.tribes.SetLeader(r.Context(), caller, args.TribeID, leader))
}

// RequestToJoinArgs are the arguments for tribe.RequestToJoin.
type RequestToJoinArgs struct {
	Caller        string `json:"caller"`
	TribeID       uint64 `json:"tribeId"`
	InitiationURI string `json:"initiationUri"`
}

// RequestToJoinReply is the reply for tribe.RequestToJoin.
type RequestToJoinReply struct {
	RequestID uint64 `json:"requestId"`
}

// RequestToJoin files the caller's one join request.
func (api *TribeAPI) RequestToJoin(r *http.Request, args *RequestToJoinArgs, reply *RequestToJoinReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	id, err := api.tribes.RequestToJoin(r.Context(), caller, args.TribeID, args.InitiationURI)
	if err != nil {
		return toRPCError(err)
	}
	reply.RequestID = id
	return nil
}

// DecideArgs are the arguments for tribe.Approve and tribe.Reject.
type DecideArgs struct {
	Caller    string `json:"caller"`
	RequestID uint64 `json:"requestId"`
}

// Approve resolves a pending request in favor of the applicant.
func (api *TribeAPI) Approve(r *http.Request, args *DecideArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.tribes.Approve(r.Context(), caller, args.RequestID))
}

// Reject resolves a pending request against the applicant.
func (api *TribeAPI) Reject(r *http.Request, args *DecideArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.tribes.Reject(r.Context(), caller, args.RequestID))
}

// VoteArgs are the arguments for tribe.Vote.
type VoteArgs struct {
	Caller    string `json:"caller"`
	RequestID uint64 `json:"requestId"`
	Approve   bool   `json:"approve"`
}

// Vote casts one member vote in quorum mode.
func (api *TribeAPI) Vote(r *http.Request, args *VoteArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.tribes.Vote(r.Context(), caller, args.RequestID, args.Approve))
}

// MintMemberArtifactArgs are the arguments for tribe.MintMemberArtifact.
type MintMemberArtifactArgs struct {
	Caller  string `json:"caller"`
	TribeID uint64 `json:"tribeId"`
	URI     string `json:"uri"`
}

// MintMemberArtifactReply is the reply for tribe.MintMemberArtifact.
type MintMemberArtifactReply struct {
	ArtifactID uint64 `json:"artifactId"`
}

// MintMemberArtifact mints an additional artifact for a tribe member.
func (api *TribeAPI) MintMemberArtifact(r *http.Request, args *MintMemberArtifactArgs, reply *MintMemberArtifactReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	id, err := api.tribes.MintMemberArtifact(r.Context(), caller, args.TribeID, args.URI)
	if err != nil {
		return toRPCError(err)
	}
	reply.ArtifactID = id
	return nil
}

// GetTribeArgs are the arguments for tribe.Get.
type GetTribeArgs struct {
	ID uint64 `json:"id"`
}

// GetTribeReply is the reply for tribe.Get.
type GetTribeReply struct {
	Tribe TribeDTO `json:"tribe"`
}

// Get returns a tribe by ID.
func (api *TribeAPI) Get(r *http.Request, args *GetTribeArgs, reply *GetTribeReply) error {
	t, err := api.tribes.Get(r.Context(), args.ID)
	if err != nil {
		return toRPCError(err)
	}
	reply.Tribe = toTribeDTO(t)
	return nil
}

// GetJoinRequestArgs are the arguments for tribe.GetJoinRequest.
type GetJoinRequestArgs struct {
	ID uint64 `json:"id"`
}

// GetJoinRequestReply is the reply for tribe.GetJoinRequest.
type GetJoinRequestReply struct {
	Request JoinRequestDTO `json:"request"`
}

// GetJoinRequest returns a join request with its recorded voters.
func (api *TribeAPI) GetJoinRequest(r *http.Request, args *GetJoinRequestArgs, reply *GetJoinRequestReply) error {
	request, err := api.tribes.GetJoinRequest(r.Context(), args.ID)
	if err != nil {
		return toRPCError(err)
	}
	reply.Request = toJoinRequestDTO(request)
	return nil
}

// IsMemberArgs are the arguments for tribe.IsMember.
type IsMemberArgs struct {
	TribeID uint64 `json:"tribeId"`
	Address string `json:"address"`
}

// MembershipReply is the reply for tribe.IsMember and tribe.IsApprovedInAnyTribe.
type MembershipReply struct {
	Member bool `json:"member"`
}

// IsMember reports tribe membership.
func (api *TribeAPI) IsMember(r *http.Request, args *IsMemberArgs, reply *MembershipReply) error {
	addr, err := parseAddress("address", args.Address)
	if err != nil {
		return toRPCError(err)
	}
	member, err := api.tribes.IsMember(r.Context(), args.TribeID, addr)
	if err != nil {
		return toRPCError(err)
	}
	reply.Member = member
	return nil
}

// IsApprovedArgs are the arguments for tribe.IsApprovedInAnyTribe.
type IsApprovedArgs struct {
	Address string `json:"address"`
}

// IsApprovedInAnyTribe reports whether an address was approved in any tribe.
func (api *TribeAPI) IsApprovedInAnyTribe(r *http.Request, args *IsApprovedArgs, reply *MembershipReply) error {
	addr, err := parseAddress("address", args.Address)
	if err != nil {
		return toRPCError(err)
	}
	member, err := api.tribes.IsApprovedInAnyTribe(r.Context(), addr)
	if err != nil {
		return toRPCError(err)
	}
	reply.Member = member
	return nil
}
