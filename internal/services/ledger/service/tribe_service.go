package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
	"github.com/mythosforge/realmledger/internal/services/ledger/chain"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/authz"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/tribe"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
)

// TribeStorage is the persistence surface the tribe module needs: its own
// records plus the journal, for mints whose only ledger-side state is the event.
type TribeStorage interface {
	storage.TribeStore
	storage.EventStore
}

// TribeService manages tribes, the one-shot initiation rule, and the
// join-request state machine in both decision modes.
type TribeService struct {
	mu        sync.Mutex
	store     TribeStorage
	artifacts chain.ArtifactLedger
	auth      *Authorizer
	clock     func() time.Time
}

// NewTribeService creates a TribeService with default dependencies.
func NewTribeService(store TribeStorage, artifacts chain.ArtifactLedger, auth *Authorizer) *TribeService {
	return &TribeService{
		store:     store,
		artifacts: artifacts,
		auth:      auth,
		clock:     time.Now,
	}
}

// Create founds a new tribe. Administrative capability only.
func (s *TribeService) Create(ctx context.Context, caller common.Address, input tribe.CreateTribeInput) (uint64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}
	if err := s.auth.Require(ctx, caller, authz.CapabilityManageTribes); err != nil {
		return 0, err
	}

	t, err := tribe.CreateTribe(input, s.clock)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.CreateTribe(ctx, t, func(id uint64) event.Event {
		return newEvent(event.TypeTribeCreated, t.CreatedAt, event.TribeCreatedPayload{
			TribeID:         id,
			Name:            t.Name,
			Leader:          strings.ToLower(t.Leader.Hex()),
			QuorumThreshold: t.QuorumThreshold,
		})
	})
}

// SetLeader reassigns the tribe leader. Administrative capability only, and
// the tribe must be active.
func (s *TribeService) SetLeader(ctx context.Context, caller common.Address, tribeID uint64, leader common.Address) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := s.auth.Require(ctx, caller, authz.CapabilityManageTribes); err != nil {
		return err
	}
	if leader == (common.Address{}) {
		return apperrors.New(apperrors.CodeAddressInvalid, "tribe leader address is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.GetTribe(ctx, tribeID)
	if err != nil {
		return mapStoreErr(err, nil)
	}
	if !t.Active {
		return tribe.ErrInactive
	}

	t.Leader = leader
	t.UpdatedAt = s.clock().UTC()
	evt := newEvent(event.TypeTribeLeaderChanged, t.UpdatedAt, event.TribeLeaderChangedPayload{
		TribeID: tribeID,
		Leader:  strings.ToLower(leader.Hex()),
	})
	return mapStoreErr(s.store.SaveTribe(ctx, t, evt), nil)
}

// RequestToJoin files the caller's one join request, minting the initiation
// artifact. The initiation is consumed unconditionally: even a later rejection
// never gives it back. Tribes that skip approval resolve the request in the
// same call.
func (s *TribeService) RequestToJoin(ctx context.Context, caller common.Address, tribeID uint64, initiationURI string) (uint64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.GetTribe(ctx, tribeID)
	if err != nil {
		return 0, mapStoreErr(err, nil)
	}
	if !t.Active {
		return 0, tribe.ErrInactive
	}

	initiated, err := s.store.HasInitiated(ctx, caller)
	if err != nil {
		return 0, err
	}
	if initiated {
		return 0, tribe.ErrAlreadyInitiated
	}

	artifactID, err := s.artifacts.Mint(ctx, caller, initiationURI)
	if err != nil {
		return 0, err
	}

	r := tribe.NewJoinRequest(tribeID, caller, artifactID, s.clock)
	id, err := s.store.CreateJoinRequest(ctx, r, func(id uint64) event.Event {
		return newEvent(event.TypeTribeJoinRequested, r.CreatedAt, event.TribeJoinRequestedPayload{
			RequestID:  id,
			TribeID:    tribeID,
			Applicant:  strings.ToLower(caller.Hex()),
			ArtifactID: artifactID,
		})
	})
	if err != nil {
		return 0, mapStoreErr(err, tribe.ErrAlreadyInitiated)
	}
	r.ID = id

	// Open-membership tribes resolve immediately; failures here leave the
	// request pending for a manual decision.
	if !t.RequiresApproval && t.QuorumThreshold == 0 {
		decided, err := tribe.Decide(t, r, true, s.clock)
		if err != nil {
			return id, nil
		}
		if err := s.saveDecision(ctx, decided); err != nil {
			return id, err
		}
	}
	return id, nil
}

// Approve resolves a pending request in favor of the applicant. Leader or
// administrative capability; single-decision mode only.
func (s *TribeService) Approve(ctx context.Context, caller common.Address, requestID uint64) error {
	return s.decide(ctx, caller, requestID, true)
}

// Reject resolves a pending request against the applicant. The applicant's
// initiation stays consumed. Leader or administrative capability;
// single-decision mode only.
func (s *TribeService) Reject(ctx context.Context, caller common.Address, requestID uint64) error {
	return s.decide(ctx, caller, requestID, false)
}

func (s *TribeService) decide(ctx context.Context, caller common.Address, requestID uint64, approve bool) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.store.GetJoinRequest(ctx, requestID)
	if err != nil {
		return mapStoreErr(err, nil)
	}
	t, err := s.store.GetTribe(ctx, r.TribeID)
	if err != nil {
		return mapStoreErr(err, nil)
	}
	if caller != t.Leader {
		if err := s.auth.Require(ctx, caller, authz.CapabilityDecideJoinRequests); err != nil {
			return apperrors.New(apperrors.CodeTribeNotRequestDecider, "only the tribe leader or an administrator can decide join requests")
		}
	}

	decided, err := tribe.Decide(t, r, approve, s.clock)
	if err != nil {
		return err
	}
	return s.saveDecision(ctx, decided)
}

// Vote casts one member vote in quorum mode. The request resolves inside the
// vote call that crosses the threshold.
func (s *TribeService) Vote(ctx context.Context, caller common.Address, requestID uint64, approve bool) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.store.GetJoinRequest(ctx, requestID)
	if err != nil {
		return mapStoreErr(err, nil)
	}
	t, err := s.store.GetTribe(ctx, r.TribeID)
	if err != nil {
		return mapStoreErr(err, nil)
	}

	member, err := s.store.IsMember(ctx, r.TribeID, caller)
	if err != nil {
		return err
	}
	if !member {
		return tribe.ErrNotMember
	}

	voted, err := tribe.CastVote(t, r, caller, approve, s.clock)
	if err != nil {
		return err
	}

	vote := &storage.VoteRecord{Voter: caller, Approve: approve, At: s.clock().UTC()}
	if voted.Processed {
		return s.saveResolution(ctx, voted, vote)
	}

	evt := newEvent(event.TypeTribeVoteCast, vote.At, event.TribeVoteCastPayload{
		RequestID:      voted.ID,
		TribeID:        voted.TribeID,
		Voter:          strings.ToLower(caller.Hex()),
		Approve:        approve,
		ApprovalCount:  voted.ApprovalCount,
		RejectionCount: voted.RejectionCount,
	})
	return mapStoreErr(s.store.SaveJoinRequest(ctx, voted, vote, false, evt), tribe.ErrAlreadyVoted)
}

// MintMemberArtifact mints an additional artifact for a tribe member,
// unrelated to initiation.
func (s *TribeService) MintMemberArtifact(ctx context.Context, caller common.Address, tribeID uint64, uri string) (uint64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetTribe(ctx, tribeID); err != nil {
		return 0, mapStoreErr(err, nil)
	}
	member, err := s.store.IsMember(ctx, tribeID, caller)
	if err != nil {
		return 0, err
	}
	if !member {
		return 0, tribe.ErrNotMember
	}

	artifactID, err := s.artifacts.Mint(ctx, caller, uri)
	if err != nil {
		return 0, err
	}

	evt := newEvent(event.TypeTribeMemberArtifactMinted, s.clock().UTC(), event.TribeMemberArtifactMintedPayload{
		TribeID:    tribeID,
		Member:     strings.ToLower(caller.Hex()),
		ArtifactID: artifactID,
	})
	return artifactID, s.store.AppendEvent(ctx, evt)
}

// Get returns a tribe by ID.
func (s *TribeService) Get(ctx context.Context, id uint64) (tribe.Tribe, error) {
	t, err := s.store.GetTribe(ctx, id)
	if err != nil {
		return tribe.Tribe{}, mapStoreErr(err, nil)
	}
	return t, nil
}

// GetJoinRequest returns a join request with its recorded voters.
func (s *TribeService) GetJoinRequest(ctx context.Context, id uint64) (tribe.JoinRequest, error) {
	r, err := s.store.GetJoinRequest(ctx, id)
	if err != nil {
		return tribe.JoinRequest{}, mapStoreErr(err, nil)
	}
	return r, nil
}

// IsMember reports tribe membership.
func (s *TribeService) IsMember(ctx context.Context, tribeID uint64, addr common.Address) (bool, error) {
	return s.store.IsMember(ctx, tribeID, addr)
}

// IsApprovedInAnyTribe reports whether an address was approved in any tribe.
func (s *TribeService) IsApprovedInAnyTribe(ctx context.Context, addr common.Address) (bool, error) {
	return s.store.IsMemberAnywhere(ctx, addr)
}

// saveDecision persists a single-decision resolution.
func (s *TribeService) saveDecision(ctx context.Context, r tribe.JoinRequest) error {
	return s.saveResolution(ctx, r, nil)
}

// saveResolution persists a processed request, granting membership on
// approval and recording the resolving vote when one was cast.
func (s *TribeService) saveResolution(ctx context.Context, r tribe.JoinRequest, vote *storage.VoteRecord) error {
	at := r.CreatedAt
	if r.ProcessedAt != nil {
		at = *r.ProcessedAt
	}
	evtType := event.TypeTribeJoinRejected
	if r.Approved {
		evtType = event.TypeTribeJoinApproved
	}
	evt := newEvent(evtType, at, event.TribeJoinDecidedPayload{
		RequestID:      r.ID,
		TribeID:        r.TribeID,
		Applicant:      strings.ToLower(r.Applicant.Hex()),
		ApprovalCount:  r.ApprovalCount,
		RejectionCount: r.RejectionCount,
	})
	return mapStoreErr(s.store.SaveJoinRequest(ctx, r, vote, r.Approved, evt), tribe.ErrAlreadyVoted)
}
