// Package tribe models tribe membership and the join-request state machine.
//
// A join request is Pending until it is processed exactly once: either a
// single leader/admin decision when the tribe has no quorum threshold, or the
// member vote that first crosses the threshold when it has one. The two modes
// never mix on the same tribe.
package tribe

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
)

var (
	// ErrNameEmpty indicates a missing tribe name.
	ErrNameEmpty = apperrors.New(apperrors.CodeTribeNameEmpty, "tribe name is required")
	// ErrInactive indicates an operation against a deactivated tribe.
	ErrInactive = apperrors.New(apperrors.CodeTribeInactive, "tribe is not active")
	// ErrAlreadyInitiated indicates the applicant already used their one initiation.
	ErrAlreadyInitiated = apperrors.New(apperrors.CodeTribeAlreadyInitiated, "address has already initiated")
	// ErrNotMember indicates the caller is not a member of the tribe.
	ErrNotMember = apperrors.New(apperrors.CodeTribeNotMember, "caller is not a tribe member")
	// ErrRequestProcessed indicates a decision on an already-processed request.
	ErrRequestProcessed = apperrors.New(apperrors.CodeTribeRequestProcessed, "join request is already processed")
	// ErrAlreadyVoted indicates a second vote from the same member.
	ErrAlreadyVoted = apperrors.New(apperrors.CodeTribeAlreadyVoted, "member has already voted on this request")
	// ErrQuorumRequired indicates a direct decision on a quorum-governed tribe.
	ErrQuorumRequired = apperrors.New(apperrors.CodeTribeQuorumRequired, "tribe resolves join requests by member vote")
	// ErrQuorumDisabled indicates a vote on a single-decision tribe.
	ErrQuorumDisabled = apperrors.New(apperrors.CodeTribeQuorumDisabled, "tribe resolves join requests by leader decision")
)

// Tribe represents a named member group with a join-approval policy.
type Tribe struct {
	ID     uint64
	Name   string
	Leader common.Address
	// RequiresApproval gates whether join requests need an explicit decision.
	RequiresApproval bool
	Active           bool
	// QuorumThreshold is the distinct-vote count that auto-resolves a join
	// request. Zero selects single leader/admin decision.
	QuorumThreshold uint32
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// JoinRequest tracks one applicant's initiation into a tribe.
type JoinRequest struct {
	ID        uint64
	TribeID   uint64
	Applicant common.Address
	// InitiationArtifactID is the artifact minted when the request was filed.
	InitiationArtifactID uint64
	Approved             bool
	Processed            bool
	ApprovalCount        uint32
	RejectionCount       uint32
	// Voters lists members who already voted, in vote order.
	Voters      []common.Address
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// CreateTribeInput describes the fields needed to found a tribe.
type CreateTribeInput struct {
	Name             string
	Leader           common.Address
	RequiresApproval bool
	QuorumThreshold  uint32
}

// CreateTribe validates input and builds a new tribe record.
func CreateTribe(input CreateTribeInput, now func() time.Time) (Tribe, error) {
	if now == nil {
		now = time.Now
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Tribe{}, ErrNameEmpty
	}
	if input.Leader == (common.Address{}) {
		return Tribe{}, apperrors.New(apperrors.CodeAddressInvalid, "tribe leader address is required")
	}

	createdAt := now().UTC()
	return Tribe{
		Name:             name,
		Leader:           input.Leader,
		RequiresApproval: input.RequiresApproval,
		Active:           true,
		QuorumThreshold:  input.QuorumThreshold,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}, nil
}

// NewJoinRequest builds a pending join request for an applicant.
func NewJoinRequest(tribeID uint64, applicant common.Address, artifactID uint64, now func() time.Time) JoinRequest {
	if now == nil {
		now = time.Now
	}
	return JoinRequest{
		TribeID:              tribeID,
		Applicant:            applicant,
		InitiationArtifactID: artifactID,
		CreatedAt:            now().UTC(),
	}
}

// HasVoted reports whether the member already voted on the request.
func (r JoinRequest) HasVoted(member common.Address) bool {
	for _, voter := range r.Voters {
		if voter == member {
			return true
		}
	}
	return false
}

// Pending reports whether the request still awaits a decision.
func (r JoinRequest) Pending() bool {
	return !r.Processed
}

// Decide resolves a request in single-decision mode. The first decision wins;
// any later decision fails. Only valid when the tribe has no quorum threshold.
func Decide(t Tribe, r JoinRequest, approve bool, now func() time.Time) (JoinRequest, error) {
	if now == nil {
		now = time.Now
	}
	if t.QuorumThreshold > 0 {
		return JoinRequest{}, ErrQuorumRequired
	}
	if r.Processed {
		return JoinRequest{}, ErrRequestProcessed
	}

	updated := r
	updated.Processed = true
	updated.Approved = approve
	processedAt := now().UTC()
	updated.ProcessedAt = &processedAt
	return updated, nil
}

// CastVote records one member vote in quorum mode and resolves the request
// the moment either tally crosses the threshold. Resolution happens inside
// the same call that crosses it, so ties cannot occur.
func CastVote(t Tribe, r JoinRequest, voter common.Address, approve bool, now func() time.Time) (JoinRequest, error) {
	if now == nil {
		now = time.Now
	}
	if t.QuorumThreshold == 0 {
		return JoinRequest{}, ErrQuorumDisabled
	}
	if r.Processed {
		return JoinRequest{}, ErrRequestProcessed
	}
	if r.HasVoted(voter) {
		return JoinRequest{}, ErrAlreadyVoted
	}

	updated := r
	updated.Voters = append(append([]common.Address(nil), r.Voters...), voter)
	if approve {
		updated.ApprovalCount++
	} else {
		updated.RejectionCount++
	}

	if updated.ApprovalCount >= t.QuorumThreshold {
		updated.Processed = true
		updated.Approved = true
	} else if updated.RejectionCount >= t.QuorumThreshold {
		updated.Processed = true
		updated.Approved = false
	}
	if updated.Processed {
		processedAt := now().UTC()
		updated.ProcessedAt = &processedAt
	}
	return updated, nil
}
