package rpc

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/location"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/totem"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/tribe"
)

// Addresses travel as 0x-prefixed hex, amounts as decimal strings, and
// signatures as 0x-prefixed hex bytes.

func parseAddress(field, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, apperrors.WithMetadata(apperrors.CodeAddressInvalid,
			"address is not valid hex", map[string]string{"field": field})
	}
	return common.HexToAddress(value), nil
}

func parseAmount(field, value string) (*uint256.Int, error) {
	amount, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, apperrors.WithMetadata(apperrors.CodeAmountInvalid,
			"amount is not a valid decimal", map[string]string{"field": field})
	}
	return amount, nil
}

func parseSignature(value string) ([]byte, error) {
	signature, err := hexutil.Decode(value)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeQuestSignatureInvalid,
			"signature is not valid 0x-prefixed hex")
	}
	return signature, nil
}

func addressString(addr common.Address) string {
	if addr == (common.Address{}) {
		return ""
	}
	return strings.ToLower(addr.Hex())
}

// LocationDTO is the wire shape of a location record.
type LocationDTO struct {
	ID          uint64 `json:"id"`
	Slug        string `json:"slug"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Biome       string `json:"biome"`
	Difficulty  string `json:"difficulty"`
	ParentID    uint64 `json:"parentId"`
	Active      bool   `json:"active"`
	SceneURI    string `json:"sceneUri"`
	Controller  string `json:"controller"`
	MetadataURI string `json:"metadataUri"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toLocationDTO(loc location.Location) LocationDTO {
	return LocationDTO{
		ID:          loc.ID,
		Slug:        loc.Slug,
		DisplayName: loc.DisplayName,
		Description: loc.Description,
		Biome:       location.BiomeLabel(loc.Biome),
		Difficulty:  location.DifficultyLabel(loc.Difficulty),
		ParentID:    loc.ParentID,
		Active:      loc.Active,
		SceneURI:    loc.SceneURI,
		Controller:  addressString(loc.Controller),
		MetadataURI: loc.MetadataURI,
		CreatedAt:   loc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   loc.UpdatedAt.Format(time.RFC3339),
	}
}

// TotemDTO is the wire shape of a totem record.
type TotemDTO struct {
	ID          uint64   `json:"id"`
	Creator     string   `json:"creator"`
	Power       string   `json:"power"`
	ArtifactIDs []uint64 `json:"artifactIds"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func toTotemDTO(t totem.Totem) TotemDTO {
	return TotemDTO{
		ID:          t.ID,
		Creator:     addressString(t.Creator),
		Power:       t.Power.Dec(),
		ArtifactIDs: t.ArtifactIDs,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

// TribeDTO is the wire shape of a tribe record.
type TribeDTO struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	Leader           string `json:"leader"`
	RequiresApproval bool   `json:"requiresApproval"`
	Active           bool   `json:"active"`
	QuorumThreshold  uint32 `json:"quorumThreshold"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

func toTribeDTO(t tribe.Tribe) TribeDTO {
	return TribeDTO{
		ID:               t.ID,
		Name:             t.Name,
		Leader:           addressString(t.Leader),
		RequiresApproval: t.RequiresApproval,
		Active:           t.Active,
		QuorumThreshold:  t.QuorumThreshold,
		CreatedAt:        t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        t.UpdatedAt.Format(time.RFC3339),
	}
}

// JoinRequestDTO is the wire shape of a join request.
type JoinRequestDTO struct {
	ID                   uint64   `json:"id"`
	TribeID              uint64   `json:"tribeId"`
	Applicant            string   `json:"applicant"`
	InitiationArtifactID uint64   `json:"initiationArtifactId"`
	Approved             bool     `json:"approved"`
	Processed            bool     `json:"processed"`
	ApprovalCount        uint32   `json:"approvalCount"`
	RejectionCount       uint32   `json:"rejectionCount"`
	Voters               []string `json:"voters"`
	CreatedAt            string   `json:"createdAt"`
	ProcessedAt          string   `json:"processedAt,omitempty"`
}

func toJoinRequestDTO(r tribe.JoinRequest) JoinRequestDTO {
	voters := make([]string, 0, len(r.Voters))
	for _, voter := range r.Voters {
		voters = append(voters, addressString(voter))
	}
	dto := JoinRequestDTO{
		ID:                   r.ID,
		TribeID:              r.TribeID,
		Applicant:            addressString(r.Applicant),
		InitiationArtifactID: r.InitiationArtifactID,
		Approved:             r.Approved,
		Processed:            r.Processed,
		ApprovalCount:        r.ApprovalCount,
		RejectionCount:       r.RejectionCount,
		Voters:               voters,
		CreatedAt:            r.CreatedAt.Format(time.RFC3339),
	}
	if r.ProcessedAt != nil {
		dto.ProcessedAt = r.ProcessedAt.Format(time.RFC3339)
	}
	return dto
}

// EventDTO is the wire shape of a journal entry. Payload is raw JSON.
type EventDTO struct {
	ID      string `json:"id"`
	Seq     uint64 `json:"seq"`
	Type    string `json:"type"`
	At      string `json:"at"`
	Payload string `json:"payload"`
}

func toEventDTO(evt event.Event) EventDTO {
	return EventDTO{
		ID:      evt.ID,
		Seq:     evt.Seq,
		Type:    string(evt.Type),
		At:      evt.At.Format(time.RFC3339),
		Payload: string(evt.Payload),
	}
}
