package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
	"github.com/mythosforge/realmledger/internal/services/ledger/chain"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/authz"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/event"
	"github.com/mythosforge/realmledger/internal/services/ledger/domain/quest"
	"github.com/mythosforge/realmledger/internal/services/ledger/storage"
)

// QuestService verifies attestor-signed reward vouchers and settles each one
// exactly once. The ledger address and chain ID it is constructed with scope
// every digest, so vouchers cannot cross deployments or chains.
type QuestService struct {
	mu       sync.Mutex
	store    storage.QuestStore
	tokens   chain.TokenLedger
	verifier quest.Verifier
	auth     *Authorizer
	clock    func() time.Time
	ledger   common.Address
	chainID  uint64
}

// NewQuestService creates a QuestService with default dependencies.
func NewQuestService(store storage.QuestStore, tokens chain.TokenLedger, verifier quest.Verifier, auth *Authorizer, ledger common.Address, chainID uint64) *QuestService {
	return &QuestService{
		store:    store,
		tokens:   tokens,
		verifier: verifier,
		auth:     auth,
		clock:    time.Now,
		ledger:   ledger,
		chainID:  chainID,
	}
}

// ClaimReward consumes a signed voucher and mints the reward to the player.
// The digest is marked used in the same transaction that records the claim,
// so a voucher settles at most once.
func (s *QuestService) ClaimReward(ctx context.Context, player common.Address, questID uint64, amount *uint256.Int, signature []byte) error {
	if err := requireCaller(player); err != nil {
		return err
	}

	v := quest.Voucher{
		Player:  player,
		QuestID: questID,
		Amount:  amount,
		Ledger:  s.ledger,
		ChainID: s.chainID,
	}
	if err := v.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attestor, err := s.store.Attestor(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return quest.ErrSignatureInvalid
		}
		return err
	}
	if err := s.verifier.Verify(v.SignedDigest(), signature, attestor); err != nil {
		return err
	}

	digest := v.MessageHash()
	used, err := s.store.VoucherUsed(ctx, digest)
	if err != nil {
		return err
	}
	if used {
		return quest.ErrVoucherClaimed
	}

	// Mint before consuming so a commit failure can burn the credit back
	// instead of stranding a consumed digest without its reward.
	if err := s.tokens.Mint(ctx, player, amount); err != nil {
		return err
	}

	evt := newEvent(event.TypeQuestRewardClaimed, s.clock().UTC(), event.QuestRewardClaimedPayload{
		Player:  strings.ToLower(player.Hex()),
		QuestID: questID,
		Amount:  amount.Dec(),
		Digest:  digest.Hex(),
	})
	if err := s.store.ConsumeVoucher(ctx, digest, evt); err != nil {
		if burnErr := s.tokens.Burn(ctx, player, amount); burnErr != nil {
			return burnErr
		}
		return mapStoreErr(err, quest.ErrVoucherClaimed)
	}
	return nil
}

// SetAttestor rotates the attestor key. Future vouchers from the old key stop
// verifying; already-claimed digests stay consumed.
func (s *QuestService) SetAttestor(ctx context.Context, caller, attestor common.Address) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := s.auth.Require(ctx, caller, authz.CapabilityManageRealm); err != nil {
		return err
	}
	if attestor == (common.Address{}) {
		return apperrors.New(apperrors.CodeAddressInvalid, "attestor address is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	evt := newEvent(event.TypeQuestAttestorChanged, s.clock().UTC(), event.QuestAttestorChangedPayload{
		Attestor: strings.ToLower(attestor.Hex()),
	})
	return s.store.SetAttestor(ctx, attestor, evt)
}

// AttestorSeedEvent builds the journal entry for the initial attestor
// configuration performed at server bootstrap, outside any RPC call.
func AttestorSeedEvent(attestor common.Address) event.Event {
	return newEvent(event.TypeQuestAttestorChanged, time.Now().UTC(), event.QuestAttestorChangedPayload{
		Attestor: strings.ToLower(attestor.Hex()),
	})
}

// GetAttestor returns the configured attestor address.
func (s *QuestService) GetAttestor(ctx context.Context) (common.Address, error) {
	attestor, err := s.store.Attestor(ctx)
	if err != nil {
		return common.Address{}, mapStoreErr(err, nil)
	}
	return attestor, nil
}

// VoucherUsed reports whether a voucher digest was already consumed.
func (s *QuestService) VoucherUsed(ctx context.Context, digest common.Hash) (bool, error) {
	return s.store.VoucherUsed(ctx, digest)
}
