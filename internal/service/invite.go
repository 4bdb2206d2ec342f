package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/model"
	"lbucks-bot/internal/repository"
)

// InviteUse is a snapshot of one guild invite as reported by the gateway.
type InviteUse struct {
	Code      string
	InviterID string
	Uses      int
}

// InviteCredit describes a payout produced by an invite sync.
type InviteCredit struct {
	InviterID string
	Code      string
	NewUses   int
	Reward    int64
}

// InviteService rewards members for invites that bring new users in. The
// rewarded use count per code is persisted, so restarts never re-pay old
// joins.
type InviteService struct {
	inviteRepo *repository.InviteRepository
	ledger     *LedgerService
	reward     int64
}

// NewInviteService creates a new InviteService instance.
func NewInviteService(inviteRepo *repository.InviteRepository, ledger *LedgerService, reward int64) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		ledger:     ledger,
		reward:     reward,
	}
}

// Sync compares the guild's current invite uses against the rewarded counts
// on record and credits inviters for the difference. Called on member joins
// and once at startup to seed codes created while the bot was offline.
func (s *InviteService) Sync(ctx context.Context, invites []InviteUse, payout bool) ([]InviteCredit, error) {
	var credits []InviteCredit
	for _, inv := range invites {
		if inv.Code == "" || inv.InviterID == "" {
			continue
		}

		rewarded, err := s.inviteRepo.GetRewardedUses(ctx, inv.Code)
		if err != nil {
			return credits, err
		}
		if inv.Uses <= rewarded {
			continue
		}
		newUses := inv.Uses - rewarded

		if err := s.inviteRepo.RecordUses(ctx, inv.Code, inv.InviterID, inv.Uses); err != nil {
			return credits, err
		}
		if !payout {
			continue
		}

		amount := int64(newUses) * s.reward
		desc := fmt.Sprintf("Recompensa por invitación (%d nuevos miembros)", newUses)
		if err := s.ledger.Credit(ctx, inv.InviterID, amount, model.TxTypeInvite, desc); err != nil {
			log.Error().
				Err(err).
				Str("inviter_id", inv.InviterID).
				Str("code", inv.Code).
				Msg("Failed to credit invite reward")
			continue
		}

		log.Info().
			Str("inviter_id", inv.InviterID).
			Str("code", inv.Code).
			Int("new_uses", newUses).
			Int64("reward", amount).
			Msg("Invite reward granted")
		credits = append(credits, InviteCredit{
			InviterID: inv.InviterID,
			Code:      inv.Code,
			NewUses:   newUses,
			Reward:    amount,
		})
	}

	return credits, nil
}

// Stats retrieves the rewarded invite codes belonging to an inviter.
func (s *InviteService) Stats(ctx context.Context, inviterID string) ([]*model.InviteReward, error) {
	return s.inviteRepo.GetByInviter(ctx, inviterID)
}
