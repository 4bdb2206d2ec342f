package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/service"
)

// InviteHandler serves /invitaciones and rewards inviters when their codes
// bring new members in.
type InviteHandler struct {
	invites *service.InviteService
}

// NewInviteHandler creates a new InviteHandler instance.
func NewInviteHandler(invites *service.InviteService) *InviteHandler {
	return &InviteHandler{invites: invites}
}

// HandleInvitaciones serves /invitaciones, showing the invoker's rewarded
// invite codes.
func (h *InviteHandler) HandleInvitaciones(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)

	rewards, err := h.invites.Stats(ctx, userID)
	if err != nil {
		respondEphemeral(s, i, "No pude consultar tus invitaciones, intenta de nuevo.")
		return
	}
	if len(rewards) == 0 {
		respondEphemeral(s, i, "Todavía nadie se unió con tus invitaciones. ¡Comparte tu enlace!")
		return
	}

	total := 0
	var sb strings.Builder
	for _, rw := range rewards {
		total += rw.RewardedUses
		fmt.Fprintf(&sb, "`%s` — %d usos\n", rw.Code, rw.RewardedUses)
	}
	fmt.Fprintf(&sb, "\nTotal: **%d** miembros invitados", total)

	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "📨 Tus invitaciones",
		Description: sb.String(),
		Color:       0x1ABC9C,
	})
}

// Seed records the guild's current invite uses without paying anything out,
// so joins that happened while the bot was offline are not rewarded later.
func (h *InviteHandler) Seed(s *discordgo.Session, guildID string) {
	uses, err := fetchInviteUses(s, guildID)
	if err != nil {
		log.Warn().Err(err).Str("guild_id", guildID).Msg("Failed to seed invite uses")
		return
	}
	if _, err := h.invites.Sync(context.Background(), uses, false); err != nil {
		log.Warn().Err(err).Str("guild_id", guildID).Msg("Failed to record seeded invite uses")
	}
}

// OnMemberAdd re-reads the guild's invites after a join and rewards the
// inviters whose codes gained uses.
func (h *InviteHandler) OnMemberAdd(s *discordgo.Session, guildID string) {
	uses, err := fetchInviteUses(s, guildID)
	if err != nil {
		log.Warn().Err(err).Str("guild_id", guildID).Msg("Failed to fetch invites after join")
		return
	}

	credits, err := h.invites.Sync(context.Background(), uses, true)
	if err != nil {
		log.Warn().Err(err).Str("guild_id", guildID).Msg("Failed to sync invite rewards")
		return
	}

	for _, c := range credits {
		sendDM(s, c.InviterID, fmt.Sprintf(
			"📨 ¡Gracias por invitar! Tu enlace `%s` trajo %d miembro(s): **+%d LBucks**.",
			c.Code, c.NewUses, c.Reward,
		))
	}
}

// fetchInviteUses snapshots the guild's invites as InviteUse values.
func fetchInviteUses(s *discordgo.Session, guildID string) ([]service.InviteUse, error) {
	invites, err := s.GuildInvites(guildID)
	if err != nil {
		return nil, err
	}

	uses := make([]service.InviteUse, 0, len(invites))
	for _, inv := range invites {
		if inv.Inviter == nil {
			continue
		}
		uses = append(uses, service.InviteUse{
			Code:      inv.Code,
			InviterID: inv.Inviter.ID,
			Uses:      inv.Uses,
		})
	}
	return uses, nil
}
