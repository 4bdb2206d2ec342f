package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/service"
)

// EconomyHandler serves the balance, daily login, donation and leaderboard
// commands.
type EconomyHandler struct {
	ledger   *service.LedgerService
	donation *service.DonationService
}

// NewEconomyHandler creates a new EconomyHandler instance.
func NewEconomyHandler(ledger *service.LedgerService, donation *service.DonationService) *EconomyHandler {
	return &EconomyHandler{ledger: ledger, donation: donation}
}

// HandleSaldo serves /saldo, showing the invoker's (or another member's)
// balance.
func (h *EconomyHandler) HandleSaldo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)
	mention := fmt.Sprintf("<@%s>", userID)

	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "usuario" {
			target := opt.UserValue(s)
			if target != nil {
				userID = target.ID
				mention = target.Mention()
			}
		}
	}

	balance, err := h.ledger.GetBalance(ctx, userID)
	if err != nil {
		respondEphemeral(s, i, "No pude consultar el saldo, intenta de nuevo.")
		return
	}

	respond(s, i, fmt.Sprintf("💰 %s tiene **%d LBucks**.", mention, balance))
}

// HandleLoginDiario serves /login_diario, granting the daily reward or
// reporting the remaining cooldown.
func (h *EconomyHandler) HandleLoginDiario(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)

	reward, remaining, err := h.ledger.ClaimDaily(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrDailyAlreadyClaimed) {
			respondEphemeral(s, i, fmt.Sprintf(
				"⏳ Ya reclamaste tu recompensa diaria. Vuelve en **%s**.",
				formatDuration(remaining),
			))
			return
		}
		respondEphemeral(s, i, "No pude procesar tu recompensa diaria, intenta de nuevo.")
		return
	}

	respond(s, i, fmt.Sprintf("✅ <@%s> reclamó su recompensa diaria: **+%d LBucks**.", userID, reward))
}

// HandleDonar serves /donar, transferring LBucks to another member.
func (h *EconomyHandler) HandleDonar(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	fromID := interactionUserID(i)

	var toID string
	var amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "usuario":
			if target := opt.UserValue(s); target != nil {
				toID = target.ID
			}
		case "cantidad":
			amount = opt.IntValue()
		}
	}
	if toID == "" {
		respondEphemeral(s, i, "Debes indicar a quién donar.")
		return
	}

	err := h.donation.Donate(ctx, fromID, toID, amount)
	switch {
	case err == nil:
		respond(s, i, fmt.Sprintf("🎁 <@%s> donó **%d LBucks** a <@%s>.", fromID, amount, toID))
	case errors.Is(err, service.ErrSelfDonation):
		respondEphemeral(s, i, "No puedes donarte LBucks a ti mismo.")
	case errors.Is(err, service.ErrInvalidAmount):
		respondEphemeral(s, i, "La cantidad debe ser mayor que cero.")
	case errors.Is(err, service.ErrInsufficientBalance):
		respondEphemeral(s, i, "No tienes suficientes LBucks para esa donación.")
	default:
		respondEphemeral(s, i, "No pude completar la donación, intenta de nuevo.")
	}
}

// HandleHistorial serves /historial, showing the invoker's recent balance
// movements.
func (h *EconomyHandler) HandleHistorial(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)

	txs, err := h.ledger.GetHistory(ctx, userID, 10)
	if err != nil {
		respondEphemeral(s, i, "No pude consultar tu historial, intenta de nuevo.")
		return
	}
	if len(txs) == 0 {
		respondEphemeral(s, i, "Todavía no tienes movimientos de LBucks.")
		return
	}

	var sb strings.Builder
	for _, tx := range txs {
		sign := "+"
		if tx.Amount < 0 {
			sign = ""
		}
		line := fmt.Sprintf("`%s` **%s%d**", tx.CreatedAt.Format("02/01"), sign, tx.Amount)
		if tx.Description != nil && *tx.Description != "" {
			line += " — " + *tx.Description
		}
		sb.WriteString(line + "\n")
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "📜 Tus últimos movimientos",
				Description: sb.String(),
				Color:       0x95A5A6,
			}},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Error().Err(err).Str("interaction_id", i.ID).Msg("Failed to send history")
	}
}

// HandleLeaderboard serves /leaderboard, showing the richest members.
func (h *EconomyHandler) HandleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	users, err := h.ledger.GetTopUsers(ctx, 10)
	if err != nil || len(users) == 0 {
		respondEphemeral(s, i, "Todavía no hay nadie en la clasificación.")
		return
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	for idx, user := range users {
		marker := fmt.Sprintf("%d.", idx+1)
		if idx < len(medals) {
			marker = medals[idx]
		}
		fmt.Fprintf(&sb, "%s <@%s> — **%d LBucks**\n", marker, user.DiscordID, user.Balance)
	}

	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🏆 Clasificación de LBucks",
		Description: sb.String(),
		Color:       0xF1C40F,
	})
}
