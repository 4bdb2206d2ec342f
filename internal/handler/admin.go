package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/model"
	"lbucks-bot/internal/service"
)

// AdminHandler serves the /admin command group, gated by the admin role.
type AdminHandler struct {
	ledger        *service.LedgerService
	redemption    *service.RedemptionService
	adminRoleName string
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(
	ledger *service.LedgerService,
	redemption *service.RedemptionService,
	adminRoleName string,
) *AdminHandler {
	return &AdminHandler{
		ledger:        ledger,
		redemption:    redemption,
		adminRoleName: adminRoleName,
	}
}

// HandleAdmin routes the /admin subcommands.
func (h *AdminHandler) HandleAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasRole(s, i.GuildID, i.Member, h.adminRoleName) {
		respondEphemeral(s, i, "No tienes permiso para usar comandos de administración.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		respondEphemeral(s, i, "Elige una operación de administración.")
		return
	}
	sub := options[0]

	switch sub.Name {
	case "add_lbucks":
		h.handleAddLbucks(s, i, sub)
	case "quitar_lbucks":
		h.handleQuitarLbucks(s, i, sub)
	case "set_precio":
		h.handleSetPrecio(s, i, sub)
	case "set_stock":
		h.handleSetStock(s, i, sub)
	case "canjes":
		h.handleCanjesPendientes(s, i)
	default:
		respondEphemeral(s, i, "Operación de administración desconocida.")
	}
}

// balanceTarget extracts the usuario and cantidad options of a subcommand.
func balanceTarget(s *discordgo.Session, sub *discordgo.ApplicationCommandInteractionDataOption) (string, int64) {
	var targetID string
	var amount int64
	for _, opt := range sub.Options {
		switch opt.Name {
		case "usuario":
			if target := opt.UserValue(s); target != nil {
				targetID = target.ID
			}
		case "cantidad":
			amount = opt.IntValue()
		}
	}
	return targetID, amount
}

func (h *AdminHandler) handleAddLbucks(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	targetID, amount := balanceTarget(s, sub)
	if targetID == "" {
		respondEphemeral(s, i, "Debes indicar un usuario.")
		return
	}

	adminID := interactionUserID(i)
	desc := fmt.Sprintf("Ajuste de administrador (<@%s>)", adminID)
	if err := h.ledger.Credit(context.Background(), targetID, amount, model.TxTypeAdminAdjust, desc); err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			respondEphemeral(s, i, "La cantidad debe ser mayor que cero.")
			return
		}
		log.Error().Err(err).Str("target_id", targetID).Msg("Admin credit failed")
		respondEphemeral(s, i, "No pude acreditar los LBucks, intenta de nuevo.")
		return
	}
	respond(s, i, fmt.Sprintf("🛠️ <@%s> añadió **%d LBucks** a <@%s>.", adminID, amount, targetID))
}

func (h *AdminHandler) handleQuitarLbucks(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	targetID, amount := balanceTarget(s, sub)
	if targetID == "" {
		respondEphemeral(s, i, "Debes indicar un usuario.")
		return
	}

	adminID := interactionUserID(i)
	desc := fmt.Sprintf("Ajuste de administrador (<@%s>)", adminID)
	if err := h.ledger.Debit(context.Background(), targetID, amount, model.TxTypeAdminAdjust, desc); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			respondEphemeral(s, i, "La cantidad debe ser mayor que cero.")
		case errors.Is(err, service.ErrInsufficientBalance):
			respondEphemeral(s, i, "El usuario no tiene tantos LBucks.")
		case errors.Is(err, service.ErrUserNotFound):
			respondEphemeral(s, i, "Ese usuario todavía no tiene cuenta.")
		default:
			log.Error().Err(err).Str("target_id", targetID).Msg("Admin debit failed")
			respondEphemeral(s, i, "No pude retirar los LBucks, intenta de nuevo.")
		}
		return
	}
	respond(s, i, fmt.Sprintf("🛠️ <@%s> retiró **%d LBucks** de <@%s>.", adminID, amount, targetID))
}

func (h *AdminHandler) handleSetPrecio(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	var itemID string
	var price int64
	for _, opt := range sub.Options {
		switch opt.Name {
		case "articulo":
			itemID = opt.StringValue()
		case "precio":
			price = opt.IntValue()
		}
	}

	if err := h.redemption.SetPrice(context.Background(), itemID, price); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondEphemeral(s, i, "Ese artículo no existe en la tienda.")
			return
		}
		log.Error().Err(err).Str("item_id", itemID).Msg("Admin set price failed")
		respondEphemeral(s, i, "No pude cambiar el precio, intenta de nuevo.")
		return
	}
	respond(s, i, fmt.Sprintf("🛠️ El precio de **%s** ahora es **%d LBucks**.", itemID, price))
}

func (h *AdminHandler) handleSetStock(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	var itemID string
	var stock int64
	for _, opt := range sub.Options {
		switch opt.Name {
		case "articulo":
			itemID = opt.StringValue()
		case "cantidad":
			stock = opt.IntValue()
		}
	}

	if err := h.redemption.SetStock(context.Background(), itemID, int(stock)); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondEphemeral(s, i, "Ese artículo no existe en la tienda.")
			return
		}
		log.Error().Err(err).Str("item_id", itemID).Msg("Admin set stock failed")
		respondEphemeral(s, i, "No pude cambiar el stock, intenta de nuevo.")
		return
	}
	respond(s, i, fmt.Sprintf("🛠️ El stock de **%s** ahora es **%d**.", itemID, stock))
}

func (h *AdminHandler) handleCanjesPendientes(s *discordgo.Session, i *discordgo.InteractionCreate) {
	pending, err := h.redemption.PendingQueue(context.Background(), 15)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load pending redemptions")
		respondEphemeral(s, i, "No pude consultar la cola de canjes.")
		return
	}
	if len(pending) == 0 {
		respondEphemeral(s, i, "No hay canjes pendientes. 🎉")
		return
	}

	var sb strings.Builder
	for _, red := range pending {
		fmt.Fprintf(&sb, "`%s` <@%s> — **%s** (%s)\n",
			red.CreatedAt.Format("02/01 15:04"), red.UserID, red.ItemID, red.ID)
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "📦 Canjes pendientes",
				Description: sb.String(),
				Color:       0xE67E22,
			}},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Error().Err(err).Str("interaction_id", i.ID).Msg("Failed to send pending queue")
	}
}
