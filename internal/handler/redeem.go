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

// Component custom ID prefixes for the redemption flow.
const (
	RedeemPrefix  = "redeem:"
	ApprovePrefix = "redemption_approve:"
	RejectPrefix  = "redemption_reject:"
)

// RedeemHandler serves the shop command, the purchase buttons and the
// admin approval buttons.
type RedeemHandler struct {
	redemption    *service.RedemptionService
	ledger        *service.LedgerService
	adminRoleName string
	logChannelID  string
}

// NewRedeemHandler creates a new RedeemHandler instance.
func NewRedeemHandler(
	redemption *service.RedemptionService,
	ledger *service.LedgerService,
	adminRoleName string,
	logChannelID string,
) *RedeemHandler {
	return &RedeemHandler{
		redemption:    redemption,
		ledger:        ledger,
		adminRoleName: adminRoleName,
		logChannelID:  logChannelID,
	}
}

// HandleCanjear serves /canjear, showing the shop with one button per item.
func (h *RedeemHandler) HandleCanjear(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	items, err := h.redemption.ListItems(ctx)
	if err != nil || len(items) == 0 {
		respondEphemeral(s, i, "La tienda está vacía por ahora.")
		return
	}

	balance, err := h.ledger.GetBalance(ctx, interactionUserID(i))
	if err != nil {
		respondEphemeral(s, i, "No pude consultar tu saldo, intenta de nuevo.")
		return
	}

	var sb strings.Builder
	var buttons []discordgo.MessageComponent
	for _, item := range items {
		fmt.Fprintf(&sb, "**%s** — %d LBucks (stock: %d)\n", item.ItemID, item.Price, item.Stock)
		buttons = append(buttons, discordgo.Button{
			Label:    fmt.Sprintf("%s (%d)", item.ItemID, item.Price),
			Style:    discordgo.PrimaryButton,
			CustomID: RedeemPrefix + item.ItemID,
			Disabled: item.Stock <= 0,
		})
	}
	fmt.Fprintf(&sb, "\nTu saldo: **%d LBucks**", balance)

	if recent, err := h.redemption.UserRedemptions(ctx, interactionUserID(i), 3); err == nil && len(recent) > 0 {
		sb.WriteString("\n\nTus últimos canjes:\n")
		for _, red := range recent {
			fmt.Fprintf(&sb, "%s **%s** (%s)\n", statusEmoji(red.Status), red.ItemID, statusLabel(red.Status))
		}
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "🛒 Tienda de canjes",
				Description: sb.String(),
				Color:       0x2ECC71,
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: buttons},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send shop")
	}
}

// statusEmoji picks the marker shown next to a redemption in the shop view.
func statusEmoji(status string) string {
	switch status {
	case model.RedemptionCompleted:
		return "✅"
	case model.RedemptionCancelled:
		return "❌"
	default:
		return "⏳"
	}
}

// statusLabel translates a redemption status for display.
func statusLabel(status string) string {
	switch status {
	case model.RedemptionCompleted:
		return "completado"
	case model.RedemptionCancelled:
		return "cancelado"
	default:
		return "pendiente"
	}
}

// HandleRedeemButton processes a purchase button press: debits the user,
// queues the redemption and announces it in the admin channel.
func (h *RedeemHandler) HandleRedeemButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)
	itemID := strings.TrimPrefix(i.MessageComponentData().CustomID, RedeemPrefix)

	red, item, err := h.redemption.Redeem(ctx, userID, itemID)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrItemNotFound):
		respondEphemeral(s, i, "Ese artículo ya no existe.")
		return
	case errors.Is(err, service.ErrOutOfStock):
		respondEphemeral(s, i, "Ese artículo se quedó sin stock.")
		return
	case errors.Is(err, service.ErrInsufficientBalance):
		respondEphemeral(s, i, "No tienes suficientes LBucks para ese canje.")
		return
	default:
		log.Error().Err(err).Str("user_id", userID).Str("item_id", itemID).Msg("Redeem failed")
		respondEphemeral(s, i, "No pude procesar el canje, intenta de nuevo.")
		return
	}

	respondEphemeral(s, i, fmt.Sprintf(
		"✅ Canje de **%s** registrado por **%d LBucks**. Un administrador lo revisará pronto.",
		item.ItemID, item.Price,
	))

	h.announce(s, red, item.Price)
}

// announce posts the pending redemption to the admin log channel with the
// approve and reject buttons, and links the message back to the redemption.
func (h *RedeemHandler) announce(s *discordgo.Session, red *model.Redemption, price int64) {
	if h.logChannelID == "" {
		log.Warn().Str("redemption_id", red.ID).Msg("No redemption log channel configured")
		return
	}

	msg, err := s.ChannelMessageSendComplex(h.logChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title: "📦 Canje pendiente",
			Description: fmt.Sprintf(
				"Usuario: <@%s>\nArtículo: **%s**\nPrecio: **%d LBucks**\nID: `%s`",
				red.UserID, red.ItemID, price, red.ID,
			),
			Color: 0xE67E22,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Completar",
					Style:    discordgo.SuccessButton,
					CustomID: ApprovePrefix + red.ID,
				},
				discordgo.Button{
					Label:    "Rechazar",
					Style:    discordgo.DangerButton,
					CustomID: RejectPrefix + red.ID,
				},
			}},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("redemption_id", red.ID).Msg("Failed to announce redemption")
		return
	}

	if err := h.redemption.AttachMessage(context.Background(), red.ID, msg.ID); err != nil {
		log.Error().Err(err).Str("redemption_id", red.ID).Msg("Failed to link redemption message")
	}
}

// HandleDecisionButton processes the admin approve and reject buttons.
func (h *RedeemHandler) HandleDecisionButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	approve := strings.HasPrefix(customID, ApprovePrefix)
	redemptionID := strings.TrimPrefix(strings.TrimPrefix(customID, ApprovePrefix), RejectPrefix)

	if !hasRole(s, i.GuildID, i.Member, h.adminRoleName) {
		respondEphemeral(s, i, "Solo un administrador puede resolver canjes.")
		return
	}

	ctx := context.Background()
	var red *model.Redemption
	var err error
	if approve {
		red, err = h.redemption.Complete(ctx, redemptionID)
	} else {
		red, err = h.redemption.Cancel(ctx, redemptionID)
	}

	switch {
	case err == nil:
	case errors.Is(err, service.ErrRedemptionNotPending):
		respondEphemeral(s, i, "Ese canje ya fue resuelto por otro administrador.")
		return
	case errors.Is(err, service.ErrRedemptionNotFound):
		respondEphemeral(s, i, "No encuentro ese canje.")
		return
	default:
		log.Error().Err(err).Str("redemption_id", redemptionID).Msg("Failed to resolve redemption")
		respondEphemeral(s, i, "No pude resolver el canje, intenta de nuevo.")
		return
	}

	adminID := interactionUserID(i)
	if approve {
		respond(s, i, fmt.Sprintf("✅ Canje `%s` completado por <@%s>.", red.ID, adminID))
		sendDM(s, red.UserID, fmt.Sprintf("🎉 Tu canje de **%s** fue completado. ¡Disfrútalo!", red.ItemID))
	} else {
		respond(s, i, fmt.Sprintf("❌ Canje `%s` rechazado por <@%s>. LBucks reembolsados.", red.ID, adminID))
		sendDM(s, red.UserID, fmt.Sprintf(
			"Tu canje de **%s** fue cancelado por un administrador. Tus LBucks fueron reembolsados.",
			red.ItemID,
		))
	}

	h.disableButtons(s, i)
}

// disableButtons strips the buttons from the resolved announcement so it
// cannot be acted on twice from the UI.
func (h *RedeemHandler) disableButtons(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Message == nil {
		return
	}
	empty := []discordgo.MessageComponent{}
	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    i.ChannelID,
		ID:         i.Message.ID,
		Components: &empty,
	})
	if err != nil {
		log.Warn().Err(err).Str("message_id", i.Message.ID).Msg("Failed to disable redemption buttons")
	}
}
