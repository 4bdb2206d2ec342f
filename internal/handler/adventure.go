package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/model"
	"lbucks-bot/internal/service"
)

// ExplorePrefix is the custom ID prefix of the planet buttons.
const ExplorePrefix = "explore:"

// AdventureHandler serves the /aventura command group and the planet buttons.
type AdventureHandler struct {
	adventure *service.AdventureService
}

// NewAdventureHandler creates a new AdventureHandler instance.
func NewAdventureHandler(adventure *service.AdventureService) *AdventureHandler {
	return &AdventureHandler{adventure: adventure}
}

// HandleAventura routes the /aventura subcommands.
func (h *AdventureHandler) HandleAventura(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		respondEphemeral(s, i, "Elige una operación: iniciar, perfil o explorar.")
		return
	}

	switch options[0].Name {
	case "iniciar":
		h.handleIniciar(s, i)
	case "perfil":
		h.handlePerfil(s, i)
	case "explorar":
		h.handleExplorar(s, i)
	default:
		respondEphemeral(s, i, "Operación de aventura desconocida.")
	}
}

func (h *AdventureHandler) handleIniciar(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)

	player, err := h.adventure.StartProfile(context.Background(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlayerExists) {
			respondEphemeral(s, i, "Ya tienes un perfil de explorador. Usa `/aventura perfil` para verlo.")
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create adventure profile")
		respondEphemeral(s, i, "No pude crear tu perfil, intenta de nuevo.")
		return
	}

	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title: "🚀 ¡Bienvenido a la aventura espacial!",
		Description: fmt.Sprintf(
			"<@%s>, tu nave está lista para despegar.\n\n"+
				"🛸 Nave: nivel **%d**\n🛰️ Estación: nivel **%d**\n⚡ Poder: **%d**\n\n"+
				"Usa `/aventura explorar` para buscar planetas.",
			userID, player.ShipLevel, player.StationLevel, player.PowerLevel,
		),
		Color: 0x9B59B6,
	})
}

func (h *AdventureHandler) handlePerfil(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)

	profile, err := h.adventure.GetProfile(context.Background(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			respondEphemeral(s, i, "Todavía no tienes perfil. Usa `/aventura iniciar` para crearlo.")
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load adventure profile")
		respondEphemeral(s, i, "No pude consultar tu perfil, intenta de nuevo.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb,
		"🛸 Nave: nivel **%d**\n🛰️ Estación: nivel **%d**\n⚡ Poder: **%d**\n🪐 Planetas conquistados: **%d**\n",
		profile.Player.ShipLevel, profile.Player.StationLevel, profile.Player.PowerLevel, profile.Conquered,
	)
	if len(profile.Loot) > 0 {
		sb.WriteString("\n**Botín:**\n")
		for _, item := range profile.Loot {
			fmt.Fprintf(&sb, "• %s (%d)\n", item.Name, item.Value)
		}
	}

	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "👨‍🚀 Perfil de explorador",
		Description: sb.String(),
		Color:       0x9B59B6,
	})
}

func (h *AdventureHandler) handleExplorar(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)

	planets, err := h.adventure.ExplorablePlanets(context.Background(), userID, 3)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrPlayerNotFound):
		respondEphemeral(s, i, "Todavía no tienes perfil. Usa `/aventura iniciar` para crearlo.")
		return
	case errors.Is(err, service.ErrNothingToExplore):
		respondEphemeral(s, i, "🌌 ¡Conquistaste toda la galaxia! No quedan planetas por explorar.")
		return
	default:
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to scan for planets")
		respondEphemeral(s, i, "No pude escanear la galaxia, intenta de nuevo.")
		return
	}

	var sb strings.Builder
	var buttons []discordgo.MessageComponent
	for _, p := range planets {
		fmt.Fprintf(&sb, "🪐 **%s** — %s (recompensa: %d LBucks)\n", p.Name, p.Difficulty, p.Reward)
		buttons = append(buttons, discordgo.Button{
			Label:    p.Name,
			Style:    difficultyStyle(p.Difficulty),
			CustomID: fmt.Sprintf("%s%d:%s", ExplorePrefix, p.ID, userID),
		})
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "🔭 Planetas al alcance de tu nave",
				Description: sb.String(),
				Color:       0x9B59B6,
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: buttons},
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("interaction_id", i.ID).Msg("Failed to send planet scan")
	}
}

// HandleExploreButton resolves a planet button press into a battle. Only the
// explorer who launched the scan may press their buttons.
func (h *AdventureHandler) HandleExploreButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.Split(strings.TrimPrefix(i.MessageComponentData().CustomID, ExplorePrefix), ":")
	if len(parts) != 2 {
		respondEphemeral(s, i, "Ese botón ya no es válido.")
		return
	}
	planetID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		respondEphemeral(s, i, "Ese botón ya no es válido.")
		return
	}

	userID := interactionUserID(i)
	if userID != parts[1] {
		respondEphemeral(s, i, "Esa expedición no es tuya. Usa `/aventura explorar` para lanzar la tuya.")
		return
	}

	outcome, err := h.adventure.Explore(context.Background(), userID, planetID)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrPlayerNotFound):
		respondEphemeral(s, i, "Todavía no tienes perfil. Usa `/aventura iniciar` para crearlo.")
		return
	case errors.Is(err, service.ErrPlanetNotFound):
		respondEphemeral(s, i, "Ese planeta ya no aparece en los escáneres.")
		return
	case errors.Is(err, service.ErrPlanetConquered):
		respondEphemeral(s, i, "Ya conquistaste ese planeta.")
		return
	default:
		log.Error().Err(err).Str("user_id", userID).Int64("planet_id", planetID).Msg("Exploration failed")
		respondEphemeral(s, i, "La expedición falló por un error técnico, intenta de nuevo.")
		return
	}

	if !outcome.Won {
		respond(s, i, fmt.Sprintf(
			"💥 <@%s> fue repelido por las defensas de **%s** (poder %.1f). ¡Mejora tu poder e inténtalo otra vez!",
			userID, outcome.Planet.Name, outcome.PlanetPower,
		))
		return
	}

	reply := fmt.Sprintf(
		"🏆 ¡<@%s> conquistó **%s** y gana **%d LBucks**!",
		userID, outcome.Planet.Name, outcome.Reward,
	)
	if outcome.LootName != "" {
		reply += fmt.Sprintf("\n🧰 Botín recuperado: **%s** (%d)", outcome.LootName, outcome.LootValue)
	}
	respond(s, i, reply)
}

// difficultyStyle picks the button color for a planet's difficulty.
func difficultyStyle(difficulty string) discordgo.ButtonStyle {
	switch difficulty {
	case model.DifficultyEasy:
		return discordgo.SuccessButton
	case model.DifficultyHard:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}
