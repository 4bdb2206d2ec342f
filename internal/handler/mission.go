package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/service"
)

// MissionHandler serves /misiones and feeds gateway activity into the
// mission tracker.
type MissionHandler struct {
	missions *service.MissionService
}

// NewMissionHandler creates a new MissionHandler instance.
func NewMissionHandler(missions *service.MissionService) *MissionHandler {
	return &MissionHandler{missions: missions}
}

// HandleMisiones serves /misiones, showing today's missions and progress.
func (h *MissionHandler) HandleMisiones(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUserID(i)

	progress, err := h.missions.DailyProgress(ctx, userID)
	if err != nil || len(progress) == 0 {
		respondEphemeral(s, i, "No hay misiones configuradas hoy.")
		return
	}

	var sb strings.Builder
	for _, mp := range progress {
		mark := "⬜"
		if mp.Completed {
			mark = "✅"
		}
		shown := mp.Progress
		if shown > mp.Target {
			shown = mp.Target
		}
		fmt.Fprintf(&sb, "%s **%s** — %d/%d (+%d LBucks)\n", mark, mp.Description, shown, mp.Target, mp.Reward)
	}

	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "📋 Misiones diarias",
		Description: sb.String(),
		Color:       0x9B59B6,
	})
}

// Track adds progress for one gateway event and announces any mission that
// just completed in the channel where the activity happened.
func (h *MissionHandler) Track(s *discordgo.Session, channelID, userID, missionType string, delta int) {
	completed, err := h.missions.Progress(context.Background(), userID, missionType, delta)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("type", missionType).Msg("Failed to track mission progress")
		return
	}

	for _, c := range completed {
		text := fmt.Sprintf(
			"🏅 <@%s> completó la misión **%s** y gana **%d LBucks**.",
			userID, c.Mission.Description, c.Reward,
		)
		if channelID == "" {
			sendDM(s, userID, text)
			continue
		}
		if _, err := s.ChannelMessageSend(channelID, text); err != nil {
			log.Warn().Err(err).Str("channel_id", channelID).Msg("Failed to announce mission completion")
		}
	}
}
