// Package handler provides Discord interaction and gateway event handlers.
package handler

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// respond replies to an interaction with plain text.
func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		log.Error().Err(err).Str("interaction_id", i.ID).Msg("Failed to respond to interaction")
	}
}

// respondEphemeral replies with text only the invoking user can see.
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Error().Err(err).Str("interaction_id", i.ID).Msg("Failed to respond to interaction")
	}
}

// respondEmbed replies to an interaction with an embed.
func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
	if err != nil {
		log.Error().Err(err).Str("interaction_id", i.ID).Msg("Failed to respond to interaction")
	}
}

// interactionUserID extracts the invoking user's ID, whether the interaction
// arrived from a guild or a DM.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// hasRole reports whether the member carries a role with the given name.
func hasRole(s *discordgo.Session, guildID string, member *discordgo.Member, roleName string) bool {
	if member == nil {
		return false
	}

	roles, err := s.GuildRoles(guildID)
	if err != nil {
		log.Error().Err(err).Str("guild_id", guildID).Msg("Failed to fetch guild roles")
		return false
	}

	names := make(map[string]string, len(roles))
	for _, role := range roles {
		names[role.ID] = role.Name
	}
	for _, roleID := range member.Roles {
		if names[roleID] == roleName {
			return true
		}
	}
	return false
}

// sendDM sends a direct message to a user, best effort.
func sendDM(s *discordgo.Session, userID, content string) {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to open DM channel")
		return
	}
	if _, err := s.ChannelMessageSend(channel.ID, content); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to send DM")
	}
}

// formatDuration renders a cooldown as "3h 25m" or "12m" for user messages.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return "menos de un minuto"
}
