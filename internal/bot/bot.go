// Package bot provides the Discord gateway wiring: session setup, slash
// command registration, event dispatch and the expired-session sweeper.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/config"
	"lbucks-bot/internal/game/guess"
	"lbucks-bot/internal/handler"
	"lbucks-bot/internal/model"
	"lbucks-bot/internal/service"
)

// Bot wraps the discordgo session with application dependencies.
type Bot struct {
	session  *discordgo.Session
	cfg      *config.Config
	manager  *guess.Manager
	missions *service.MissionService

	// Handlers
	helpHandler      *handler.HelpHandler
	economyHandler   *handler.EconomyHandler
	gameHandler      *handler.GameHandler
	redeemHandler    *handler.RedeemHandler
	missionHandler   *handler.MissionHandler
	inviteHandler    *handler.InviteHandler
	adminHandler     *handler.AdminHandler
	adventureHandler *handler.AdventureHandler

	// Voice session starts for the voice_minutes mission.
	voiceMu    sync.Mutex
	voiceJoins map[string]time.Time

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// Dependencies holds everything the bot handlers need.
type Dependencies struct {
	Config            *config.Config
	Manager           *guess.Manager
	LedgerService     *service.LedgerService
	DonationService   *service.DonationService
	RedemptionService *service.RedemptionService
	MissionService    *service.MissionService
	InviteService     *service.InviteService
	AdventureService  *service.AdventureService
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	session, err := discordgo.New("Bot " + deps.Config.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildInvites |
		discordgo.IntentMessageContent

	b := &Bot{
		session:    session,
		cfg:        deps.Config,
		manager:    deps.Manager,
		missions:   deps.MissionService,
		voiceJoins: make(map[string]time.Time),
		sweepStop:  make(chan struct{}),
		sweepDone:  make(chan struct{}),
	}

	// Initialize handlers
	b.helpHandler = handler.NewHelpHandler()
	b.economyHandler = handler.NewEconomyHandler(deps.LedgerService, deps.DonationService)
	b.gameHandler = handler.NewGameHandler(deps.Manager)
	b.redeemHandler = handler.NewRedeemHandler(
		deps.RedemptionService,
		deps.LedgerService,
		deps.Config.Bot.AdminRoleName,
		deps.Config.Bot.RedemptionLogChannel,
	)
	b.missionHandler = handler.NewMissionHandler(deps.MissionService)
	b.inviteHandler = handler.NewInviteHandler(deps.InviteService)
	b.adminHandler = handler.NewAdminHandler(
		deps.LedgerService,
		deps.RedemptionService,
		deps.Config.Bot.AdminRoleName,
	)
	b.adventureHandler = handler.NewAdventureHandler(deps.AdventureService)

	// Register gateway listeners
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	session.AddHandler(b.onMessage)
	session.AddHandler(b.onReactionAdd)
	session.AddHandler(b.onVoiceStateUpdate)
	session.AddHandler(b.onGuildMemberAdd)

	return b, nil
}

// Start opens the gateway connection, registers the slash commands and
// launches the sweeper.
func (b *Bot) Start() error {
	log.Info().Msg("Starting bot...")

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	cmds, err := b.session.ApplicationCommandBulkOverwrite(
		b.session.State.User.ID,
		b.cfg.Bot.GuildID,
		commands(),
	)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	log.Info().Int("count", len(cmds)).Msg("Slash commands registered")

	if b.cfg.Bot.GuildID != "" {
		b.inviteHandler.Seed(b.session, b.cfg.Bot.GuildID)
	}

	go b.runSweeper()
	return nil
}

// Stop stops the sweeper and closes the gateway connection.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	close(b.sweepStop)
	<-b.sweepDone
	if err := b.session.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close discord session")
	}
}

// runSweeper expires idle game sessions, announces the answers and prunes
// stale mission progress once a day.
func (b *Bot) runSweeper() {
	defer close(b.sweepDone)

	ticker := time.NewTicker(b.cfg.Games.Sweep.Interval)
	defer ticker.Stop()
	cleanup := time.NewTicker(24 * time.Hour)
	defer cleanup.Stop()

	for {
		select {
		case <-b.sweepStop:
			return
		case now := <-ticker.C:
			for _, exp := range b.manager.Sweep(now) {
				if _, err := b.session.ChannelMessageSend(exp.ChannelID, handler.RenderExpired(exp)); err != nil {
					log.Warn().Err(err).Str("channel_id", exp.ChannelID).Msg("Failed to announce expired game")
				}
			}
		case <-cleanup.C:
			b.missions.CleanOld(context.Background(), 30)
		}
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().
		Str("username", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("Bot connected")
}

// onInteraction dispatches slash commands and component presses.
func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.dispatchCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.dispatchComponent(s, i)
	}
}

func (b *Bot) dispatchCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	log.Debug().Str("command", name).Msg("Command received")

	switch name {
	case "ayuda":
		b.helpHandler.HandleAyuda(s, i)
	case "saldo":
		b.economyHandler.HandleSaldo(s, i)
	case "login_diario":
		b.economyHandler.HandleLoginDiario(s, i)
	case "donar":
		b.economyHandler.HandleDonar(s, i)
	case "historial":
		b.economyHandler.HandleHistorial(s, i)
	case "leaderboard":
		b.economyHandler.HandleLeaderboard(s, i)
	case "juego":
		b.gameHandler.HandleJuego(s, i)
	case "adivinar":
		b.gameHandler.HandleAdivinar(s, i)
	case "misiones":
		b.missionHandler.HandleMisiones(s, i)
	case "invitaciones":
		b.inviteHandler.HandleInvitaciones(s, i)
	case "canjear":
		b.redeemHandler.HandleCanjear(s, i)
	case "aventura":
		b.adventureHandler.HandleAventura(s, i)
	case "admin":
		b.adminHandler.HandleAdmin(s, i)
	default:
		log.Warn().Str("command", name).Msg("Unknown command")
		return
	}

	if userID := interactionUser(i); userID != "" {
		go b.missionHandler.Track(s, "", userID, model.MissionSlashCommandUse, 1)
	}
}

func (b *Bot) dispatchComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	log.Debug().Str("custom_id", customID).Msg("Component received")

	switch {
	case strings.HasPrefix(customID, handler.RedeemPrefix):
		b.redeemHandler.HandleRedeemButton(s, i)
	case strings.HasPrefix(customID, handler.ApprovePrefix),
		strings.HasPrefix(customID, handler.RejectPrefix):
		b.redeemHandler.HandleDecisionButton(s, i)
	case strings.HasPrefix(customID, handler.ExplorePrefix):
		b.adventureHandler.HandleExploreButton(s, i)
	default:
		log.Warn().Str("custom_id", customID).Msg("Unknown component")
	}
}

// onMessage feeds channel messages into active games and the message mission.
func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	if reply, handled := b.gameHandler.OnMessage(m.ChannelID, m.Author.ID, m.Content); handled {
		if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
			log.Warn().Err(err).Str("channel_id", m.ChannelID).Msg("Failed to send game reply")
		}
	}

	b.missionHandler.Track(s, m.ChannelID, m.Author.ID, model.MissionMessageCount, 1)
}

// onReactionAdd feeds reactions into the reaction mission.
func (b *Bot) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID == "" || r.UserID == s.State.User.ID {
		return
	}
	b.missionHandler.Track(s, r.ChannelID, r.UserID, model.MissionReactionAdd, 1)
}

// onVoiceStateUpdate measures time spent in voice channels and feeds whole
// minutes into the voice mission when the member leaves.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.UserID == s.State.User.ID {
		return
	}

	b.voiceMu.Lock()
	joined, wasIn := b.voiceJoins[v.UserID]
	if v.ChannelID != "" {
		if !wasIn {
			b.voiceJoins[v.UserID] = time.Now()
		}
		b.voiceMu.Unlock()
		return
	}
	delete(b.voiceJoins, v.UserID)
	b.voiceMu.Unlock()

	if !wasIn {
		return
	}
	minutes := int(time.Since(joined).Minutes())
	if minutes <= 0 {
		return
	}
	b.missionHandler.Track(s, "", v.UserID, model.MissionVoiceMinutes, minutes)
}

// onGuildMemberAdd rewards inviters when a new member joins.
func (b *Bot) onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	log.Info().Str("user_id", m.User.ID).Str("guild_id", m.GuildID).Msg("Member joined")
	b.inviteHandler.OnMemberAdd(s, m.GuildID)
}

// interactionUser extracts the invoking user's ID from an interaction.
func interactionUser(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
