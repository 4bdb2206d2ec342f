package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/game/guess"
)

// hangmanPics are the gallows stages, indexed by mistake count.
var hangmanPics = []string{
	`
   +---+
       |
       |
       |
      ===`,
	`
   +---+
   O   |
       |
       |
      ===`,
	`
   +---+
   O   |
   |   |
       |
      ===`,
	`
   +---+
   O   |
  /|   |
       |
      ===`,
	`
   +---+
   O   |
  /|\  |
       |
      ===`,
	`
   +---+
   O   |
  /|\  |
  /    |
      ===`,
	`
   +---+
   O   |
  /|\  |
  / \  |
      ===`,
}

// GameHandler serves the minigame commands and routes channel messages into
// active sessions.
type GameHandler struct {
	manager *guess.Manager
}

// NewGameHandler creates a new GameHandler instance.
func NewGameHandler(manager *guess.Manager) *GameHandler {
	return &GameHandler{manager: manager}
}

// HandleJuego serves /juego with its palabra and numero subcommands.
func (h *GameHandler) HandleJuego(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		respondEphemeral(s, i, "Elige un juego: palabra o numero.")
		return
	}

	kind := guess.KindNumber
	if options[0].Name == "palabra" {
		kind = guess.KindWord
	}

	view, err := h.manager.Start(context.Background(), i.ChannelID, kind, interactionUserID(i), time.Now())
	switch {
	case err == nil:
		respondEmbed(s, i, h.startEmbed(view))
	case errors.Is(err, guess.ErrSessionExists):
		if view, ok := h.manager.ViewOf(i.ChannelID, kind); ok {
			respondEmbed(s, i, h.boardEmbed(view))
			return
		}
		respondEphemeral(s, i, "Ya hay una partida de ese juego en este canal. ¡Únete!")
	case errors.Is(err, guess.ErrNoWordAvailable):
		respondEphemeral(s, i, "No pude conseguir una palabra secreta, intenta más tarde.")
	default:
		log.Error().Err(err).Str("channel_id", i.ChannelID).Msg("Failed to start game")
		respondEphemeral(s, i, "No pude iniciar la partida, intenta de nuevo.")
	}
}

// HandleAdivinar serves /adivinar, submitting a guess against whichever game
// fits the input.
func (h *GameHandler) HandleAdivinar(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var raw string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "valor" {
			raw = opt.StringValue()
		}
	}
	if strings.TrimSpace(raw) == "" {
		respondEphemeral(s, i, "Escribe una letra, una palabra o un número.")
		return
	}

	userID := interactionUserID(i)
	reply, handled := h.submit(i.ChannelID, userID, raw)
	if !handled {
		respondEphemeral(s, i, "No hay ninguna partida activa en este canal. Usa /juego para empezar una.")
		return
	}
	if reply == "" {
		respondEphemeral(s, i, "Eso no encaja en la partida actual.")
		return
	}
	respond(s, i, reply)
}

// OnMessage feeds a channel message into the active sessions. Returns true
// with a reply when the message counted as a guess.
func (h *GameHandler) OnMessage(channelID, userID, content string) (string, bool) {
	return h.submit(channelID, userID, content)
}

// submit tries the word game first, falling back to the number game, so that
// both can share a channel. The boolean reports whether any session consumed
// the input.
func (h *GameHandler) submit(channelID, userID, raw string) (string, bool) {
	now := time.Now()
	ctx := context.Background()

	for _, kind := range []guess.Kind{guess.KindWord, guess.KindNumber} {
		res, err := h.manager.Submit(ctx, channelID, kind, userID, raw, now)
		if err != nil {
			continue
		}
		if res.Type == guess.NotApplicable {
			continue
		}
		return h.renderResult(kind, userID, res), true
	}

	return "", false
}

// renderResult turns a guess outcome into the channel reply.
func (h *GameHandler) renderResult(kind guess.Kind, userID string, res guess.Result) string {
	switch res.Type {
	case guess.Correct:
		if kind == guess.KindWord {
			return fmt.Sprintf("🎉 ¡<@%s> adivinó la palabra **%s** y gana **%d LBucks**!", userID, res.Secret, res.Reward)
		}
		return fmt.Sprintf("🎉 ¡<@%s> adivinó el número **%s** y gana **%d LBucks**!", userID, res.Secret, res.Reward)
	case guess.TooLow:
		return fmt.Sprintf("📈 El número secreto es **mayor**. Quedan %d intentos.", res.Remaining)
	case guess.TooHigh:
		return fmt.Sprintf("📉 El número secreto es **menor**. Quedan %d intentos.", res.Remaining)
	case guess.LetterHit:
		return fmt.Sprintf("✅ ¡Buena letra!\n%s", renderBoard(res.Hint, res.WrongLetters, res.Mistakes, res.Remaining))
	case guess.LetterMiss:
		return fmt.Sprintf("❌ Esa letra no está.\n%s", renderBoard(res.Hint, res.WrongLetters, res.Mistakes, res.Remaining))
	case guess.AlreadyGuessed:
		return fmt.Sprintf("🔁 Esa letra ya salió.\n%s", renderBoard(res.Hint, res.WrongLetters, res.Mistakes, res.Remaining))
	case guess.Expired:
		if kind == guess.KindWord {
			return fmt.Sprintf("💀 Se acabó la partida. La palabra era **%s**.", res.Secret)
		}
		return fmt.Sprintf("💀 Se acabó la partida. El número era **%s**.", res.Secret)
	default:
		return ""
	}
}

// startEmbed renders the opening board of a new game.
func (h *GameHandler) startEmbed(view guess.View) *discordgo.MessageEmbed {
	if view.Kind == guess.KindWord {
		return &discordgo.MessageEmbed{
			Title: "🪢 ¡Ahorcado!",
			Description: fmt.Sprintf(
				"Adivina la palabra letra por letra o de una sola vez.\n%s",
				renderBoard(view.Hint, nil, 0, view.Remaining),
			),
			Color: 0x3498DB,
		}
	}
	return &discordgo.MessageEmbed{
		Title: "🔢 ¡Adivina el número!",
		Description: fmt.Sprintf(
			"Pensé un número. Escribe tu intento en el canal. Tienes %d intentos.",
			view.Remaining,
		),
		Color: 0x3498DB,
	}
}

// boardEmbed renders the current state of an already running game.
func (h *GameHandler) boardEmbed(view guess.View) *discordgo.MessageEmbed {
	if view.Kind == guess.KindWord {
		return &discordgo.MessageEmbed{
			Title: "🪢 Partida en curso",
			Description: fmt.Sprintf(
				"Ya hay un ahorcado en este canal. ¡Únete!\n%s",
				renderBoard(view.Hint, view.WrongLetters, view.Mistakes, view.Remaining),
			),
			Color: 0x3498DB,
		}
	}
	return &discordgo.MessageEmbed{
		Title: "🔢 Partida en curso",
		Description: fmt.Sprintf(
			"Ya hay un adivina-el-número en este canal. Quedan %d intentos. ¡Únete!",
			view.Remaining,
		),
		Color: 0x3498DB,
	}
}

// renderBoard draws the hangman state: gallows, spaced hint, wrong letters.
func renderBoard(hint string, wrongLetters []string, mistakes, remaining int) string {
	if mistakes >= len(hangmanPics) {
		mistakes = len(hangmanPics) - 1
	}

	spaced := strings.Join(strings.Split(hint, ""), " ")
	var sb strings.Builder
	fmt.Fprintf(&sb, "```%s\n```", hangmanPics[mistakes])
	fmt.Fprintf(&sb, "\n`%s`", spaced)
	if len(wrongLetters) > 0 {
		fmt.Fprintf(&sb, "\nLetras falladas: %s", strings.Join(wrongLetters, ", "))
	}
	fmt.Fprintf(&sb, "\nIntentos restantes: %d", remaining)
	return sb.String()
}

// RenderExpired renders the sweep announcement for a timed-out session.
func RenderExpired(exp guess.ExpiredSession) string {
	if exp.Kind == guess.KindWord {
		return fmt.Sprintf("⌛ La partida de ahorcado terminó por inactividad. La palabra era **%s**.", exp.Secret)
	}
	return fmt.Sprintf("⌛ La partida terminó por inactividad. El número era **%s**.", exp.Secret)
}
