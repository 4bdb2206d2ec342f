package guess

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/model"
	"lbucks-bot/internal/wordsource"
)

// key addresses a session: one live session per channel per kind.
type key struct {
	channelID string
	kind      Kind
}

// Manager owns all active minigame sessions. All state transitions happen
// under a single mutex so that check-mutate-settle-remove is one critical
// section: two concurrent correct guesses can never both observe a live
// session and settle twice.
type Manager struct {
	mu       sync.Mutex
	sessions map[key]*session

	cfg    Config
	ledger Ledger
	words  WordSource
	randn  func(n int) int
}

// NewManager creates a session manager with the given collaborators.
// A number range configured upside down is normalized, so drawing a secret
// cannot panic on a bad config.
func NewManager(cfg Config, ledger Ledger, words WordSource) *Manager {
	if cfg.NumberMax < cfg.NumberMin {
		cfg.NumberMin, cfg.NumberMax = cfg.NumberMax, cfg.NumberMin
	}
	return &Manager{
		sessions: make(map[key]*session),
		cfg:      cfg,
		ledger:   ledger,
		words:    words,
		randn:    rand.Intn,
	}
}

// Start creates and registers a new session for the channel and kind.
// Returns ErrSessionExists if one is already running, and
// ErrNoWordAvailable if the word source cannot produce a secret.
func (m *Manager) Start(ctx context.Context, channelID string, kind Kind, startedBy string, now time.Time) (View, error) {
	if kind != KindNumber && kind != KindWord {
		return View{}, ErrUnknownKind
	}
	k := key{channelID: channelID, kind: kind}

	// Cheap duplicate check first, so a duplicate start never costs a
	// word-source round trip.
	m.mu.Lock()
	_, exists := m.sessions[k]
	m.mu.Unlock()
	if exists {
		return View{}, ErrSessionExists
	}

	sess := &session{
		channelID: channelID,
		kind:      kind,
		startedBy: startedBy,
		startedAt: now,
	}

	switch kind {
	case KindNumber:
		span := m.cfg.NumberMax - m.cfg.NumberMin + 1
		sess.secretNumber = m.cfg.NumberMin + m.randn(span)
		sess.remaining = m.cfg.NumberAttempts
	case KindWord:
		// Fetched outside the lock: the source may block on I/O.
		word, err := m.words.RandomWord(ctx)
		if err != nil || word == "" {
			return View{}, fmt.Errorf("%w: %v", ErrNoWordAvailable, err)
		}
		sess.secretWord = word
		sess.revealed = make(map[rune]struct{})
		sess.wrong = make(map[rune]struct{})
		sess.remaining = m.cfg.WordAttempts
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under the lock: another start may have won the race while the
	// word was being fetched.
	if _, ok := m.sessions[k]; ok {
		return View{}, ErrSessionExists
	}
	m.sessions[k] = sess

	log.Info().
		Str("channel_id", channelID).
		Str("kind", string(kind)).
		Str("started_by", startedBy).
		Msg("Game session started")

	return sess.view(), nil
}

// Submit applies one guess to the active session for the channel and kind.
// Inputs that do not fit the game (non-integer text during a number game,
// multi-letter non-matching text during a word game) yield NotApplicable so
// ordinary chat can flow through an active game.
func (m *Manager) Submit(ctx context.Context, channelID string, kind Kind, userID, raw string, now time.Time) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{channelID: channelID, kind: kind}
	sess, ok := m.sessions[k]
	if !ok {
		return Result{}, ErrNoActiveSession
	}

	// Expiry wins over the guess itself.
	if sess.expired(m.cfg, now) {
		delete(m.sessions, k)
		log.Info().
			Str("channel_id", channelID).
			Str("kind", string(kind)).
			Msg("Game session expired on guess")
		return Result{Type: Expired, Secret: sess.secret()}, nil
	}

	switch kind {
	case KindNumber:
		return m.submitNumber(ctx, k, sess, userID, raw), nil
	case KindWord:
		return m.submitWord(ctx, k, sess, userID, raw), nil
	default:
		return Result{}, ErrUnknownKind
	}
}

// submitNumber handles a guess against a number session. Caller holds m.mu.
func (m *Manager) submitNumber(ctx context.Context, k key, sess *session, userID, raw string) Result {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Result{Type: NotApplicable}
	}

	switch {
	case n == sess.secretNumber:
		return m.settle(ctx, k, sess, userID)
	case n < sess.secretNumber:
		return m.miss(k, sess, TooLow)
	default:
		return m.miss(k, sess, TooHigh)
	}
}

// submitWord handles a guess against a word session. Caller holds m.mu.
func (m *Manager) submitWord(ctx context.Context, k key, sess *session, userID, raw string) Result {
	normalized := wordsource.Normalize(raw)

	// Guessing the whole word wins outright, whatever letters are on the board.
	if normalized == sess.secretWord {
		return m.settle(ctx, k, sess, userID)
	}

	runes := []rune(normalized)
	if len(runes) != 1 || !isLetter(runes[0]) {
		return Result{Type: NotApplicable}
	}
	letter := runes[0]

	if _, ok := sess.revealed[letter]; ok {
		return sess.result(AlreadyGuessed)
	}
	if _, ok := sess.wrong[letter]; ok {
		return sess.result(AlreadyGuessed)
	}

	if containsRune(sess.secretWord, letter) {
		sess.revealed[letter] = struct{}{}
		if sess.revealedAll() {
			return m.settle(ctx, k, sess, userID)
		}
		return sess.result(LetterHit)
	}

	sess.wrong[letter] = struct{}{}
	return m.miss(k, sess, LetterMiss)
}

// miss records a wrong guess, expiring the session when attempts run out.
// Caller holds m.mu.
func (m *Manager) miss(k key, sess *session, rt ResultType) Result {
	sess.remaining--
	if sess.remaining <= 0 {
		delete(m.sessions, k)
		log.Info().
			Str("channel_id", sess.channelID).
			Str("kind", string(sess.kind)).
			Msg("Game session exhausted its attempts")
		res := sess.result(Expired)
		res.Secret = sess.secret()
		return res
	}
	return sess.result(rt)
}

// settle credits the winner and removes the session in the same critical
// section, so no concurrent guess can observe the session again. A ledger
// failure is logged but does not undo the win.
func (m *Manager) settle(ctx context.Context, k key, sess *session, userID string) Result {
	reward := m.cfg.NumberReward
	txType := model.TxTypeNumberWin
	desc := fmt.Sprintf("Adivinó el número %d", sess.secretNumber)
	if sess.kind == KindWord {
		reward = m.cfg.WordReward
		txType = model.TxTypeWordWin
		desc = fmt.Sprintf("Adivinó la palabra %q", sess.secretWord)
		for _, r := range sess.secretWord {
			sess.revealed[r] = struct{}{}
		}
	}

	if err := m.ledger.Credit(ctx, userID, reward, txType, desc); err != nil {
		log.Error().
			Err(err).
			Str("channel_id", sess.channelID).
			Str("user_id", userID).
			Int64("reward", reward).
			Msg("Failed to credit game reward")
	}

	delete(m.sessions, k)

	log.Info().
		Str("channel_id", sess.channelID).
		Str("kind", string(sess.kind)).
		Str("winner", userID).
		Int64("reward", reward).
		Msg("Game session won")

	res := sess.result(Correct)
	res.Reward = reward
	res.Secret = sess.secret()
	return res
}

// Sweep expires every session that has outlived its timeout and returns the
// revealed secrets so the caller can announce them. This is the only cleanup
// path for sessions that receive no further guesses.
func (m *Manager) Sweep(now time.Time) []ExpiredSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []ExpiredSession
	for k, sess := range m.sessions {
		if !sess.expired(m.cfg, now) {
			continue
		}
		out = append(out, ExpiredSession{
			ChannelID: sess.channelID,
			Kind:      sess.kind,
			Secret:    sess.secret(),
		})
		delete(m.sessions, k)
	}

	if len(out) > 0 {
		log.Info().Int("count", len(out)).Msg("Swept expired game sessions")
	}
	return out
}

// Active reports whether a session is currently running.
func (m *Manager) Active(channelID string, kind Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[key{channelID: channelID, kind: kind}]
	return ok
}

// ViewOf returns a display snapshot of the active session, if any.
func (m *Manager) ViewOf(channelID string, kind Kind) (View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[key{channelID: channelID, kind: kind}]
	if !ok {
		return View{}, false
	}
	return sess.view(), true
}

// secret renders the session's secret for announcements.
func (s *session) secret() string {
	if s.kind == KindWord {
		return s.secretWord
	}
	return strconv.Itoa(s.secretNumber)
}

// result builds a Result carrying the session's current display state.
func (s *session) result(rt ResultType) Result {
	res := Result{Type: rt, Remaining: s.remaining}
	if s.kind == KindWord {
		res.Hint = s.hint()
		res.WrongLetters = s.wrongLetters()
		res.Mistakes = len(s.wrong)
	}
	return res
}

// view builds a display snapshot of the session.
func (s *session) view() View {
	v := View{
		ChannelID: s.channelID,
		Kind:      s.kind,
		StartedBy: s.startedBy,
		StartedAt: s.startedAt,
		Remaining: s.remaining,
	}
	if s.kind == KindWord {
		v.Hint = s.hint()
		v.WrongLetters = s.wrongLetters()
		v.Mistakes = len(s.wrong)
	}
	return v
}

// wrongLetters returns the wrong guesses as a sorted slice.
func (s *session) wrongLetters() []string {
	out := make([]string, 0, len(s.wrong))
	for r := range s.wrong {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
