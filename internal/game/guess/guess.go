// Package guess implements the transient minigame session manager for the
// number-guessing and word-guessing (hangman) games. Sessions live in process
// memory, keyed by channel, and are settled through the ledger capability.
package guess

import (
	"context"
	"errors"
	"time"
)

// Kind identifies which minigame a session belongs to.
type Kind string

const (
	KindNumber Kind = "number"
	KindWord   Kind = "word"
)

// Errors for session lifecycle operations.
var (
	ErrSessionExists   = errors.New("a game is already running in this channel")
	ErrNoActiveSession = errors.New("no active game in this channel")
	ErrNoWordAvailable = errors.New("could not obtain a secret word")
	ErrUnknownKind     = errors.New("unknown game kind")
)

// ResultType classifies the outcome of a single guess.
type ResultType int

const (
	// NotApplicable means the input has the wrong shape for the active game
	// (e.g. plain chat during a number game) and should be silently ignored.
	NotApplicable ResultType = iota
	Correct
	TooLow
	TooHigh
	LetterHit
	LetterMiss
	AlreadyGuessed
	Expired
)

// Result describes what a guess did to the session.
type Result struct {
	Type   ResultType
	Reward int64  // credited amount, set on Correct
	Secret string // revealed secret, set on Correct and Expired

	// Word game display state after the guess.
	Hint         string
	WrongLetters []string
	Mistakes     int

	// Attempts left after the guess.
	Remaining int
}

// ExpiredSession is returned by Sweep for each timed-out session so the
// caller can announce the answer in the originating channel.
type ExpiredSession struct {
	ChannelID string
	Kind      Kind
	Secret    string
}

// View is a read-only snapshot of a session for display.
type View struct {
	ChannelID    string
	Kind         Kind
	StartedBy    string
	StartedAt    time.Time
	Hint         string
	WrongLetters []string
	Mistakes     int
	Remaining    int
}

// Ledger is the external balance-tracking capability. A credit failure does
// not undo a win; the manager logs it and keeps the game outcome.
type Ledger interface {
	Credit(ctx context.Context, userID string, amount int64, txType string, description string) error
}

// WordSource produces normalized lowercase secret words.
type WordSource interface {
	RandomWord(ctx context.Context) (string, error)
}

// Config holds the per-kind rewards, attempt counts and timeouts.
// Values are read once at manager construction.
type Config struct {
	NumberMin      int
	NumberMax      int
	NumberReward   int64
	NumberAttempts int
	NumberTimeout  time.Duration

	WordReward   int64
	WordAttempts int
	WordTimeout  time.Duration
}

// session is the in-memory state of one running game.
type session struct {
	channelID string
	kind      Kind
	startedBy string
	startedAt time.Time

	// number game
	secretNumber int

	// word game
	secretWord string
	revealed   map[rune]struct{}
	wrong      map[rune]struct{}

	remaining int
}

// timeout returns the inactivity timeout for the session's kind.
func (s *session) timeout(cfg Config) time.Duration {
	if s.kind == KindWord {
		return cfg.WordTimeout
	}
	return cfg.NumberTimeout
}

// expired reports whether the session has outlived its timeout.
func (s *session) expired(cfg Config, now time.Time) bool {
	return now.Sub(s.startedAt) > s.timeout(cfg)
}

// revealedAll reports whether every letter of the secret word is revealed.
func (s *session) revealedAll() bool {
	for _, r := range s.secretWord {
		if _, ok := s.revealed[r]; !ok {
			return false
		}
	}
	return true
}

// hint returns the masked word, e.g. "p______" for "planeta" with {p}.
func (s *session) hint() string {
	out := make([]rune, 0, len(s.secretWord))
	for _, r := range s.secretWord {
		if _, ok := s.revealed[r]; ok {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	return string(out)
}
