package guess

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lbucks-bot/internal/wordsource"
)

// fakeLedger records credits and optionally fails them.
type fakeLedger struct {
	mu      sync.Mutex
	credits []fakeCredit
	err     error
}

type fakeCredit struct {
	userID string
	amount int64
	txType string
}

func (f *fakeLedger) Credit(ctx context.Context, userID string, amount int64, txType, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.credits = append(f.credits, fakeCredit{userID: userID, amount: amount, txType: txType})
	return nil
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.credits)
}

func testConfig() Config {
	return Config{
		NumberMin:      1,
		NumberMax:      100,
		NumberReward:   8,
		NumberAttempts: 25,
		NumberTimeout:  2 * time.Minute,
		WordReward:     12,
		WordAttempts:   6,
		WordTimeout:    7 * time.Minute,
	}
}

// newNumberManager returns a manager whose number game always draws secret.
func newNumberManager(ledger Ledger, secret int) *Manager {
	m := NewManager(testConfig(), ledger, wordsource.Fixed("planeta"))
	m.randn = func(n int) int { return secret - 1 }
	return m
}

func TestManager_StartRejectsDuplicate(t *testing.T) {
	ledger := &fakeLedger{}
	m := NewManager(testConfig(), ledger, wordsource.Fixed("planeta"))
	now := time.Now()

	_, err := m.Start(context.Background(), "chan1", KindWord, "user1", now)
	require.NoError(t, err)

	_, err = m.Start(context.Background(), "chan1", KindWord, "user2", now)
	assert.ErrorIs(t, err, ErrSessionExists)

	// A different kind in the same channel is fine.
	_, err = m.Start(context.Background(), "chan1", KindNumber, "user2", now)
	assert.NoError(t, err)

	// As is the same kind in a different channel.
	_, err = m.Start(context.Background(), "chan2", KindWord, "user2", now)
	assert.NoError(t, err)
}

func TestManager_StartWordSourceUnavailable(t *testing.T) {
	m := NewManager(testConfig(), &fakeLedger{}, wordsource.Fixed(""))

	_, err := m.Start(context.Background(), "chan1", KindWord, "user1", time.Now())
	assert.ErrorIs(t, err, ErrNoWordAvailable)

	// The failed start must not leave a session behind.
	assert.False(t, m.Active("chan1", KindWord))
}

// countingSource counts word fetches so tests can assert none were wasted.
type countingSource struct {
	calls int
	word  string
}

func (s *countingSource) RandomWord(ctx context.Context) (string, error) {
	s.calls++
	return s.word, nil
}

func TestManager_DuplicateStartSkipsWordFetch(t *testing.T) {
	words := &countingSource{word: "planeta"}
	m := NewManager(testConfig(), &fakeLedger{}, words)
	now := time.Now()

	_, err := m.Start(context.Background(), "chan1", KindWord, "user1", now)
	require.NoError(t, err)
	require.Equal(t, 1, words.calls)

	// A duplicate start is rejected without touching the word source.
	_, err = m.Start(context.Background(), "chan1", KindWord, "user2", now)
	assert.ErrorIs(t, err, ErrSessionExists)
	assert.Equal(t, 1, words.calls)
}

func TestManager_NumberRangeNormalized(t *testing.T) {
	cfg := testConfig()
	// Range configured upside down
	cfg.NumberMin, cfg.NumberMax = cfg.NumberMax, cfg.NumberMin
	m := NewManager(cfg, &fakeLedger{}, wordsource.Fixed("planeta"))

	var span int
	m.randn = func(n int) int {
		span = n
		return 0
	}

	_, err := m.Start(context.Background(), "chan1", KindNumber, "user1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 100, span)

	// The secret is drawn from the normalized range, lowest value here.
	res, err := m.Submit(context.Background(), "chan1", KindNumber, "user1", "1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, Correct, res.Type)
}

func TestManager_WordScenario(t *testing.T) {
	ledger := &fakeLedger{}
	m := NewManager(testConfig(), ledger, wordsource.Fixed("planeta"))
	ctx := context.Background()
	now := time.Now()

	view, err := m.Start(ctx, "chan1", KindWord, "starter", now)
	require.NoError(t, err)
	assert.Equal(t, "_______", view.Hint)
	assert.Equal(t, 6, view.Remaining)

	res, err := m.Submit(ctx, "chan1", KindWord, "alice", "p", now)
	require.NoError(t, err)
	assert.Equal(t, LetterHit, res.Type)
	assert.Equal(t, "p______", res.Hint)
	assert.Equal(t, 6, res.Remaining)

	res, err = m.Submit(ctx, "chan1", KindWord, "bob", "z", now)
	require.NoError(t, err)
	assert.Equal(t, LetterMiss, res.Type)
	assert.Equal(t, 5, res.Remaining)
	assert.Equal(t, []string{"z"}, res.WrongLetters)
	assert.Equal(t, 1, res.Mistakes)

	// Guessing the whole word wins regardless of the board state.
	res, err = m.Submit(ctx, "chan1", KindWord, "alice", "Planeta", now)
	require.NoError(t, err)
	assert.Equal(t, Correct, res.Type)
	assert.Equal(t, int64(12), res.Reward)
	assert.Equal(t, "planeta", res.Secret)

	require.Equal(t, 1, ledger.count())
	assert.Equal(t, "alice", ledger.credits[0].userID)
	assert.Equal(t, int64(12), ledger.credits[0].amount)

	_, err = m.Submit(ctx, "chan1", KindWord, "alice", "a", now)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestManager_WordLetterWinRevealsAll(t *testing.T) {
	ledger := &fakeLedger{}
	m := NewManager(testConfig(), ledger, wordsource.Fixed("sol"))
	ctx := context.Background()
	now := time.Now()

	_, err := m.Start(ctx, "chan1", KindWord, "starter", now)
	require.NoError(t, err)

	for _, letter := range []string{"s", "o"} {
		res, err := m.Submit(ctx, "chan1", KindWord, "alice", letter, now)
		require.NoError(t, err)
		assert.Equal(t, LetterHit, res.Type)
	}

	res, err := m.Submit(ctx, "chan1", KindWord, "alice", "l", now)
	require.NoError(t, err)
	assert.Equal(t, Correct, res.Type)
	assert.Equal(t, "sol", res.Hint)
	assert.Equal(t, 1, ledger.count())
}

func TestManager_WordDiacriticsNormalized(t *testing.T) {
	m := NewManager(testConfig(), &fakeLedger{}, wordsource.Fixed("montaña"))
	ctx := context.Background()
	now := time.Now()

	_, err := m.Start(ctx, "chan1", KindWord, "starter", now)
	require.NoError(t, err)

	// The source normalizes the secret, so "montana" is the winning word.
	res, err := m.Submit(ctx, "chan1", KindWord, "alice", "MONTANA", now)
	require.NoError(t, err)
	assert.Equal(t, Correct, res.Type)
	assert.Equal(t, "montana", res.Secret)
}

func TestManager_WordAlreadyGuessedIsIdempotent(t *testing.T) {
	m := NewManager(testConfig(), &fakeLedger{}, wordsource.Fixed("planeta"))
	ctx := context.Background()
	now := time.Now()

	_, err := m.Start(ctx, "chan1", KindWord, "starter", now)
	require.NoError(t, err)

	res, err := m.Submit(ctx, "chan1", KindWord, "alice", "p", now)
	require.NoError(t, err)
	require.Equal(t, LetterHit, res.Type)

	// Repeating a correct letter changes nothing.
	res, err = m.Submit(ctx, "chan1", KindWord, "bob", "p", now)
	require.NoError(t, err)
	assert.Equal(t, AlreadyGuessed, res.Type)
	assert.Equal(t, "p______", res.Hint)
	assert.Equal(t, 6, res.Remaining)

	// Repeating a wrong letter does not burn another attempt.
	res, err = m.Submit(ctx, "chan1", KindWord, "alice", "z", now)
	require.NoError(t, err)
	require.Equal(t, LetterMiss, res.Type)
	require.Equal(t, 5, res.Remaining)

	res, err = m.Submit(ctx, "chan1", KindWord, "bob", "z", now)
	require.NoError(t, err)
	assert.Equal(t, AlreadyGuessed, res.Type)
	assert.Equal(t, 5, res.Remaining)
}

func TestManager_WordAttemptsExhausted(t *testing.T) {
	cfg := testConfig()
	cfg.WordAttempts = 2
	ledger := &fakeLedger{}
	m := NewManager(cfg, ledger, wordsource.Fixed("planeta"))
	ctx := context.Background()
	now := time.Now()

	_, err := m.Start(ctx, "chan1", KindWord, "starter", now)
	require.NoError(t, err)

	res, err := m.Submit(ctx, "chan1", KindWord, "alice", "x", now)
	require.NoError(t, err)
	assert.Equal(t, LetterMiss, res.Type)
	assert.Equal(t, 1, res.Remaining)

	res, err = m.Submit(ctx, "chan1", KindWord, "alice", "y", now)
	require.NoError(t, err)
	assert.Equal(t, Expired, res.Type)
	assert.Equal(t, "planeta", res.Secret)
	assert.Equal(t, 0, ledger.count())

	_, err = m.Submit(ctx, "chan1", KindWord, "alice", "a", now)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestManager_WordIgnoresChatter(t *testing.T) {
	m := NewManager(testConfig(), &fakeLedger{}, wordsource.Fixed("planeta"))
	ctx := context.Background()
	now := time.Now()

	_, err := m.Start(ctx, "chan1", KindWord, "starter", now)
	require.NoError(t, err)

	for _, input := range []string{"hola a todos", "jaja", "123", "!!", ""} {
		res, err := m.Submit(ctx, "chan1", KindWord, "alice", input, now)
		require.NoError(t, err)
		assert.Equal(t, NotApplicable, res.Type, "input %q", input)
	}
	assert.True(t, m.Active("chan1", KindWord))
}

func TestManager_NumberScenario(t *testing.T) {
	ledger := &fakeLedger{}
	m := newNumberManager(ledger, 50)
	ctx := context.Background()
	now := time.Now()

	_, err := m.Start(ctx, "chan1", KindNumber, "starter", now)
	require.NoError(t, err)

	res, err := m.Submit(ctx, "chan1", KindNumber, "alice", "30", now)
	require.NoError(t, err)
	assert.Equal(t, TooLow, res.Type)

	res, err = m.Submit(ctx, "chan1", KindNumber, "bob", "70", now)
	require.NoError(t, err)
	assert.Equal(t, TooHigh, res.Type)

	res, err = m.Submit(ctx, "chan1", KindNumber, "alice", "50", now)
	require.NoError(t, err)
	assert.Equal(t, Correct, res.Type)
	assert.Equal(t, int64(8), res.Reward)
	assert.Equal(t, "50", res.Secret)

	require.Equal(t, 1, ledger.count())
	assert.Equal(t, "alice", ledger.credits[0].userID)

	_, err = m.Submit(ctx, "chan1", KindNumber, "bob", "50", now)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestManager_NumberIgnoresNonIntegers(t *testing.T) {
	m := newNumberManager(&fakeLedger{}, 42)
	ctx := context.Background()
	now := time.Now()

	_, err := m.Start(ctx, "chan1", KindNumber, "starter", now)
	require.NoError(t, err)

	res, err := m.Submit(ctx, "chan1", KindNumber, "alice", "not a number", now)
	require.NoError(t, err)
	assert.Equal(t, NotApplicable, res.Type)
	assert.True(t, m.Active("chan1", KindNumber))
}

func TestManager_ExpiryOnGuess(t *testing.T) {
	ledger := &fakeLedger{}
	m := newNumberManager(ledger, 50)
	ctx := context.Background()
	start := time.Now()

	_, err := m.Start(ctx, "chan1", KindNumber, "starter", start)
	require.NoError(t, err)

	// A correct guess after the timeout does not pay out.
	res, err := m.Submit(ctx, "chan1", KindNumber, "alice", "50", start.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, Expired, res.Type)
	assert.Equal(t, "50", res.Secret)
	assert.Equal(t, 0, ledger.count())

	_, err = m.Submit(ctx, "chan1", KindNumber, "alice", "50", start.Add(3*time.Minute))
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestManager_Sweep(t *testing.T) {
	ledger := &fakeLedger{}
	m := NewManager(testConfig(), ledger, wordsource.Fixed("planeta"))
	m.randn = func(n int) int { return 49 }
	ctx := context.Background()
	start := time.Now()

	_, err := m.Start(ctx, "chan1", KindNumber, "starter", start)
	require.NoError(t, err)
	_, err = m.Start(ctx, "chan2", KindWord, "starter", start)
	require.NoError(t, err)

	// Nothing is due yet.
	assert.Empty(t, m.Sweep(start.Add(time.Minute)))

	// The number game times out first (2m vs 7m).
	expired := m.Sweep(start.Add(3 * time.Minute))
	require.Len(t, expired, 1)
	assert.Equal(t, "chan1", expired[0].ChannelID)
	assert.Equal(t, KindNumber, expired[0].Kind)
	assert.Equal(t, "50", expired[0].Secret)

	_, err = m.Submit(ctx, "chan1", KindNumber, "alice", "50", start.Add(3*time.Minute))
	assert.ErrorIs(t, err, ErrNoActiveSession)

	expired = m.Sweep(start.Add(8 * time.Minute))
	require.Len(t, expired, 1)
	assert.Equal(t, "chan2", expired[0].ChannelID)
	assert.Equal(t, KindWord, expired[0].Kind)
	assert.Equal(t, "planeta", expired[0].Secret)

	assert.Empty(t, m.Sweep(start.Add(time.Hour)))
}

func TestManager_NoDoubleReward(t *testing.T) {
	ledger := &fakeLedger{}
	m := newNumberManager(ledger, 50)
	ctx := context.Background()
	now := time.Now()

	_, err := m.Start(ctx, "chan1", KindNumber, "starter", now)
	require.NoError(t, err)

	const guessers = 32
	var wg sync.WaitGroup
	var correct, noSession int
	var mu sync.Mutex

	wg.Add(guessers)
	for i := 0; i < guessers; i++ {
		go func() {
			defer wg.Done()
			res, err := m.Submit(ctx, "chan1", KindNumber, "racer", "50", now)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrNoActiveSession):
				noSession++
			case err == nil && res.Type == Correct:
				correct++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, correct, "exactly one guess wins")
	assert.Equal(t, guessers-1, noSession, "all others see no session")
	assert.Equal(t, 1, ledger.count(), "ledger credited exactly once")
}

func TestManager_LedgerFailureStillWins(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("ledger down")}
	m := newNumberManager(ledger, 50)
	ctx := context.Background()
	now := time.Now()

	_, err := m.Start(ctx, "chan1", KindNumber, "starter", now)
	require.NoError(t, err)

	// The game outcome is independent of payment plumbing.
	res, err := m.Submit(ctx, "chan1", KindNumber, "alice", "50", now)
	require.NoError(t, err)
	assert.Equal(t, Correct, res.Type)

	// And the session is gone, so the win cannot be re-settled.
	_, err = m.Submit(ctx, "chan1", KindNumber, "alice", "50", now)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}
