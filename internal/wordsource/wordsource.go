// Package wordsource provides secret words for the word-guessing game.
// Sources must return lowercase, diacritic-free tokens.
package wordsource

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNoWord is returned when a source cannot produce a word.
var ErrNoWord = errors.New("no word available")

// Source produces a random secret word.
type Source interface {
	RandomWord(ctx context.Context) (string, error)
}

var stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s and strips diacritics, e.g. "Montaña" -> "montana".
func Normalize(s string) string {
	out, _, err := transform.String(stripper, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// LocalSource draws from a fixed in-memory word list.
type LocalSource struct {
	words []string
	randn func(n int) int
}

// NewLocalSource creates a LocalSource over the given words.
// If words is empty the default list is used.
func NewLocalSource(words []string) *LocalSource {
	if len(words) == 0 {
		words = defaultWords
	}
	return &LocalSource{words: words, randn: rand.Intn}
}

// RandomWord returns a normalized random word from the list.
func (s *LocalSource) RandomWord(ctx context.Context) (string, error) {
	if len(s.words) == 0 {
		return "", ErrNoWord
	}
	return Normalize(s.words[s.randn(len(s.words))]), nil
}

// Fixed source for tests.
type fixedSource struct{ word string }

// Fixed returns a Source that always produces the given word.
func Fixed(word string) Source {
	return fixedSource{word: word}
}

func (s fixedSource) RandomWord(ctx context.Context) (string, error) {
	if s.word == "" {
		return "", ErrNoWord
	}
	return Normalize(s.word), nil
}

// validate rejects tokens that would not work as hangman secrets.
func validate(word string) (string, error) {
	word = Normalize(word)
	if word == "" {
		return "", ErrNoWord
	}
	for _, r := range word {
		if r < 'a' || r > 'z' {
			return "", fmt.Errorf("%w: token %q is not alphabetic", ErrNoWord, word)
		}
	}
	return word, nil
}
