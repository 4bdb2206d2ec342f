package wordsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPSource fetches a random word from a remote endpoint.
// The endpoint is expected to return a JSON array of words.
type HTTPSource struct {
	url      string
	client   *http.Client
	fallback Source
}

// NewHTTPSource creates an HTTPSource for the given URL. When the remote
// lookup fails, fallback (if non-nil) is consulted before giving up.
func NewHTTPSource(url string, fallback Source) *HTTPSource {
	return &HTTPSource{
		url:      url,
		client:   &http.Client{Timeout: 5 * time.Second},
		fallback: fallback,
	}
}

// RandomWord fetches a word from the remote endpoint.
func (s *HTTPSource) RandomWord(ctx context.Context) (string, error) {
	word, err := s.fetch(ctx)
	if err == nil {
		return word, nil
	}

	log.Warn().Err(err).Str("url", s.url).Msg("Remote word lookup failed")
	if s.fallback != nil {
		return s.fallback.RandomWord(ctx)
	}
	return "", err
}

func (s *HTTPSource) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build word request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("word request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: word endpoint returned %d", ErrNoWord, resp.StatusCode)
	}

	var words []string
	if err := json.NewDecoder(resp.Body).Decode(&words); err != nil {
		return "", fmt.Errorf("failed to decode word response: %w", err)
	}
	if len(words) == 0 {
		return "", ErrNoWord
	}

	return validate(words[0])
}
