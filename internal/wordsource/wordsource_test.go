package wordsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain word", input: "planeta", want: "planeta"},
		{name: "uppercase", input: "PLANETA", want: "planeta"},
		{name: "accents stripped", input: "Montaña", want: "montana"},
		{name: "acute accents", input: "canción", want: "cancion"},
		{name: "surrounding space", input: "  sol  ", want: "sol"},
		{name: "umlaut", input: "pingüino", want: "pinguino"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestLocalSource_RandomWord(t *testing.T) {
	src := NewLocalSource([]string{"Montaña", "sol"})
	src.randn = func(n int) int { return 0 }

	word, err := src.RandomWord(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "montana", word)

	src.randn = func(n int) int { return 1 }
	word, err = src.RandomWord(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sol", word)
}

func TestLocalSource_DefaultList(t *testing.T) {
	src := NewLocalSource(nil)

	// Every draw from the default list must be a usable hangman secret.
	for i := 0; i < len(defaultWords); i++ {
		src.randn = func(n int) int { return i % n }
		word, err := src.RandomWord(context.Background())
		require.NoError(t, err)

		got, err := validate(word)
		require.NoError(t, err, "word %q", word)
		assert.Equal(t, word, got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "clean", input: "planeta", want: "planeta"},
		{name: "normalizes first", input: "Montaña", want: "montana"},
		{name: "empty", input: "", wantErr: true},
		{name: "digits", input: "abc123", wantErr: true},
		{name: "spaces inside", input: "dos palabras", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoWord)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFixed(t *testing.T) {
	word, err := Fixed("Planeta").RandomWord(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "planeta", word)

	_, err = Fixed("").RandomWord(context.Background())
	assert.ErrorIs(t, err, ErrNoWord)
}
