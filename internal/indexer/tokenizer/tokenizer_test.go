package tokenizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeSkipsShortWords(t *testing.T) {
	tokens := Tokenize("The Quijote of Don Quijote", DefaultMinWordLength)

	assert.Equal(t, []Token{
		{Term: "quijote", Offset: 4},
		{Term: "quijote", Offset: 19},
	}, tokens)
}

func TestTokenizeSplitsOnNonLetters(t *testing.T) {
	tokens := Tokenize("hello,world42abcd\nsecond-line_word", 4)

	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		terms = append(terms, tok.Term)
	}
	assert.Equal(t, []string{"hello", "world", "abcd", "second", "line", "word"}, terms)
	assert.Equal(t, int64(6), tokens[1].Offset)
	assert.Equal(t, int64(13), tokens[2].Offset)
}

func TestTokenizeNonASCII(t *testing.T) {
	// multi-byte letters are separators, so "señor" yields nothing of length 4
	tokens := Tokenize("señor caballero", 4)

	require.Len(t, tokens, 1)
	assert.Equal(t, Token{Term: "caballero", Offset: 6}, tokens[0])
}

func TestScanMatchesTokenize(t *testing.T) {
	text := "alpha beta gamma alpha delta"

	var scanned []Token
	err := Scan(strings.NewReader(text), 4, func(tok Token) error {
		scanned = append(scanned, tok)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, Tokenize(text, 4), scanned)
	// the trailing word is reported even without a separator after it
	assert.Equal(t, Token{Term: "delta", Offset: 23}, scanned[len(scanned)-1])
}

func TestScanStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := Scan(strings.NewReader("first second third"), 4, func(Token) error {
		calls++
		return stop
	})

	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "quijote", Normalize("QuiJOTE"))
}
