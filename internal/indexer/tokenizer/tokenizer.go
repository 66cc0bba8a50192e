// Package tokenizer splits documents into indexable words. A word is a
// maximal run of ASCII letters; runs shorter than the minimum length are
// skipped and the rest are lower-cased and tagged with the byte offset where
// they start.
package tokenizer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// DefaultMinWordLength is the shortest run that gets indexed.
const DefaultMinWordLength = 4

// Token represents a single normalised term and the byte offset of its first
// letter in the original text.
type Token struct {
	Term   string
	Offset int64
}

// Tokenize breaks text into lower-cased Tokens of at least minLen letters.
func Tokenize(text string, minLen int) []Token {
	tokens := make([]Token, 0, len(text)/8)
	start := -1
	for i := 0; i <= len(text); i++ {
		if i < len(text) && isLetter(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= minLen {
			tokens = append(tokens, Token{
				Term:   lower([]byte(text[start:i])),
				Offset: int64(start),
			})
		}
		start = -1
	}
	return tokens
}

// Scan reads r to the end and calls fn for every token, in order. A token
// that runs into end of input is still reported. Scan stops at the first
// error returned by fn.
func Scan(r io.Reader, minLen int, fn func(Token) error) error {
	br := bufio.NewReader(r)
	var (
		word   []byte
		offset int64
		start  int64 = -1
	)
	flush := func() error {
		defer func() {
			word = word[:0]
			start = -1
		}()
		if start < 0 || len(word) < minLen {
			return nil
		}
		return fn(Token{Term: lower(word), Offset: start})
	}
	for {
		c, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return flush()
		}
		if err != nil {
			return fmt.Errorf("reading at offset %d: %w", offset, err)
		}
		if isLetter(c) {
			if start < 0 {
				start = offset
			}
			word = append(word, c)
		} else if err := flush(); err != nil {
			return err
		}
		offset++
	}
}

// Normalize lower-cases a query term the way indexed words are.
func Normalize(term string) string {
	return lower([]byte(term))
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func lower(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
