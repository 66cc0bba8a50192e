package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		terms       []string
		unindexable []string
	}{
		{"single", "quijote", []string{"quijote"}, nil},
		{"trims spaces", "  don , Quijote ", []string{"don", "quijote"}, []string{"don"}},
		{"skips empty parts", "sancho,,panza,", []string{"sancho", "panza"}, nil},
		{"collapses duplicates", "Sancho, sancho", []string{"sancho"}, nil},
		{"flags non letters", "rocinante, mancha2", []string{"rocinante", "mancha2"}, []string{"mancha2"}},
		{"inner spaces kept", "don quijote", []string{"don quijote"}, []string{"don quijote"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Parse(tt.query, 4)
			require.NoError(t, err)
			assert.Equal(t, tt.terms, plan.Terms)
			assert.Equal(t, tt.unindexable, plan.Unindexable)
			assert.Equal(t, tt.query, plan.RawQuery)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, q := range []string{"", "   ", ",, ,"} {
		_, err := Parse(q, 4)
		require.ErrorIs(t, err, apperrors.ErrInvalidInput, "query %q", q)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		line string
		name string
		arg  string
		ok   bool
	}{
		{" exit() ", CommandExit, "", true},
		{"EXIT", CommandExit, "", true},
		{":docs", CommandDocs, "", true},
		{":stats", CommandStats, "", true},
		{":flush", CommandFlush, "", true},
		{":occ  Quijote ", CommandOcc, "Quijote", true},
		{":occ", CommandOcc, "", true},
		{"exit(), quijote", "", "", false},
		{"exit() now", "", "", false},
		{"quijote", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		name, arg, ok := Command(tt.line)
		assert.Equal(t, tt.ok, ok, "line %q", tt.line)
		assert.Equal(t, tt.name, name, "line %q", tt.line)
		assert.Equal(t, tt.arg, arg, "line %q", tt.line)
	}
}

func TestStringIsCanonical(t *testing.T) {
	a, err := Parse("Sancho, panza", 4)
	require.NoError(t, err)
	b, err := Parse("sancho,PANZA ", 4)
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}
