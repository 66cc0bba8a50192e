// Package parser turns a console input line into a query plan. Terms are
// separated by commas; surrounding spaces are trimmed and terms are
// lower-cased to match how words are indexed.
package parser

import (
	"fmt"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/errors"
)

// Commands recognised by the console instead of a query.
const (
	CommandExit  = "exit()"
	CommandDocs  = ":docs"
	CommandOcc   = ":occ"
	CommandStats = ":stats"
	CommandFlush = ":flush"
	CommandHelp  = ":help"
)

type QueryPlan struct {
	Terms    []string
	RawQuery string
	// Unindexable lists terms that can never match, for example because
	// they are shorter than the minimum word length or contain characters
	// other than ASCII letters.
	Unindexable []string
}

// Parse splits query on commas. It fails with ErrInvalidInput when no term
// remains after trimming. minWordLength is used to flag unindexable terms.
func Parse(query string, minWordLength int) (*QueryPlan, error) {
	plan := &QueryPlan{
		Terms:    make([]string, 0),
		RawQuery: query,
	}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(query, ",") {
		term := strings.TrimSpace(part)
		if term == "" {
			continue
		}
		term = tokenizer.Normalize(term)
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		plan.Terms = append(plan.Terms, term)
		if !indexable(term, minWordLength) {
			plan.Unindexable = append(plan.Unindexable, term)
		}
	}
	if len(plan.Terms) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "enter one or more words separated by commas")
	}
	return plan, nil
}

// Command reports whether line is a console command rather than a query.
// arg is the trimmed text after the command name, used by :occ.
func Command(line string) (name, arg string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", "", false
	}
	name = strings.ToLower(fields[0])
	arg = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	switch name {
	case CommandExit, "exit":
		if arg != "" {
			return "", "", false
		}
		return CommandExit, "", true
	case CommandDocs, CommandStats, CommandFlush, CommandHelp:
		return name, "", true
	case CommandOcc:
		return name, arg, true
	default:
		return "", "", false
	}
}

// String renders the plan in a canonical form, used as a cache key.
func (p *QueryPlan) String() string {
	return fmt.Sprintf("AND|%s", strings.Join(p.Terms, ","))
}

// indexable reports whether the tokenizer would index term as a single word.
func indexable(term string, minWordLength int) bool {
	tokens := tokenizer.Tokenize(term, minWordLength)
	return len(tokens) == 1 && tokens[0].Term == term
}
