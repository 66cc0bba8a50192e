// Package console runs the interactive query loop: it reads comma-separated
// terms from the user, runs them and prints each matching line range.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/searcher/parser"
	apperrors "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/errors"
)

const (
	prompt = "search> "
	help   = `Enter one or more words separated by commas, for example: windmill, giant
Every word must appear within a short span of text for a document to match.
Commands:
  :docs        list the loaded documents
  :occ <word>  show every line where a word occurs
  :stats       show index and cache counters
  :flush       drop cached results
  :help        show this message
  exit()       quit
`
)

// Searcher is satisfied by *executor.Executor.
type Searcher interface {
	Execute(ctx context.Context, rawQuery string) (*executor.SearchResult, error)
	Occurrences(ctx context.Context, word string) ([]executor.WordOccurrences, error)
	Documents() []string
	Stats() executor.Stats
	FlushCache(ctx context.Context) error
}

type Console struct {
	searcher Searcher
	logger   *slog.Logger
}

func New(searcher Searcher) *Console {
	return &Console{
		searcher: searcher,
		logger:   slog.Default().With("component", "console"),
	}
}

// Run reads queries from in until exit(), end of input or cancellation of
// ctx. Query failures are reported to out and do not end the loop.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	defer w.Flush()

	fmt.Fprintf(w, "%d document(s) loaded. Type :help for usage.\n", len(c.searcher.Documents()))
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.WriteString(prompt)
		if err := w.Flush(); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			w.WriteString("\n")
			return nil
		}
		line := scanner.Text()

		if cmd, arg, ok := parser.Command(line); ok {
			if cmd == parser.CommandExit {
				w.WriteString("bye\n")
				return nil
			}
			if err := c.runCommand(ctx, w, cmd, arg); err != nil {
				c.logger.Debug("command failed", "command", cmd, "error", err)
				fmt.Fprintf(w, "error: %s\n", apperrors.UserMessage(err))
			}
			continue
		}

		res, err := c.searcher.Execute(ctx, line)
		if err != nil {
			c.logger.Debug("query failed", "query", line, "error", err)
			fmt.Fprintf(w, "error: %s\n", apperrors.UserMessage(err))
			continue
		}
		render(w, res)
	}
}

func (c *Console) runCommand(ctx context.Context, w io.Writer, cmd, arg string) error {
	switch cmd {
	case parser.CommandDocs:
		c.listDocuments(w)
	case parser.CommandOcc:
		occ, err := c.searcher.Occurrences(ctx, arg)
		if err != nil {
			return err
		}
		renderOccurrences(w, arg, occ)
	case parser.CommandStats:
		st := c.searcher.Stats()
		fmt.Fprintf(w, "documents: %d\nindexed words: %d\nindexed tokens: %d\n", len(st.Documents), st.Words, st.Tokens)
		if st.CacheEnabled {
			fmt.Fprintf(w, "cache hits: %d\ncache misses: %d\n", st.CacheHits, st.CacheMisses)
		} else {
			fmt.Fprintln(w, "cache: disabled")
		}
	case parser.CommandFlush:
		if err := c.searcher.FlushCache(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "cache flushed")
	case parser.CommandHelp:
		io.WriteString(w, help)
	}
	return nil
}

func (c *Console) listDocuments(w io.Writer) {
	docs := c.searcher.Documents()
	if len(docs) == 0 {
		fmt.Fprintln(w, "no documents loaded")
		return
	}
	for id, name := range docs {
		fmt.Fprintf(w, "[%d] %s\n", id, name)
	}
}

func render(w io.Writer, res *executor.SearchResult) {
	for _, term := range res.Unindexable {
		fmt.Fprintf(w, "note: %q is never indexed\n", term)
	}
	if len(res.Matches) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}
	fmt.Fprintf(w, "%d result(s):\n", len(res.Matches))
	for _, m := range res.Matches {
		fmt.Fprintf(w, "\nDocument %d (%s): lines %d-%d\n", m.DocID, m.Document, m.FirstLine, m.LastLine)
		for _, line := range m.Lines {
			fmt.Fprintln(w, line)
		}
		if m.Truncated {
			fmt.Fprintln(w, "...")
		}
	}
	fmt.Fprintln(w)
}

func renderOccurrences(w io.Writer, word string, occ []executor.WordOccurrences) {
	if len(occ) == 0 {
		fmt.Fprintf(w, "%q is not indexed\n", word)
		return
	}
	for _, o := range occ {
		fmt.Fprintf(w, "Document %d (%s): %d occurrence(s)\n", o.DocID, o.Document, o.Count)
		for _, l := range o.Lines {
			fmt.Fprintf(w, "  line %d: %s\n", l.Line, l.Text)
		}
		if o.Count > len(o.Lines) {
			fmt.Fprintln(w, "  ...")
		}
	}
}
