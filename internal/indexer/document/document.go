// Package document gives the index read access to the files it has loaded:
// streaming their bytes for tokenization, mapping a byte offset to its line
// and reading ranges of lines back for display.
package document

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/errors"
)

// Document is an open file. All reads go through ReadAt, so a Document has no
// shared file cursor.
type Document struct {
	name string
	file *os.File
	size int64

	linesOnce  sync.Once
	lineStarts []int64
	linesErr   error
}

// Open opens name for reading. A missing file yields ErrDocumentNotFound.
func Open(name string) (*Document, error) {
	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("opening %s: %w", name, apperrors.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("opening %s: is a directory: %w", name, apperrors.ErrDocumentNotFound)
	}
	return &Document{
		name: name,
		file: f,
		size: info.Size(),
	}, nil
}

func (d *Document) Name() string {
	return d.name
}

// Size returns the document length in bytes.
func (d *Document) Size() int64 {
	return d.size
}

// Reader returns a fresh reader over the whole document.
func (d *Document) Reader() io.Reader {
	return io.NewSectionReader(d.file, 0, d.size)
}

// LineForOffset returns the 1-based line containing byte offset.
func (d *Document) LineForOffset(offset int64) (int, error) {
	if offset < 0 || offset > d.size {
		return 0, fmt.Errorf("offset %d in %s (size %d): %w", offset, d.name, d.size, apperrors.ErrOffsetOutOfBounds)
	}
	starts, err := d.lines()
	if err != nil {
		return 0, err
	}
	// number of lines starting at or before offset
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset }), nil
}

// LineCount returns the number of lines. A trailing newline does not start a
// new line.
func (d *Document) LineCount() (int, error) {
	starts, err := d.lines()
	if err != nil {
		return 0, err
	}
	return len(starts), nil
}

// Lines returns the text of lines first through last, inclusive, without
// their line terminators. last is clamped to the final line.
func (d *Document) Lines(first, last int) ([]string, error) {
	if first < 1 || last < first {
		return nil, fmt.Errorf("lines %d-%d: %w", first, last, apperrors.ErrInvalidLineRange)
	}
	starts, err := d.lines()
	if err != nil {
		return nil, err
	}
	if first > len(starts) {
		return nil, fmt.Errorf("lines %d-%d of %d: %w", first, last, len(starts), apperrors.ErrInvalidLineRange)
	}
	last = min(last, len(starts))

	from := starts[first-1]
	to := d.size
	if last < len(starts) {
		to = starts[last]
	}
	buf := make([]byte, to-from)
	if _, err := d.file.ReadAt(buf, from); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading lines %d-%d of %s: %w", first, last, d.name, err)
	}

	text := strings.TrimSuffix(string(buf), "\n")
	out := strings.Split(text, "\n")
	for i, line := range out {
		out[i] = strings.TrimSuffix(line, "\r")
	}
	return out, nil
}

// PrintLines writes lines first through last to w, one per line.
func (d *Document) PrintLines(w io.Writer, first, last int) error {
	lines, err := d.Lines(first, last)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (d *Document) Close() error {
	return d.file.Close()
}

// lines builds the table of line start offsets on first use.
func (d *Document) lines() ([]int64, error) {
	d.linesOnce.Do(func() {
		starts := []int64{0}
		br := bufio.NewReader(d.Reader())
		var pos int64
		for {
			c, err := br.ReadByte()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				d.linesErr = fmt.Errorf("indexing lines of %s: %w", d.name, err)
				return
			}
			pos++
			if c == '\n' && pos < d.size {
				starts = append(starts, pos)
			}
		}
		d.lineStarts = starts
	})
	return d.lineStarts, d.linesErr
}
