package document

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/errors"
)

func writeDoc(t *testing.T, content string) *Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	d, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.txt"))
	require.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
}

func TestOpenDirectory(t *testing.T) {
	_, err := Open(t.TempDir())
	require.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
}

func TestLineForOffset(t *testing.T) {
	// line 1: 0-5, line 2: 6-12, line 3: 13-18
	d := writeDoc(t, "first\nsecond\nthird\n")

	tests := []struct {
		offset int64
		want   int
	}{
		{0, 1},
		{5, 1},
		{6, 2},
		{12, 2},
		{13, 3},
		{18, 3},
		{19, 3},
	}
	for _, tt := range tests {
		got, err := d.LineForOffset(tt.offset)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "offset %d", tt.offset)
	}

	_, err := d.LineForOffset(20)
	require.ErrorIs(t, err, apperrors.ErrOffsetOutOfBounds)
	_, err = d.LineForOffset(-1)
	require.ErrorIs(t, err, apperrors.ErrOffsetOutOfBounds)

	n, err := d.LineCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestLines(t *testing.T) {
	d := writeDoc(t, "uno\r\ndos\ntres\ncuatro")

	lines, err := d.Lines(2, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"dos", "tres"}, lines)

	lines, err = d.Lines(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"uno"}, lines)

	lines, err = d.Lines(3, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"tres", "cuatro"}, lines)
}

func TestLinesInvalidRange(t *testing.T) {
	d := writeDoc(t, "one\ntwo\n")

	_, err := d.Lines(2, 1)
	require.ErrorIs(t, err, apperrors.ErrInvalidLineRange)
	_, err = d.Lines(0, 1)
	require.ErrorIs(t, err, apperrors.ErrInvalidLineRange)
	_, err = d.Lines(5, 6)
	require.ErrorIs(t, err, apperrors.ErrInvalidLineRange)
}

func TestPrintLines(t *testing.T) {
	d := writeDoc(t, "alpha\nbeta\ngamma\n")

	var buf bytes.Buffer
	require.NoError(t, d.PrintLines(&buf, 2, 3))
	assert.Equal(t, "beta\ngamma\n", buf.String())

	buf.Reset()
	require.Error(t, d.PrintLines(&buf, 3, 2))
	assert.Empty(t, buf.String())
}

func TestReaderIsIndependent(t *testing.T) {
	d := writeDoc(t, "abcdef")

	first, err := io.ReadAll(d.Reader())
	require.NoError(t, err)
	second, err := io.ReadAll(d.Reader())
	require.NoError(t, err)

	assert.Equal(t, "abcdef", string(first))
	assert.Equal(t, first, second)
	assert.Equal(t, int64(6), d.Size())
}
