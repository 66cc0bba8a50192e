package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/errors"
)

func docIDs(l *OccurrenceList) []int {
	ids := make([]int, 0, l.DocumentCount())
	for _, occ := range l.Occurrences() {
		ids = append(ids, occ.DocID)
	}
	return ids
}

func TestAddAppendsPerDocument(t *testing.T) {
	l := NewOccurrenceList()
	require.NoError(t, l.Add(0, 4))
	require.NoError(t, l.Add(0, 19))
	require.NoError(t, l.Add(1, 7))

	assert.Equal(t, 2, l.DocumentCount())
	assert.Equal(t, 2, l.PositionCount(0))
	assert.Equal(t, 1, l.PositionCount(1))
	assert.Equal(t, 0, l.PositionCount(2))

	occ, ok := l.Find(0)
	require.True(t, ok)
	assert.Equal(t, []int64{4, 19}, occ.Positions.Values())
}

func TestAddOutOfOrderKeepsDocumentsSorted(t *testing.T) {
	l := NewOccurrenceList()
	require.NoError(t, l.Add(3, 1))
	require.NoError(t, l.Add(1, 2))
	require.NoError(t, l.Add(2, 3))
	require.NoError(t, l.Add(1, 9))

	assert.Equal(t, []int{1, 2, 3}, docIDs(l))
	assert.Equal(t, 2, l.PositionCount(1))
}

func TestAddRejectsNegativeValues(t *testing.T) {
	l := NewOccurrenceList()

	require.ErrorIs(t, l.Add(-1, 0), apperrors.ErrInvalidInput)
	require.ErrorIs(t, l.Add(0, -5), apperrors.ErrInvalidInput)
	assert.Equal(t, 0, l.DocumentCount())
}

func TestFindMissing(t *testing.T) {
	l := NewOccurrenceList()
	require.NoError(t, l.Add(2, 10))

	_, ok := l.Find(1)
	assert.False(t, ok)
	_, ok = l.Find(5)
	assert.False(t, ok)
}

func TestMerge(t *testing.T) {
	dst := NewOccurrenceList()
	require.NoError(t, dst.Add(0, 1))
	require.NoError(t, dst.Add(2, 5))

	src := NewOccurrenceList()
	require.NoError(t, src.Add(1, 3))
	require.NoError(t, src.Add(2, 8))

	dst.Merge(src)

	assert.Equal(t, []int{0, 1, 2}, docIDs(dst))
	occ, ok := dst.Find(2)
	require.True(t, ok)
	assert.Equal(t, []int64{5, 8}, occ.Positions.Values())
	assert.Equal(t, 0, src.DocumentCount())
}

func TestRemoveDocument(t *testing.T) {
	l := NewOccurrenceList()
	require.NoError(t, l.Add(0, 4))
	require.NoError(t, l.Add(2, 8))
	require.NoError(t, l.Add(2, 30))

	assert.True(t, l.RemoveDocument(2))
	assert.False(t, l.RemoveDocument(2))
	assert.False(t, l.RemoveDocument(1))
	assert.Equal(t, 1, l.DocumentCount())
	assert.Equal(t, 0, l.PositionCount(2))
	assert.Equal(t, 1, l.PositionCount(0))
}
