// Package index holds the per-word occurrence records of the inverted index:
// for one word, the documents it appears in and the byte offsets of every
// appearance inside each of them.
package index

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer/dynarray"
	apperrors "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/errors"
)

const initialPositionsCapacity = 11

// Occurrence is the list of byte offsets where a word starts in one document.
type Occurrence struct {
	DocID     int
	Positions *dynarray.Array[int64]
}

func newOccurrence(docID int) *Occurrence {
	return &Occurrence{
		DocID:     docID,
		Positions: dynarray.MustNew[int64](initialPositionsCapacity),
	}
}

// OccurrenceList keeps one Occurrence per document, ordered by document id.
// Documents are indexed one after another with increasing ids, so the common
// case appends to the last entry.
type OccurrenceList struct {
	occurrences []*Occurrence
}

func NewOccurrenceList() *OccurrenceList {
	return &OccurrenceList{}
}

// Add records that the word starts at position in document docID.
func (l *OccurrenceList) Add(docID int, position int64) error {
	if docID < 0 || position < 0 {
		return fmt.Errorf("adding doc %d position %d: %w", docID, position, apperrors.ErrInvalidInput)
	}
	if n := len(l.occurrences); n > 0 && l.occurrences[n-1].DocID == docID {
		l.occurrences[n-1].Positions.Add(position)
		return nil
	}
	i, found := l.search(docID)
	if !found {
		l.occurrences = slices.Insert(l.occurrences, i, newOccurrence(docID))
	}
	l.occurrences[i].Positions.Add(position)
	return nil
}

// Find returns the occurrence for docID.
func (l *OccurrenceList) Find(docID int) (*Occurrence, bool) {
	i, found := l.search(docID)
	if !found {
		return nil, false
	}
	return l.occurrences[i], true
}

// DocumentCount returns the number of documents containing the word.
func (l *OccurrenceList) DocumentCount() int {
	return len(l.occurrences)
}

// PositionCount returns how often the word appears in docID.
func (l *OccurrenceList) PositionCount(docID int) int {
	occ, ok := l.Find(docID)
	if !ok {
		return 0
	}
	return occ.Positions.Len()
}

// Occurrences returns the entries in document order. The slice must not be
// modified.
func (l *OccurrenceList) Occurrences() []*Occurrence {
	return l.occurrences
}

// Merge moves every occurrence of src into l. Positions of documents present
// in both are appended to l's entry. src is empty afterwards.
func (l *OccurrenceList) Merge(src *OccurrenceList) {
	for _, occ := range src.occurrences {
		i, found := l.search(occ.DocID)
		if !found {
			l.occurrences = slices.Insert(l.occurrences, i, occ)
			continue
		}
		l.occurrences[i].Positions.AddAll(occ.Positions)
	}
	src.occurrences = nil
}

// RemoveDocument drops the occurrence of docID and reports whether there was
// one.
func (l *OccurrenceList) RemoveDocument(docID int) bool {
	i, found := l.search(docID)
	if !found {
		return false
	}
	l.occurrences = slices.Delete(l.occurrences, i, i+1)
	return true
}

func (l *OccurrenceList) search(docID int) (int, bool) {
	return slices.BinarySearchFunc(l.occurrences, docID, func(o *Occurrence, id int) int {
		return cmp.Compare(o.DocID, id)
	})
}
