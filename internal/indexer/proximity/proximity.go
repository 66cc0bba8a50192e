// Package proximity finds places where several query terms occur close
// together. Each term contributes a stream of byte offsets; the streams are
// merged into one sorted sequence and a sliding window looks for the
// shortest span that covers every term without exceeding a maximum width.
package proximity

import (
	"cmp"

	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer/dynarray"
)

// Position is one occurrence of query term number Term at byte Offset.
type Position struct {
	Offset int64
	Term   int
}

// Window is the byte span of a match, both ends inclusive.
type Window struct {
	Start int64
	End   int64
}

// Merge tags every offset of streams[i] with term i and returns them sorted
// by offset.
func Merge(streams ...*dynarray.Array[int64]) *dynarray.Array[Position] {
	total := 0
	for _, s := range streams {
		total += s.Len()
	}
	merged := dynarray.MustNew[Position](max(total, 1))
	for term, s := range streams {
		for _, off := range s.Values() {
			merged.Add(Position{Offset: off, Term: term})
		}
	}
	merged.Sort(comparePositions)
	return merged
}

// Find slides a window over positions, which must be sorted by offset, and
// returns the first window whose width is at most maxSpan and which contains
// at least one position of each of the termCount terms. Every Term must lie
// in [0, termCount). The window is
// tightened from the left so that it starts at the last needed occurrence.
func Find(positions []Position, termCount int, maxSpan int64) (Window, bool) {
	if termCount <= 0 || len(positions) < termCount {
		return Window{}, false
	}
	counts := make([]int, termCount)
	covered := 0
	start := 0
	drop := func() {
		t := positions[start].Term
		counts[t]--
		if counts[t] == 0 {
			covered--
		}
		start++
	}

	for end, p := range positions {
		if counts[p.Term] == 0 {
			covered++
		}
		counts[p.Term]++

		for p.Offset-positions[start].Offset > maxSpan {
			drop()
		}
		if covered < termCount {
			continue
		}
		for counts[positions[start].Term] > 1 {
			drop()
		}
		return Window{Start: positions[start].Offset, End: positions[end].Offset}, true
	}
	return Window{}, false
}

func comparePositions(a, b Position) int {
	if c := cmp.Compare(a.Offset, b.Offset); c != 0 {
		return c
	}
	return cmp.Compare(a.Term, b.Term)
}
