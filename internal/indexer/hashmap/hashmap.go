// Package hashmap implements a string-keyed hash table with open addressing.
//
// Keys are turned into integers by reading them as base-27 numerals (see
// keyToInt). Collisions are resolved with quadratic probing,
// slot(i) = (K mod C + i²) mod C, over a prime capacity C. Removed entries
// leave tombstones so that probe sequences of other keys stay intact; puts
// reuse the first tombstone on their path and a resize drops them all.
package hashmap

import (
	"fmt"
	"iter"

	apperrors "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/errors"
)

const (
	// DefaultCapacity is the prime slot count of a Map built by New.
	DefaultCapacity = 101
	// MaxLoadFactor is the highest count/capacity ratio allowed after a Put.
	MaxLoadFactor = 0.7

	maxGrowAttempts = 8
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type slot[V any] struct {
	state slotState
	key   string
	value V
}

// Map maps strings to values of type V. It is not safe for concurrent use.
type Map[V any] struct {
	slots      []slot[V]
	count      int
	tombstones int
	resizes    int
}

func New[V any]() *Map[V] {
	return NewWithCapacity[V](DefaultCapacity)
}

// NewWithCapacity returns an empty Map whose capacity is the smallest prime
// not below capacity.
func NewWithCapacity[V any](capacity int) *Map[V] {
	return &Map[V]{slots: make([]slot[V], nextPrime(capacity))}
}

// Put stores value under key, replacing any previous value. The table grows
// first when the insert would push the load factor above MaxLoadFactor.
func (m *Map[V]) Put(key string, value V) error {
	if float64(m.count+1)/float64(len(m.slots)) > MaxLoadFactor {
		if err := m.grow(); err != nil {
			return fmt.Errorf("putting %q: %w", key, err)
		}
	}
	for attempt := 0; attempt < maxGrowAttempts; attempt++ {
		switch insert(m.slots, key, value) {
		case insertUpdated:
			return nil
		case insertAdded:
			m.count++
			return nil
		case insertReusedTombstone:
			m.count++
			m.tombstones--
			return nil
		}
		// The probe sequence visited no free slot. This is possible with
		// quadratic probing above half load; a larger table fixes it.
		if err := m.grow(); err != nil {
			return fmt.Errorf("putting %q: %w", key, err)
		}
	}
	return fmt.Errorf("putting %q: %w", key, apperrors.ErrTableFull)
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	idx, ok := m.find(key)
	if !ok {
		var zero V
		return zero, false
	}
	return m.slots[idx].value, true
}

func (m *Map[V]) Contains(key string) bool {
	_, ok := m.find(key)
	return ok
}

// Remove deletes key and reports whether it was present.
func (m *Map[V]) Remove(key string) bool {
	idx, ok := m.find(key)
	if !ok {
		return false
	}
	m.slots[idx] = slot[V]{state: slotTombstone}
	m.count--
	m.tombstones++
	return true
}

// Len returns the number of live entries.
func (m *Map[V]) Len() int {
	return m.count
}

// Cap returns the number of slots.
func (m *Map[V]) Cap() int {
	return len(m.slots)
}

// Tombstones returns the number of slots marked deleted since the last resize.
func (m *Map[V]) Tombstones() int {
	return m.tombstones
}

// Resizes returns how many times the table has grown.
func (m *Map[V]) Resizes() int {
	return m.resizes
}

// All yields every live entry in slot order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i := range m.slots {
			s := &m.slots[i]
			if s.state != slotOccupied {
				continue
			}
			if !yield(s.key, s.value) {
				return
			}
		}
	}
}

// Clear removes every entry and returns the table to DefaultCapacity.
func (m *Map[V]) Clear() {
	m.slots = make([]slot[V], DefaultCapacity)
	m.count = 0
	m.tombstones = 0
}

func (m *Map[V]) find(key string) (int, bool) {
	c := uint64(len(m.slots))
	home := keyToInt(key) % c
	for i := uint64(0); i < c; i++ {
		idx := (home + i*i) % c
		s := &m.slots[idx]
		switch s.state {
		case slotEmpty:
			return 0, false
		case slotOccupied:
			if s.key == key {
				return int(idx), true
			}
		}
	}
	return 0, false
}

type insertResult uint8

const (
	insertNoSlot insertResult = iota
	insertUpdated
	insertAdded
	insertReusedTombstone
)

// insert places key in slots, preferring the first tombstone on its probe
// path once the key is known to be absent.
func insert[V any](slots []slot[V], key string, value V) insertResult {
	c := uint64(len(slots))
	home := keyToInt(key) % c
	tomb := -1
	for i := uint64(0); i < c; i++ {
		idx := (home + i*i) % c
		s := &slots[idx]
		switch s.state {
		case slotTombstone:
			if tomb < 0 {
				tomb = int(idx)
			}
		case slotOccupied:
			if s.key == key {
				s.value = value
				return insertUpdated
			}
		case slotEmpty:
			if tomb >= 0 {
				slots[tomb] = slot[V]{state: slotOccupied, key: key, value: value}
				return insertReusedTombstone
			}
			slots[idx] = slot[V]{state: slotOccupied, key: key, value: value}
			return insertAdded
		}
	}
	if tomb >= 0 {
		slots[tomb] = slot[V]{state: slotOccupied, key: key, value: value}
		return insertReusedTombstone
	}
	return insertNoSlot
}

// grow rebuilds the table at roughly twice its size. The new slot array is
// filled completely before it replaces the old one, so a failed attempt
// leaves the live table untouched.
func (m *Map[V]) grow() error {
	capacity := len(m.slots)
	for attempt := 0; attempt < maxGrowAttempts; attempt++ {
		capacity = nextPrime(2*capacity + 1)
		slots, ok := m.rehash(capacity)
		if !ok {
			continue
		}
		m.slots = slots
		m.tombstones = 0
		m.resizes++
		return nil
	}
	return fmt.Errorf("growing from %d slots: %w", len(m.slots), apperrors.ErrTableFull)
}

func (m *Map[V]) rehash(capacity int) ([]slot[V], bool) {
	slots := make([]slot[V], capacity)
	for i := range m.slots {
		s := &m.slots[i]
		if s.state != slotOccupied {
			continue
		}
		if insert(slots, s.key, s.value) == insertNoSlot {
			return nil, false
		}
	}
	return slots, true
}
