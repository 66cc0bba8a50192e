// Package dynarray implements a growable, densely packed sequence used for
// per-document position lists and for the scratch buffers of a search.
//
// An Array keeps its own capacity instead of relying on append so that the
// growth contract is explicit: capacity doubles when an Add or Insert would
// overflow it and only shrinks on TrimToSize.
package dynarray

import (
	"fmt"
	"slices"

	apperrors "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/errors"
)

const (
	// DefaultCapacity is used when New is given a zero capacity and as the
	// floor for TrimToSize on an empty array.
	DefaultCapacity = 10
	growthFactor    = 2
)

// Array is a growable sequence of T. Elements live in data[:length];
// len(data) is the capacity. The zero value is not usable, call New.
type Array[T any] struct {
	data   []T
	length int
}

// New returns an empty Array able to hold initialCapacity elements before
// growing. A zero capacity selects DefaultCapacity.
func New[T any](initialCapacity int) (*Array[T], error) {
	if initialCapacity < 0 {
		return nil, fmt.Errorf("creating array with capacity %d: %w", initialCapacity, apperrors.ErrInvalidInput)
	}
	if initialCapacity == 0 {
		initialCapacity = DefaultCapacity
	}
	return &Array[T]{data: make([]T, initialCapacity)}, nil
}

// MustNew is New for capacities known to be valid.
func MustNew[T any](initialCapacity int) *Array[T] {
	a, err := New[T](initialCapacity)
	if err != nil {
		panic(err)
	}
	return a
}

// Add appends v, doubling the capacity first if the array is full.
func (a *Array[T]) Add(v T) {
	if a.length >= len(a.data) {
		a.grow()
	}
	a.data[a.length] = v
	a.length++
}

// Get returns the element at i. ok is false when i is outside [0, Len()).
func (a *Array[T]) Get(i int) (v T, ok bool) {
	if i < 0 || i >= a.length {
		return v, false
	}
	return a.data[i], true
}

// Set replaces the element at i.
func (a *Array[T]) Set(i int, v T) error {
	if i < 0 || i >= a.length {
		return fmt.Errorf("set at %d (len %d): %w", i, a.length, apperrors.ErrOutOfRange)
	}
	a.data[i] = v
	return nil
}

// Insert places v at i and shifts the tail one slot to the right. i may equal
// Len(), in which case Insert behaves like Add.
func (a *Array[T]) Insert(i int, v T) error {
	if i < 0 || i > a.length {
		return fmt.Errorf("insert at %d (len %d): %w", i, a.length, apperrors.ErrOutOfRange)
	}
	if a.length >= len(a.data) {
		a.grow()
	}
	copy(a.data[i+1:a.length+1], a.data[i:a.length])
	a.data[i] = v
	a.length++
	return nil
}

// Remove deletes the element at i and closes the gap.
func (a *Array[T]) Remove(i int) error {
	if i < 0 || i >= a.length {
		return fmt.Errorf("remove at %d (len %d): %w", i, a.length, apperrors.ErrOutOfRange)
	}
	copy(a.data[i:a.length-1], a.data[i+1:a.length])
	var zero T
	a.data[a.length-1] = zero
	a.length--
	return nil
}

func (a *Array[T]) Len() int {
	return a.length
}

func (a *Array[T]) Cap() int {
	return len(a.data)
}

func (a *Array[T]) IsEmpty() bool {
	return a.length == 0
}

// Clear drops every element but keeps the allocated capacity.
func (a *Array[T]) Clear() {
	clear(a.data[:a.length])
	a.length = 0
}

// EnsureCapacity grows the backing buffer to hold at least minCapacity
// elements. It never shrinks.
func (a *Array[T]) EnsureCapacity(minCapacity int) {
	if minCapacity <= len(a.data) {
		return
	}
	a.resize(minCapacity)
}

// TrimToSize shrinks the capacity to Len(), or to DefaultCapacity when the
// array is empty.
func (a *Array[T]) TrimToSize() {
	target := a.length
	if target == 0 {
		target = DefaultCapacity
	}
	if target == len(a.data) {
		return
	}
	a.resize(target)
}

// Sort orders the elements in place by cmp, which returns a negative number
// when x sorts before y, zero when equal and a positive number otherwise.
// The sort is not stable.
func (a *Array[T]) Sort(cmp func(x, y T) int) {
	slices.SortFunc(a.data[:a.length], cmp)
}

// AddAll appends every element of src.
func (a *Array[T]) AddAll(src *Array[T]) {
	a.EnsureCapacity(a.length + src.length)
	copy(a.data[a.length:], src.data[:src.length])
	a.length += src.length
}

// Values returns the elements as a slice that aliases the array. It is only
// valid until the next mutation.
func (a *Array[T]) Values() []T {
	return a.data[:a.length:a.length]
}

func (a *Array[T]) grow() {
	newCap := len(a.data) * growthFactor
	if newCap == 0 {
		newCap = DefaultCapacity
	}
	a.resize(newCap)
}

// resize swaps in a buffer of exactly n slots; the old one is only released
// after every element has been copied.
func (a *Array[T]) resize(n int) {
	data := make([]T, n)
	copy(data, a.data[:a.length])
	a.data = data
}
