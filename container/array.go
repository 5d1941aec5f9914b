package container

import (
	"iter"
	"strconv"
)

// DefaultCapacity is the number of slots allocated by the first append to an
// empty [Array].
const DefaultCapacity = 10

// IndexError is the panic value raised by [Array.Get] and friends when an
// index falls outside the live range of the array.
type IndexError struct {
	Index int
	Len   int
}

// Error implements the error interface.
func (e IndexError) Error() string {
	return "container: index " + strconv.Itoa(e.Index) +
		" out of range [0:" + strconv.Itoa(e.Len) + "]"
}

// Array is a growable, contiguous sequence of T.
//
// The zero value is an empty array ready to use. Capacity starts at
// [DefaultCapacity] and doubles whenever an append finds the storage full,
// so Len() <= Cap() always holds.
type Array[T any] struct {
	elems []T
}

// NewArray returns an empty array with [DefaultCapacity] slots preallocated.
func NewArray[T any]() *Array[T] {
	return &Array[T]{elems: make([]T, 0, DefaultCapacity)}
}

// Append adds v to the end of the array, doubling the capacity first if the
// storage is full.
func (a *Array[T]) Append(v T) {
	if len(a.elems) == cap(a.elems) {
		a.grow()
	}

	a.elems = append(a.elems, v)
}

func (a *Array[T]) grow() {
	size := cap(a.elems) * 2
	if size == 0 {
		size = DefaultCapacity
	}

	elems := make([]T, len(a.elems), size)
	copy(elems, a.elems)
	a.elems = elems
}

// Len returns the number of elements in the array.
func (a *Array[T]) Len() int { return len(a.elems) }

// Cap returns the number of slots allocated for the array.
func (a *Array[T]) Cap() int { return cap(a.elems) }

// Get returns the element at index i.
// It panics with an [IndexError] unless 0 <= i < Len().
func (a *Array[T]) Get(i int) T {
	a.check(i)

	return a.elems[i]
}

// At returns the element at index i and true, or the zero T and false if i
// is out of range.
func (a *Array[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(a.elems) {
		var zero T

		return zero, false
	}

	return a.elems[i], true
}

// Ptr returns a pointer to the element at index i for in-place mutation.
// The pointer is invalidated by the next append that grows the array.
// It panics with an [IndexError] unless 0 <= i < Len().
func (a *Array[T]) Ptr(i int) *T {
	a.check(i)

	return &a.elems[i]
}

// Set replaces the element at index i.
// It panics with an [IndexError] unless 0 <= i < Len().
func (a *Array[T]) Set(i int, v T) {
	a.check(i)

	a.elems[i] = v
}

func (a *Array[T]) check(i int) {
	if i < 0 || i >= len(a.elems) {
		panic(IndexError{Index: i, Len: len(a.elems)})
	}
}

// Clear removes all elements but keeps the allocated storage.
func (a *Array[T]) Clear() {
	clear(a.elems)
	a.elems = a.elems[:0]
}

// All returns an iterator over index/element pairs in order.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range a.elems {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements in order.
func (a *Array[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range a.elems {
			if !yield(v) {
				return
			}
		}
	}
}

// Clone returns a new array with its own copy of the backing storage,
// including the same capacity. Elements are copied by value.
func (a *Array[T]) Clone() *Array[T] {
	if a == nil {
		return nil
	}

	elems := make([]T, len(a.elems), cap(a.elems))
	copy(elems, a.elems)

	return &Array[T]{elems: elems}
}
