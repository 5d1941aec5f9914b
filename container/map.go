package container

import "iter"

// MaxKeyLength is the longest key, in bytes, a [Map] stores.
// Longer keys are silently truncated on every operation, so two keys that
// share their first MaxKeyLength bytes address the same entry.
const MaxKeyLength = 63

// Entry is a single slot of a [Map].
// A slot with Valid unset is a tombstone: it is skipped by lookups and
// iteration and is reused by the next insertion of a missing key.
type Entry[T any] struct {
	Valid bool
	Key   string
	Value T
}

// Map is an insertion-ordered key/value store backed by an [Array] of slots.
//
// Every operation scans the slots linearly, so lookups and insertions cost
// O(n) in the number of slots ever used: tombstones left by [Map.Remove] are
// reused but never reclaimed unless [Map.Compact] is called. This is meant
// for the small maps found in configuration and telemetry documents.
//
// The zero value is an empty map whose new entries start as the zero T.
type Map[T any] struct {
	slots Array[Entry[T]]
	init  func() T
}

// NewMap returns an empty map.
func NewMap[T any]() *Map[T] {
	return &Map[T]{slots: Array[Entry[T]]{elems: make([]Entry[T], 0, DefaultCapacity)}}
}

// NewMapFunc returns an empty map that initializes the value of every
// created or reused slot by calling init.
func NewMapFunc[T any](init func() T) *Map[T] {
	m := NewMap[T]()
	m.init = init

	return m
}

func truncateKey(key string) string {
	if len(key) > MaxKeyLength {
		return key[:MaxKeyLength]
	}

	return key
}

func (m *Map[T]) fresh() T {
	if m.init != nil {
		return m.init()
	}

	var zero T

	return zero
}

// find returns the slot index of the valid entry with key, or -1.
func (m *Map[T]) find(key string) int {
	for i := range m.slots.elems {
		if s := &m.slots.elems[i]; s.Valid && s.Key == key {
			return i
		}
	}

	return -1
}

// Get returns the value stored under key and true, or the zero T and false.
func (m *Map[T]) Get(key string) (T, bool) {
	if i := m.find(truncateKey(key)); i >= 0 {
		return m.slots.elems[i].Value, true
	}

	var zero T

	return zero, false
}

// Has reports whether key is present.
func (m *Map[T]) Has(key string) bool {
	_, ok := m.Get(key)

	return ok
}

// Set stores v under key, replacing any existing value.
func (m *Map[T]) Set(key string, v T) {
	*m.GetOrCreate(key) = v
}

// GetOrCreate returns a pointer to the value stored under key, creating the
// entry if it is missing. A missing key takes the first tombstoned slot if
// there is one and a new slot at the end otherwise.
//
// The pointer is invalidated by the next insertion that grows the map.
func (m *Map[T]) GetOrCreate(key string) *T {
	key = truncateKey(key)

	if i := m.find(key); i >= 0 {
		return &m.slots.elems[i].Value
	}

	entry := Entry[T]{Valid: true, Key: key, Value: m.fresh()}

	for i := range m.slots.elems {
		if s := &m.slots.elems[i]; !s.Valid {
			*s = entry

			return &s.Value
		}
	}

	m.slots.Append(entry)

	return &m.slots.elems[m.slots.Len()-1].Value
}

// Remove tombstones the entry stored under key and returns its value and
// true, or the zero T and false if key is not present.
func (m *Map[T]) Remove(key string) (T, bool) {
	if i := m.find(truncateKey(key)); i >= 0 {
		s := &m.slots.elems[i]
		s.Valid = false

		return s.Value, true
	}

	var zero T

	return zero, false
}

// Len returns the number of live entries.
func (m *Map[T]) Len() int {
	n := 0

	for i := range m.slots.elems {
		if m.slots.elems[i].Valid {
			n++
		}
	}

	return n
}

// Slots returns the number of slots in use, including tombstones.
func (m *Map[T]) Slots() int { return m.slots.Len() }

// All returns an iterator over the live entries in slot order.
func (m *Map[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, s := range m.slots.elems {
			if s.Valid && !yield(s.Key, s.Value) {
				return
			}
		}
	}
}

// Entries returns an iterator over every slot in order, tombstones included.
func (m *Map[T]) Entries() iter.Seq[Entry[T]] {
	return m.slots.Values()
}

// Keys returns the live keys in slot order.
func (m *Map[T]) Keys() []string {
	keys := make([]string, 0, m.slots.Len())

	for k := range m.All() {
		keys = append(keys, k)
	}

	return keys
}

// Compact drops all tombstones, preserving the order of live entries.
func (m *Map[T]) Compact() {
	live := m.slots.elems[:0]

	for _, s := range m.slots.elems {
		if s.Valid {
			live = append(live, s)
		}
	}

	clear(m.slots.elems[len(live):])
	m.slots.elems = live
}

// Clone returns a map with its own copy of the slot storage, tombstones
// included. Values are copied by value.
func (m *Map[T]) Clone() *Map[T] {
	if m == nil {
		return nil
	}

	return &Map[T]{slots: *m.slots.Clone(), init: m.init}
}
