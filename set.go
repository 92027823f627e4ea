package probemap

import "iter"

// Set is a key-only companion of Map, backed by the same probing table with
// zero-sized values.
type Set[K comparable] struct {
	table[K, struct{}]
}

// Returns a new set with at least the given capacity.
func NewSet[K comparable](capacity int, opts ...Option[K, struct{}]) *Set[K] {
	var s Set[K]
	s.init(capacity, opts...)

	return &s
}

// Add puts a key in the set. Returns true when the key is new.
func (s *Set[K]) Add(key K) bool {
	_, replaced := s.set(key, struct{}{})

	return !replaced
}

// Checks whether a key is in the set.
func (s *Set[K]) Has(key K) bool {
	_, ok := s.get(key)

	return ok
}

// Delete removes a key. Returns true when the key was present.
func (s *Set[K]) Delete(key K) bool {
	_, ok := s.delete(key)

	return ok
}

// All returns an iterator over the keys, shadowing the key-value form of the
// underlying table.
func (s *Set[K]) All() iter.Seq[K] {
	return s.table.Keys()
}
