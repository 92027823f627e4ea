package probemap

// Map is a generic hash map resolving collisions with open addressing and
// linear probing. Deletions leave tombstone markers so probe chains stay
// intact; crossing the load-factor threshold doubles the capacity and drops
// accumulated tombstones. Capacity is always a power of two.
// Not safe for concurrent use: callers sharing a Map across goroutines must
// hold their own lock for the duration of each operation.
type Map[K comparable, V any] struct {
	table[K, V]
}

// Returns a new map with at least the given capacity.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) *Map[K, V] {
	var m Map[K, V]
	m.init(capacity, opts...)

	return &m
}

// Set stores value under key.
// Returns the previous value and true when the key was already present.
func (m *Map[K, V]) Set(key K, value V) (V, bool) {
	return m.set(key, value)
}

// Get looks a key up.
func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.get(key)
}

// Checks whether a key is in the map.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.get(key)

	return ok
}

// Delete removes a key.
// Returns the removed value and true when the key was present.
func (m *Map[K, V]) Delete(key K) (V, bool) {
	return m.delete(key)
}
