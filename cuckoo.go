package probemap

import (
	"hash/maphash"
	"iter"
)

// Displacement chains longer than this force a growth; with two independent
// hash functions a chain this long means the tables are effectively full.
const cuckooMaxKicks = 32

type cuckooSlot[K comparable, V any] struct {
	key   K
	value V
	used  bool
}

// CuckooMap is a hash map keeping exactly two candidate slots per key, one in
// each of two tables addressed by independent hash functions. Inserts evict
// residents back and forth between the tables; lookups and deletes touch at
// most two slots, giving worst-case O(1) reads.
// Not safe for concurrent use.
type CuckooMap[K comparable, V any] struct {
	tables    [2][]cuckooSlot[K, V]
	hashFuncs [2]HashFunc[K]

	mask uint64
	size int

	emptyV V
}

type CuckooOption[K comparable, V any] func(cm *CuckooMap[K, V])

// Override the per-table hash functions. The two must be independent, or
// displacement chains will cycle and force needless growth.
func WithCuckooHashFuncs[K comparable, V any](f0, f1 HashFunc[K]) CuckooOption[K, V] {
	return func(cm *CuckooMap[K, V]) {
		cm.hashFuncs = [2]HashFunc[K]{f0, f1}
	}
}

// Returns a new cuckoo map with at least the given per-table capacity.
func NewCuckooMap[K comparable, V any](capacity int, opts ...CuckooOption[K, V]) *CuckooMap[K, V] {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	normalizedCapacity := uint64(NextPowerOf2(uint32(capacity)))

	cm := &CuckooMap[K, V]{mask: normalizedCapacity - 1}
	cm.tables[0] = make([]cuckooSlot[K, V], normalizedCapacity)
	cm.tables[1] = make([]cuckooSlot[K, V], normalizedCapacity)

	for _, opt := range opts {
		opt(cm)
	}

	if cm.hashFuncs[0] == nil {
		cm.hashFuncs[0] = MakeDefaultHashFunc[K](maphash.MakeSeed())
		cm.hashFuncs[1] = MakeDefaultHashFunc[K](maphash.MakeSeed())
	}

	return cm
}

func (cm *CuckooMap[K, V]) slot(t int, key K) *cuckooSlot[K, V] {
	return &cm.tables[t][cm.hashFuncs[t](key)&cm.mask]
}

// Set stores value under key.
// Returns the previous value and true when the key was already present.
func (cm *CuckooMap[K, V]) Set(key K, value V) (V, bool) {
	for t := range cm.tables {
		if s := cm.slot(t, key); s.used && s.key == key {
			prev := s.value
			s.value = value

			return prev, true
		}
	}

	cm.insert(key, value)

	return cm.emptyV, false
}

// insert places a key known to be absent, displacing residents between the
// two tables. When a displacement chain exceeds the kick limit, both tables
// double and the orphaned entry is retried.
func (cm *CuckooMap[K, V]) insert(key K, value V) {
	for {
		t := 0
		for kick := 0; kick < cuckooMaxKicks; kick++ {
			s := cm.slot(t, key)
			if !s.used {
				*s = cuckooSlot[K, V]{key: key, value: value, used: true}
				cm.size++

				return
			}

			// Evict the resident and re-place it in the other table.
			key, s.key = s.key, key
			value, s.value = s.value, value
			t = 1 - t
		}

		cm.grow()
	}
}

// Get looks a key up in its two candidate slots.
func (cm *CuckooMap[K, V]) Get(key K) (V, bool) {
	for t := range cm.tables {
		if s := cm.slot(t, key); s.used && s.key == key {
			return s.value, true
		}
	}

	return cm.emptyV, false
}

// Checks whether a key is in the map.
func (cm *CuckooMap[K, V]) Has(key K) bool {
	_, ok := cm.Get(key)

	return ok
}

// Delete removes a key.
// Returns the removed value and true when the key was present.
func (cm *CuckooMap[K, V]) Delete(key K) (V, bool) {
	for t := range cm.tables {
		if s := cm.slot(t, key); s.used && s.key == key {
			prev := s.value
			*s = cuckooSlot[K, V]{}
			cm.size--

			return prev, true
		}
	}

	return cm.emptyV, false
}

func (cm *CuckooMap[K, V]) Len() int {
	return cm.size
}

// Capacity reports the total slot count across both tables.
func (cm *CuckooMap[K, V]) Capacity() int {
	return 2 * int(cm.mask+1)
}

func (cm *CuckooMap[K, V]) grow() {
	old := cm.tables
	capacity := (cm.mask + 1) * 2

	cm.mask = capacity - 1
	cm.tables[0] = make([]cuckooSlot[K, V], capacity)
	cm.tables[1] = make([]cuckooSlot[K, V], capacity)
	cm.size = 0

	for _, tab := range old {
		for i := range tab {
			if tab[i].used {
				cm.insert(tab[i].key, tab[i].value)
			}
		}
	}
}

// All returns an iterator over the entries. Order is unspecified; the map
// must not be mutated during iteration.
func (cm *CuckooMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, tab := range cm.tables {
			for i := range tab {
				if tab[i].used && !yield(tab[i].key, tab[i].value) {
					return
				}
			}
		}
	}
}
