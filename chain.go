package probemap

import (
	"hash/maphash"
	"iter"
)

// Chaining grows earlier than probing tables tolerate tombstones: 3/4.
const (
	chainLoadFactorNum = 3
	chainLoadFactorDen = 4
)

type chainNode[K comparable, V any] struct {
	key   K
	value V
	next  *chainNode[K, V]
}

// ChainMap is a hash map resolving collisions by chaining colliding entries
// into a linked list per bucket. Deletion unlinks the node outright, so there
// are no tombstones and no compaction to schedule, at the price of pointer
// chasing on lookups. Bucket count is always a power of two.
// Not safe for concurrent use.
type ChainMap[K comparable, V any] struct {
	buckets []*chainNode[K, V]

	size     int
	hashFunc HashFunc[K]

	emptyV V
}

type ChainOption[K comparable, V any] func(cm *ChainMap[K, V])

// Override default hash function.
func WithChainHashFunc[K comparable, V any](f HashFunc[K]) ChainOption[K, V] {
	return func(cm *ChainMap[K, V]) {
		cm.hashFunc = f
	}
}

// Returns a new chaining map with at least the given bucket count.
func NewChainMap[K comparable, V any](capacity int, opts ...ChainOption[K, V]) *ChainMap[K, V] {
	if capacity < minCapacity {
		capacity = minCapacity
	}

	cm := &ChainMap[K, V]{
		buckets: make([]*chainNode[K, V], NextPowerOf2(uint32(capacity))),
	}

	for _, opt := range opts {
		opt(cm)
	}

	if cm.hashFunc == nil {
		cm.hashFunc = MakeDefaultHashFunc[K](maphash.MakeSeed())
	}

	return cm
}

func (cm *ChainMap[K, V]) bucketIdx(key K) uint64 {
	return cm.hashFunc(key) & uint64(len(cm.buckets)-1)
}

// Set stores value under key.
// Returns the previous value and true when the key was already present.
func (cm *ChainMap[K, V]) Set(key K, value V) (V, bool) {
	if cm.size*chainLoadFactorDen > len(cm.buckets)*chainLoadFactorNum {
		cm.grow()
	}

	idx := cm.bucketIdx(key)
	for n := cm.buckets[idx]; n != nil; n = n.next {
		if n.key == key {
			prev := n.value
			n.value = value

			return prev, true
		}
	}

	cm.buckets[idx] = &chainNode[K, V]{key: key, value: value, next: cm.buckets[idx]}
	cm.size++

	return cm.emptyV, false
}

// Get looks a key up.
func (cm *ChainMap[K, V]) Get(key K) (V, bool) {
	for n := cm.buckets[cm.bucketIdx(key)]; n != nil; n = n.next {
		if n.key == key {
			return n.value, true
		}
	}

	return cm.emptyV, false
}

// Checks whether a key is in the map.
func (cm *ChainMap[K, V]) Has(key K) bool {
	_, ok := cm.Get(key)

	return ok
}

// Delete removes a key by unlinking its node.
// Returns the removed value and true when the key was present.
func (cm *ChainMap[K, V]) Delete(key K) (V, bool) {
	idx := cm.bucketIdx(key)

	for p := &cm.buckets[idx]; *p != nil; p = &(*p).next {
		if n := *p; n.key == key {
			*p = n.next
			cm.size--

			return n.value, true
		}
	}

	return cm.emptyV, false
}

func (cm *ChainMap[K, V]) Len() int {
	return cm.size
}

func (cm *ChainMap[K, V]) Capacity() int {
	return len(cm.buckets)
}

func (cm *ChainMap[K, V]) LoadFactor() float64 {
	return float64(cm.size) / float64(len(cm.buckets))
}

// grow doubles the bucket slice and relinks every node in place; no entries
// are reallocated.
func (cm *ChainMap[K, V]) grow() {
	buckets := make([]*chainNode[K, V], len(cm.buckets)*2)
	mask := uint64(len(buckets) - 1)

	for _, n := range cm.buckets {
		for n != nil {
			next := n.next
			idx := cm.hashFunc(n.key) & mask

			n.next = buckets[idx]
			buckets[idx] = n

			n = next
		}
	}

	cm.buckets = buckets
}

// All returns an iterator over the entries. Order is unspecified; the map
// must not be mutated during iteration.
func (cm *ChainMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, n := range cm.buckets {
			for ; n != nil; n = n.next {
				if !yield(n.key, n.value) {
					return
				}
			}
		}
	}
}
