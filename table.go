package probemap

import "hash/maphash"

const (
	minCapacity = 8

	slotEmpty   = 0x80
	slotDeleted = 0xFE

	// Growth threshold: a table grows when size/capacity exceeds 7/10
	// before an insert places its entry.
	loadFactorNum = 7
	loadFactorDen = 10
)

type table[K comparable, V any] struct {
	// One control byte per slot: h2 of the resident key (0x00..0x7F),
	// slotEmpty, or slotDeleted. Keys and values live in parallel slices
	// at the same index.
	ctrls  []uint8
	keys   []K
	values []V

	capacity   uintptr
	mask       uintptr
	size       uintptr
	tombstones uintptr

	hashFunc HashFunc[K]

	emptyK K
	emptyV V
}

type Option[K comparable, V any] func(t *table[K, V])

// Override default hash function.
func WithHashFunc[K comparable, V any](f HashFunc[K]) Option[K, V] {
	return func(t *table[K, V]) {
		t.hashFunc = f
	}
}

func (t *table[K, V]) init(capacity int, opts ...Option[K, V]) {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	normalizedCapacity := uintptr(NextPowerOf2(uint32(capacity)))

	t.ctrls = make([]uint8, normalizedCapacity)
	t.keys = make([]K, normalizedCapacity)
	t.values = make([]V, normalizedCapacity)
	t.capacity = normalizedCapacity
	t.mask = normalizedCapacity - 1

	// Initialize all control bytes to Empty
	t.Reset()

	for _, opt := range opts {
		opt(t)
	}

	if t.hashFunc == nil {
		t.hashFunc = MakeDefaultHashFunc[K](maphash.MakeSeed())
	}
}

func (t *table[K, V]) get(key K) (V, bool) {
	h1, h2 := HashSplit(t.hashFunc(key))
	start := h1 & t.mask

	for p := uintptr(0); p < t.capacity; p++ {
		idx := (start + p) & t.mask

		switch c := t.ctrls[idx]; {
		case c == slotEmpty:
			// Termination: only an empty slot breaks a probe chain.
			return t.emptyV, false
		case c == slotDeleted:
			continue
		case c == h2 && t.keys[idx] == key:
			return t.values[idx], true
		}
	}

	return t.emptyV, false
}

func (t *table[K, V]) set(key K, value V) (V, bool) {
	if t.size*loadFactorDen > t.capacity*loadFactorNum {
		t.rehash(t.capacity * 2)
	}

	h1, h2 := HashSplit(t.hashFunc(key))
	start := h1 & t.mask

	for p := uintptr(0); p < t.capacity; p++ {
		idx := (start + p) & t.mask

		switch c := t.ctrls[idx]; {
		case c == slotEmpty || c == slotDeleted:
			if c == slotDeleted {
				t.tombstones--
			}

			t.ctrls[idx] = h2
			t.keys[idx] = key
			t.values[idx] = value
			t.size++

			return t.emptyV, false
		case c == h2 && t.keys[idx] == key:
			prev := t.values[idx]
			t.values[idx] = value

			return prev, true
		}
	}

	// Unreachable while the growth threshold holds: the probe loop always
	// meets an empty or deleted slot first.
	panic("probemap: no free slot after full probe; growth invariant violated")
}

func (t *table[K, V]) delete(key K) (V, bool) {
	h1, h2 := HashSplit(t.hashFunc(key))
	start := h1 & t.mask

	for p := uintptr(0); p < t.capacity; p++ {
		idx := (start + p) & t.mask

		switch c := t.ctrls[idx]; {
		case c == slotEmpty:
			return t.emptyV, false
		case c == slotDeleted:
			continue
		case c == h2 && t.keys[idx] == key:
			prev := t.values[idx]

			// Mark as Deleted (0xFE) to preserve the probe chain
			t.ctrls[idx] = slotDeleted
			t.keys[idx] = t.emptyK
			t.values[idx] = t.emptyV
			t.size--
			t.tombstones++

			return prev, true
		}
	}

	return t.emptyV, false
}

// rehash rebuilds the table into fresh slices of newCapacity slots,
// re-placing every occupied entry and dropping all tombstones. The old
// slices stay intact until the rebuild completes, so a failed allocation
// leaves the prior table valid.
func (t *table[K, V]) rehash(newCapacity uintptr) {
	ctrls := make([]uint8, newCapacity)
	keys := make([]K, newCapacity)
	values := make([]V, newCapacity)

	for i := range ctrls {
		ctrls[i] = slotEmpty
	}

	mask := newCapacity - 1
	for i, c := range t.ctrls {
		if c >= slotEmpty {
			continue
		}

		h1, _ := HashSplit(t.hashFunc(t.keys[i]))

		// A fresh table has no tombstones, so the first empty slot wins.
		idx := h1 & mask
		for ctrls[idx] != slotEmpty {
			idx = (idx + 1) & mask
		}

		ctrls[idx] = c
		keys[idx] = t.keys[i]
		values[idx] = t.values[i]
	}

	t.ctrls = ctrls
	t.keys = keys
	t.values = values
	t.capacity = newCapacity
	t.mask = mask
	t.tombstones = 0
}

// Compact purges accumulated tombstones by rehashing at the current
// capacity. It is never triggered automatically; callers that delete heavily
// without inserting should invoke it when Stats shows tombstones crowding
// the table.
func (t *table[K, V]) Compact() {
	t.rehash(t.capacity)
}

func (t *table[K, V]) Reset() {
	for i := range t.ctrls {
		t.ctrls[i] = slotEmpty
	}

	t.size = 0
	t.tombstones = 0
}

func (t *table[K, V]) Len() int {
	return int(t.size)
}

func (t *table[K, V]) Capacity() int {
	return int(t.capacity)
}

func (t *table[K, V]) LoadFactor() float64 {
	return float64(t.size) / float64(t.capacity)
}

func (t *table[K, V]) Stats() Stats {
	return Stats{
		Size:       int(t.size),
		Capacity:   int(t.capacity),
		Tombstones: int(t.tombstones),

		LoadFactor:              float32(t.size) / float32(t.capacity),
		TombstonesCapacityRatio: float32(t.tombstones) / float32(t.capacity),
	}
}
