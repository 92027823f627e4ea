package probemap

import "hash/maphash"

type HashFunc[K comparable] func(K) uint64

// Default hash function, seeded per table.
func MakeDefaultHashFunc[K comparable](seed maphash.Seed) HashFunc[K] {
	return func(k K) uint64 {
		return maphash.Comparable(seed, k)
	}
}

// HashSplit splits a hash into h1, the probe start position, and h2, the
// 7 low bits stored in the slot's control byte.
func HashSplit(hash uint64) (uintptr, uint8) {
	h1 := uintptr(hash >> 7)
	h2 := uint8(hash & 0x7F)

	return h1, h2
}

// StringHashFunc31 is a deterministic, unseeded multiplicative hash over the
// bytes of a string. Unlike the maphash default it is stable across
// processes, which makes it usable when hashes leak into persisted layouts.
func StringHashFunc31(s string) uint64 {
	h := uint64(0x123456789ABCDEF0)
	for i := 0; i < len(s); i++ {
		h = h*31 + uint64(s[i])
	}

	return h
}
