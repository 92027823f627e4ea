package probemap

import "iter"

// All returns an iterator over the occupied slots. Order is unspecified and
// changes across rehashes; the table must not be mutated during iteration.
func (t *table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, c := range t.ctrls {
			if c < slotEmpty && !yield(t.keys[i], t.values[i]) {
				return
			}
		}
	}
}

func (t *table[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i, c := range t.ctrls {
			if c < slotEmpty && !yield(t.keys[i]) {
				return
			}
		}
	}
}

func (t *table[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for i, c := range t.ctrls {
			if c < slotEmpty && !yield(t.values[i]) {
				return
			}
		}
	}
}
