// Package hashindex implements a small uint64-keyed map for owner-id
// registries. No other cwcgo package imports it at present: the keybind
// table keeps its own map keyed by modifier mask<<32 | code.
package hashindex

// HashIndex is a generic replacement for the original implementation's
// intrusive uint64-keyed hash map (src/util-map.c). It carries no link
// pointers of its own; callers that need ordered iteration keep a separate
// slice of keys.
type HashIndex[V any] struct {
	m map[uint64]V
}

// New returns an empty HashIndex.
func New[V any]() *HashIndex[V] {
	return &HashIndex[V]{m: make(map[uint64]V)}
}

// Get returns the value stored at key and whether it was present.
func (h *HashIndex[V]) Get(key uint64) (V, bool) {
	v, ok := h.m[key]
	return v, ok
}

// Set stores value at key, replacing any existing entry.
func (h *HashIndex[V]) Set(key uint64, value V) {
	h.m[key] = value
}

// Delete removes key, reporting whether it was present.
func (h *HashIndex[V]) Delete(key uint64) bool {
	_, ok := h.m[key]
	delete(h.m, key)
	return ok
}

// Len reports the number of entries.
func (h *HashIndex[V]) Len() int {
	return len(h.m)
}

// Each calls f for every entry in unspecified order. f must not mutate h.
func (h *HashIndex[V]) Each(f func(key uint64, value V)) {
	for k, v := range h.m {
		f(k, v)
	}
}

// Clear removes every entry, keeping the underlying map allocation.
func (h *HashIndex[V]) Clear() {
	for k := range h.m {
		delete(h.m, k)
	}
}
