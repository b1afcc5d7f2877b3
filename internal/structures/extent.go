package structures

import (
	"slices"

	"github.com/scigolib/marktree/internal/utils"
)

// Extent is a contiguous run of the byte space together with the keys
// anchored at its start byte. Length is always at least 1: a zero-length
// extent could occupy arbitrarily many tree slots without making progress
// through the coordinate space.
type Extent struct {
	length int
	keys   []Key // sorted ascending by raw value
}

// NewExtent builds an extent; keys are sorted in place.
func NewExtent(length int, keys []Key) Extent {
	utils.Assert(length > 0, "extent length must be positive, got %d", length)
	slices.Sort(keys)
	return Extent{length: length, keys: keys}
}

// Len returns the byte length of the extent.
func (e *Extent) Len() int {
	return e.length
}

// Keys returns the keys anchored at the extent start, ascending by raw
// value. The slice is owned by the extent.
func (e *Extent) Keys() []Key {
	return e.keys
}

// containsRaw reports whether the exact raw key is present. For a key with
// no flags the raw value equals the id, which gives lookups a fast path.
func (e *Extent) containsRaw(k Key) bool {
	_, ok := slices.BinarySearch(e.keys, k)
	return ok
}

// removeRaw deletes the exact raw key, reporting whether it was present.
func (e *Extent) removeRaw(k Key) bool {
	i, ok := slices.BinarySearch(e.keys, k)
	if !ok {
		return false
	}
	e.keys = append(e.keys[:i], e.keys[i+1:]...)
	return true
}

// removeAt deletes the key at index i.
func (e *Extent) removeAt(i int) {
	e.keys = append(e.keys[:i], e.keys[i+1:]...)
}

// insertKey adds a key that must not already be present.
func (e *Extent) insertKey(k Key) {
	i, ok := slices.BinarySearch(e.keys, k)
	utils.Assert(!ok, "key %v is already anchored at this extent", k)
	e.keys = append(e.keys, 0)
	copy(e.keys[i+1:], e.keys[i:])
	e.keys[i] = k
}
