// Package structures implements the summary-carrying B-tree behind the
// public mark tree: extents, leaves, the tree itself and its rebalancing.
package structures

import "fmt"

// Flags qualify a mark key. They occupy the upper 16 bits of a Key.
type Flags uint16

const (
	// FlagBiasLeft pins the key to its byte when text is inserted there.
	FlagBiasLeft Flags = 1 << 0
	// FlagRange marks the key as one endpoint of a width-bearing mark.
	FlagRange Flags = 1 << 1
	// FlagEnd marks the key as the right endpoint of a range pair.
	FlagEnd Flags = 1 << 2
)

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Key packs a 48-bit mark id and 16-bit flags into a single word.
// The end key of a range pair always compares greater than its start key
// because FlagEnd sits in the upper bits, so within a sorted key set the
// start endpoint is seen first.
type Key uint64

const flagBits = 16

// NewKey builds a key from an id (upper 16 bits clear) and flags.
func NewKey(id uint64, flags Flags) Key {
	return Key(id | uint64(flags)<<(64-flagBits))
}

// ID returns the 48-bit mark id.
func (k Key) ID() uint64 {
	return uint64(k) << flagBits >> flagBits
}

// Flags returns the flag bits.
func (k Key) Flags() Flags {
	return Flags(uint64(k) >> (64 - flagBits))
}

// String implements fmt.Stringer for debugging output.
func (k Key) String() string {
	return fmt.Sprintf("(%d, %04b)", k.ID(), k.Flags())
}
