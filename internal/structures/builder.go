package structures

import (
	"slices"

	"github.com/scigolib/marktree/internal/utils"
)

// extentScratch recycles the scratch slices the builder and span
// extraction churn through on every splice.
var extentScratch = utils.NewSlicePool[Extent](32)

// extentBuilder accumulates the rebuilt extent list of a splice.
// Pushing a run with no keys extends the previous extent instead of
// appending, so the output never contains an extent that could be merged
// into its left neighbour.
type extentBuilder struct {
	entries []Extent
}

func newExtentBuilder() *extentBuilder {
	return &extentBuilder{entries: extentScratch.Get()}
}

// push appends a run of the given length whose start anchors keys.
// The builder takes ownership of the key slice.
func (b *extentBuilder) push(length int, keys []Key) {
	if len(keys) == 0 {
		if n := len(b.entries); n > 0 {
			b.entries[n-1].length += length
			return
		}
	}
	b.entries = append(b.entries, NewExtent(length, keys))
}

// pushGap appends a keyless run; zero-length gaps vanish.
func (b *extentBuilder) pushGap(gap int) {
	if gap > 0 {
		b.push(gap, nil)
	}
}

// pushExtent re-emits an existing extent.
func (b *extentBuilder) pushExtent(e Extent) {
	b.push(e.length, e.keys)
}

// finish returns the built list. The builder must not be reused.
func (b *extentBuilder) finish() []Extent {
	return b.entries
}

// takePending sorts and hands over the pending key set, leaving it empty.
func takePending(pend *[]Key) []Key {
	if len(*pend) == 0 {
		return nil
	}
	keys := *pend
	slices.Sort(keys)
	*pend = nil
	return keys
}

// sortKeys sorts a key slice in place and returns it.
func sortKeys(keys []Key) []Key {
	slices.Sort(keys)
	return keys
}

// partitionBias splits the pending keys into left-biased and the rest.
func partitionBias(pend []Key) (left, right []Key) {
	for _, k := range pend {
		if k.Flags().Has(FlagBiasLeft) {
			left = append(left, k)
		} else {
			right = append(right, k)
		}
	}
	return left, right
}
