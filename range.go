package marktree

import (
	"github.com/scigolib/marktree/internal/structures"
	"github.com/scigolib/marktree/internal/utils"
)

// RangeIter iterates over the marks whose start lies in a byte window,
// ascending by start. Marks sharing a start come out in an unspecified but
// stable order within one iteration.
//
// It follows the scanner pattern:
//
//	it := tree.Range(10, 20)
//	for it.Next() {
//	    use(it.Span(), it.ID())
//	}
//
// The iterator is lazy and single-pass; it must not outlive a mutation of
// the tree.
type RangeIter[ID MarkID] struct {
	tree *MarkTree[ID]
	scan *structures.Scan
	span Span
	id   ID
}

// Range returns an iterator over the marks whose start lies in
// [start, end).
func (t *MarkTree[ID]) Range(start, end int) *RangeIter[ID] {
	if start < 0 || start > end {
		utils.Violate(utils.OpOutOfRange, "invalid range %d..%d", start, end)
	}
	return &RangeIter[ID]{tree: t, scan: t.tree.Scan(start, end)}
}

// All returns an iterator over every mark in the tree.
func (t *MarkTree[ID]) All() *RangeIter[ID] {
	return t.Range(0, t.Len())
}

// Next advances to the next mark, reporting whether one is available.
func (it *RangeIter[ID]) Next() bool {
	for {
		offset, key, ok := it.scan.Next()
		if !ok {
			return false
		}
		flags := key.Flags()
		if flags.Has(structures.FlagEnd) {
			// Range end keys are located through their start key.
			continue
		}
		if flags.Has(structures.FlagRange) {
			end, ok := it.tree.tree.GetRight(key.ID())
			utils.Assert(ok, "ranged mark %d has no right anchor", key.ID())
			it.span = Span{Start: offset, End: end}
		} else {
			it.span = Span{Start: offset, End: offset}
		}
		it.id = ID(key.ID())
		return true
	}
}

// Span returns the span of the current mark.
func (it *RangeIter[ID]) Span() Span {
	return it.span
}

// ID returns the id of the current mark.
func (it *RangeIter[ID]) ID() ID {
	return it.id
}
