package marktree

import "github.com/scigolib/marktree/internal/utils"

// DrainIter removes the marks whose start lies in a byte window, yielding
// each vacated span as it goes. Abandoning the iterator does not abandon
// the removal: Close deletes everything not yet yielded, so the set of
// deleted marks is the same however far the caller iterates.
type DrainIter[ID MarkID] struct {
	tree *MarkTree[ID]
	ids  []ID
	idx  int
	span Span
	id   ID
}

// Drain returns a draining iterator over the marks whose start lies in
// [start, end). Callers must exhaust it or call Close.
func (t *MarkTree[ID]) Drain(start, end int) *DrainIter[ID] {
	var ids []ID
	it := t.Range(start, end)
	for it.Next() {
		ids = append(ids, it.ID())
	}
	return &DrainIter[ID]{tree: t, ids: ids}
}

// Next deletes the next mark, reporting whether one was available.
func (d *DrainIter[ID]) Next() bool {
	if d.idx >= len(d.ids) {
		return false
	}
	id := d.ids[d.idx]
	d.idx++
	span, ok := d.tree.Delete(id)
	utils.Assert(ok, "drained mark %d disappeared mid-drain", uint64(id))
	d.span = span
	d.id = id
	return true
}

// Span returns the span the current mark occupied before deletion.
func (d *DrainIter[ID]) Span() Span {
	return d.span
}

// ID returns the id of the current mark.
func (d *DrainIter[ID]) ID() ID {
	return d.id
}

// Close deletes every remaining mark without yielding it. It is a no-op
// on an exhausted iterator.
func (d *DrainIter[ID]) Close() {
	for d.idx < len(d.ids) {
		id := d.ids[d.idx]
		d.idx++
		_, ok := d.tree.Delete(id)
		utils.Assert(ok, "drained mark %d disappeared mid-drain", uint64(id))
	}
}
