// Package marktree provides an ordered container that anchors marks to
// byte positions in an external text and keeps them in place across edits.
//
// A mark is an opaque unsigned id with either a single position or a
// range, plus a bias per endpoint that decides which side of an insertion
// the endpoint sticks to. The tree supports logarithmic lookup by id,
// iteration over a byte window, and Shift, which splices a replacement
// byte run over an edited range the way a text buffer does.
//
// Internally marks live in a fixed-fanout B-tree of extents whose subtree
// summaries carry both a byte count and a compressed bitmap of the ids
// anchored below, so lookups descend without scanning siblings.
//
// A tree is not safe for concurrent use; callers serialize access the
// same way they serialize access to the text it describes.
package marktree

import (
	"github.com/scigolib/marktree/internal/structures"
	"github.com/scigolib/marktree/internal/utils"
	"golang.org/x/exp/constraints"
)

// MarkID is the capability required of mark ids: an unsigned integer whose
// upper 16 bits are never used. Ids must be unique among the marks present
// in one tree at the same time.
type MarkID interface {
	constraints.Unsigned
}

// Span is a half-open byte range. A mark without width has Start == End.
type Span struct {
	Start int
	End   int
}

// MarkTree anchors marks of type ID to byte positions in a text of a fixed
// current length. Only Shift and Edit change the length.
type MarkTree[ID MarkID] struct {
	tree *structures.Tree
}

// New creates a tree for a text of n bytes (n > 0) holding no marks.
func New[ID MarkID](n int, opts ...Option) *MarkTree[ID] {
	if n <= 0 {
		utils.Violate(utils.OpOutOfRange, "tree length must be positive, got %d", n)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	t := &MarkTree[ID]{tree: structures.NewTree(cfg.arity, cfg.rebalance, cfg.logger)}
	t.tree.Replace(0, 0, structures.GapReplacement(n))
	return t
}

// Len returns the byte length of the text the tree describes.
func (t *MarkTree[ID]) Len() int {
	return t.tree.Len()
}

// Get returns the span of the mark, or false if it is not present.
func (t *MarkTree[ID]) Get(id ID) (Span, bool) {
	raw := uint64(id)
	start, ok := t.tree.GetLeft(raw)
	if !ok {
		return Span{}, false
	}
	end, ok := t.tree.GetRight(raw)
	utils.Assert(ok, "mark %d has a left anchor but no right anchor", raw)
	return Span{Start: start, End: end}, true
}

// Delete removes the mark and returns the span it occupied, or false if it
// was not present.
func (t *MarkTree[ID]) Delete(id ID) (Span, bool) {
	raw := uint64(id)
	if !t.tree.Contains(raw) {
		return Span{}, false
	}
	start := t.tree.DeleteOne(raw)
	if !t.tree.Contains(raw) {
		return Span{Start: start, End: start}, true
	}
	end := t.tree.DeleteOne(raw)
	return Span{Start: start, End: end}, true
}

// Shift reflects a text edit that replaced the bytes in [start, end) with
// by fresh bytes. Marks move according to their biases; marks inside the
// replaced range collapse onto its right edge. When the replaced range
// reaches the end of the text there is no byte after it, and the anchors
// inside it are removed instead.
func (t *MarkTree[ID]) Shift(start, end, by int) {
	n := t.Len()
	if start < 0 || start > end || end > n {
		utils.Violate(utils.OpOutOfRange, "shift range %d..%d out of bounds of tree of length %d", start, end, n)
	}
	t.tree.Replace(start, end, structures.GapReplacement(by))
	utils.Assert(t.Len()+end == n+by+start, "shift changed the length inconsistently")
}

// Rebalance compacts the leaf level at full occupancy. It never changes
// the marks or their positions.
func (t *MarkTree[ID]) Rebalance() {
	t.tree.Compact()
}

// Stats reports leaf-level occupancy, mainly for tuning rebalancing.
func (t *MarkTree[ID]) Stats() Stats {
	s := t.tree.Stats()
	return Stats{Leaves: s.Leaves, Underfilled: s.Underfilled}
}

// Stats describes leaf occupancy of a tree.
type Stats struct {
	Leaves      int
	Underfilled int
}

// AssertInvariants resummarizes the tree and compares against the stored
// summaries, panicking on any mismatch. It walks every node; call it from
// tests, not hot paths.
func (t *MarkTree[ID]) AssertInvariants() {
	if err := t.tree.CheckInvariants(); err != nil {
		utils.Violate(utils.OpInvariantViolation, "%v", err)
	}
}
