package marktree

import (
	"github.com/scigolib/marktree/internal/structures"
	"github.com/scigolib/marktree/internal/utils"
)

// markSpec is the insertion state machine: populated by the options, then
// committed as one or two key splices.
type markSpec struct {
	width     int
	startBias Bias
	endBias   Bias
}

// InsertOption configures a single Insert call.
type InsertOption func(*markSpec)

// Width gives the mark a width, turning it into a range of w bytes.
func Width(w int) InsertOption {
	return func(s *markSpec) {
		if w < 0 {
			utils.Violate(utils.OpOutOfRange, "mark width must be non-negative, got %d", w)
		}
		s.width = w
	}
}

// StartBias sets the bias of the mark's start endpoint.
func StartBias(b Bias) InsertOption {
	return func(s *markSpec) { s.startBias = b }
}

// EndBias sets the bias of the mark's end endpoint. It only matters for
// marks with a width.
func EndBias(b Bias) InsertOption {
	return func(s *markSpec) { s.endBias = b }
}

// Insert anchors a new mark at byte at. Both endpoints default to
// BiasRight and the width to zero. The tree length is unchanged.
//
// Contract: at + width < Len(), the id's upper 16 bits are clear, and the
// id is not already present. Violations panic.
func (t *MarkTree[ID]) Insert(at int, id ID, opts ...InsertOption) {
	spec := markSpec{startBias: BiasRight, endBias: BiasRight}
	for _, opt := range opts {
		opt(&spec)
	}

	raw := uint64(id)
	if raw>>48 != 0 {
		utils.Violate(utils.OpIDOverflow, "upper 16 bits of id %#x must be unused", raw)
	}
	if t.tree.Contains(raw) {
		utils.Violate(utils.OpDuplicateInsert, "id %d is already present", raw)
	}
	n := t.Len()
	if at < 0 || at+spec.width >= n {
		utils.Violate(utils.OpOutOfRange, "mark %d..%d out of bounds of tree of length %d", at, at+spec.width, n)
	}

	startFlags, endFlags := spec.flags()

	t.tree.Replace(at, at+1, structures.KeyReplacement(structures.NewKey(raw, startFlags)))
	utils.Assert(t.Len() == n, "anchoring a mark must not change the tree length")

	if spec.width > 0 {
		end := at + spec.width
		t.tree.Replace(end, end+1, structures.KeyReplacement(structures.NewKey(raw, endFlags)))
		utils.Assert(t.Len() == n, "anchoring a mark must not change the tree length")
	}
}

// flags translates the insertion state into the per-endpoint key flags.
func (s *markSpec) flags() (start, end structures.Flags) {
	end = structures.FlagEnd
	if s.width > 0 {
		start |= structures.FlagRange
		end |= structures.FlagRange
	}
	if s.startBias == BiasLeft {
		start |= structures.FlagBiasLeft
	}
	if s.endBias == BiasLeft {
		end |= structures.FlagBiasLeft
	}
	return start, end
}
