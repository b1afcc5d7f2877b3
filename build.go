package marktree

import (
	"sort"

	"github.com/scigolib/marktree/internal/structures"
	"github.com/scigolib/marktree/internal/utils"
)

// Mark describes one mark for bulk construction: the Build equivalent of
// an Insert call and its options.
//
//	marktree.NewMark[uint64](7, 12).Width(3).StartBias(marktree.BiasLeft)
type Mark[ID MarkID] struct {
	id        ID
	at        int
	width     int
	startBias Bias
	endBias   Bias
}

// NewMark describes a zero-width mark at byte at with the same defaults as
// Insert.
func NewMark[ID MarkID](id ID, at int) Mark[ID] {
	return Mark[ID]{id: id, at: at, startBias: BiasRight, endBias: BiasRight}
}

// Width returns the mark with the given width.
func (m Mark[ID]) Width(w int) Mark[ID] {
	if w < 0 {
		utils.Violate(utils.OpOutOfRange, "mark width must be non-negative, got %d", w)
	}
	m.width = w
	return m
}

// StartBias returns the mark with the given start bias.
func (m Mark[ID]) StartBias(b Bias) Mark[ID] {
	m.startBias = b
	return m
}

// EndBias returns the mark with the given end bias.
func (m Mark[ID]) EndBias(b Bias) Mark[ID] {
	m.endBias = b
	return m
}

// Build constructs a tree for a text of n bytes holding all the given
// marks. The result is equivalent, as a multiset of (span, id), to a fresh
// tree receiving the same marks through Insert; the relative order of
// marks sharing a coordinate is unspecified.
//
// Insert's contract applies per mark and violations panic the same way.
func Build[ID MarkID](n int, marks []Mark[ID], opts ...Option) *MarkTree[ID] {
	if n <= 0 {
		utils.Violate(utils.OpOutOfRange, "tree length must be positive, got %d", n)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	anchors := make([]structures.Anchor, 0, 2*len(marks))
	seen := make(map[uint64]struct{}, len(marks))
	for _, m := range marks {
		raw := uint64(m.id)
		if raw>>48 != 0 {
			utils.Violate(utils.OpIDOverflow, "upper 16 bits of id %#x must be unused", raw)
		}
		if _, dup := seen[raw]; dup {
			utils.Violate(utils.OpDuplicateInsert, "id %d is already present", raw)
		}
		seen[raw] = struct{}{}
		if m.at < 0 || m.at+m.width >= n {
			utils.Violate(utils.OpOutOfRange, "mark %d..%d out of bounds of tree of length %d", m.at, m.at+m.width, n)
		}

		spec := markSpec{width: m.width, startBias: m.startBias, endBias: m.endBias}
		startFlags, endFlags := spec.flags()
		anchors = append(anchors, structures.Anchor{Pos: m.at, Key: structures.NewKey(raw, startFlags)})
		if m.width > 0 {
			anchors = append(anchors, structures.Anchor{Pos: m.at + m.width, Key: structures.NewKey(raw, endFlags)})
		}
	}

	sort.Slice(anchors, func(i, j int) bool { return anchors[i].Pos < anchors[j].Pos })

	return &MarkTree[ID]{tree: structures.BuildTree(n, anchors, cfg.arity, cfg.rebalance, cfg.logger)}
}
