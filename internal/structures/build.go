package structures

import (
	"github.com/rs/zerolog"

	"github.com/scigolib/marktree/internal/utils"
)

// Anchor is a key pinned to a byte position, the unit of bulk
// construction.
type Anchor struct {
	Pos int
	Key Key
}

// BuildTree constructs a tree of n bytes directly from anchors sorted
// ascending by position (ties in any order), all with Pos < n. It produces
// the same mark multiset as splicing each key in individually, in one
// linear pass.
func BuildTree(n int, anchors []Anchor, arity int, reb RebalanceConfig, logger zerolog.Logger) *Tree {
	t := NewTree(arity, reb, logger)

	b := newExtentBuilder()
	filled := 0
	i := 0
	for i < len(anchors) {
		pos := anchors[i].Pos
		utils.Assert(pos >= filled, "anchors must be sorted by position")

		var keys []Key
		for i < len(anchors) && anchors[i].Pos == pos {
			keys = append(keys, anchors[i].Key)
			i++
		}

		b.pushGap(pos - filled)
		next := n
		if i < len(anchors) {
			next = anchors[i].Pos
		}
		b.push(next-pos, sortKeys(keys))
		filled = next
	}
	b.pushGap(n - filled)

	rebuilt := b.finish()
	leaves := t.chunkLeaves(rebuilt)
	extentScratch.Put(rebuilt)
	t.spliceLeaves(0, leaves)
	return t
}
