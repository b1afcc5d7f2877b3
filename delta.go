package marktree

import "github.com/scigolib/marktree/internal/utils"

// Delta describes one text edit: the bytes in [Start, End) were replaced
// by Insert fresh bytes.
type Delta struct {
	Start  int
	End    int
	Insert int
}

// Edit applies a batch of edits as one Shift per delta. Deltas must be
// sorted descending by start and must not overlap, so that applying one
// never invalidates the byte indices of the next.
func (t *MarkTree[ID]) Edit(deltas []Delta) {
	for i, d := range deltas {
		if d.Start < 0 || d.Start > d.End {
			utils.Violate(utils.OpOutOfRange, "invalid delta range %d..%d", d.Start, d.End)
		}
		if d.Insert < 0 {
			utils.Violate(utils.OpOutOfRange, "delta cannot insert %d bytes", d.Insert)
		}
		if i > 0 && d.End > deltas[i-1].Start {
			utils.Violate(utils.OpOutOfRange,
				"deltas must be sorted descending and disjoint: %d..%d follows %d..%d",
				d.Start, d.End, deltas[i-1].Start, deltas[i-1].End)
		}
		t.Shift(d.Start, d.End, d.Insert)
	}
}
