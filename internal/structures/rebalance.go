// Copyright (c) 2025 SciGo MarkTree Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package structures

// Leaf-level rebalancing.
//
// Splices re-chunk only the leaves they touch and leave the last chunk
// short, so a shift-heavy workload can leave the leaf level sparser than
// one extent-chunking pass over the whole tree would produce. By
// default nothing is done about it: sparseness costs memory and a little
// depth, never correctness. Lazy mode watches the underfilled ratio and
// compacts the leaf level once it crosses a threshold; Compact can always
// be called manually.
//
// There is deliberately no background mode: the tree is single-threaded
// and non-suspending, so all compaction happens inline in the mutating
// call.

// RebalanceMode selects when the leaf level is compacted.
type RebalanceMode int

const (
	// RebalanceNone performs no automatic compaction.
	RebalanceNone RebalanceMode = iota
	// RebalanceLazy compacts when the underfilled ratio crosses the
	// configured threshold after a splice.
	RebalanceLazy
)

// RebalanceConfig configures automatic leaf compaction.
type RebalanceConfig struct {
	Mode RebalanceMode

	// Threshold is the underfilled/total leaf ratio that triggers a
	// compaction in lazy mode.
	Threshold float64

	// MinLeaves suppresses compaction below this leaf count; tiny trees
	// are not worth the churn.
	MinLeaves int
}

// DefaultLazyConfig returns the lazy-mode defaults.
func DefaultLazyConfig() RebalanceConfig {
	return RebalanceConfig{
		Mode:      RebalanceLazy,
		Threshold: 0.3,
		MinLeaves: 8,
	}
}

// LeafStats reports leaf-level occupancy.
type LeafStats struct {
	Leaves      int
	Underfilled int
}

// Stats returns current leaf-level occupancy counts.
func (t *Tree) Stats() LeafStats {
	return LeafStats{Leaves: t.leaves, Underfilled: t.underfilled}
}

// isUnderfilled reports whether the leaf holds fewer extents than half the
// arity.
func (t *Tree) isUnderfilled(l *Leaf) bool {
	return len(l.entries)*2 < t.arity
}

func (t *Tree) noteLeafAdded(l *Leaf) {
	t.leaves++
	if t.isUnderfilled(l) {
		t.underfilled++
	}
}

func (t *Tree) noteLeafRemoved(l *Leaf) {
	if len(l.entries) == 0 {
		// The empty placeholder leaf of a fresh tree is never counted.
		return
	}
	t.leaves--
	if t.isUnderfilled(l) {
		t.underfilled--
	}
}

// maybeRebalance runs after every splice.
func (t *Tree) maybeRebalance() {
	if t.reb.Mode != RebalanceLazy || t.leaves < t.reb.MinLeaves {
		return
	}
	if float64(t.underfilled) < t.reb.Threshold*float64(t.leaves) {
		return
	}
	t.Compact()
}

// Compact rebuilds the leaf level at full occupancy. The mark multiset and
// every byte coordinate are preserved; only leaf boundaries move.
func (t *Tree) Compact() {
	if t.empty() {
		return
	}

	before := t.Stats()

	out := extentScratch.Get()
	t.collectExtents(t.root, &out)
	t.leaves = 0
	t.underfilled = 0

	b := newExtentBuilder()
	for _, e := range out {
		b.pushExtent(e)
	}
	extentScratch.Put(out)

	rebuilt := b.finish()
	leaves := t.chunkLeaves(rebuilt)
	extentScratch.Put(rebuilt)

	t.root = buildUp(leaves)

	t.logger.Debug().
		Int("leaves_before", before.Leaves).
		Int("underfilled_before", before.Underfilled).
		Int("leaves_after", t.leaves).
		Msg("compacted leaf level")
}

// collectExtents appends every extent below n in order.
func (t *Tree) collectExtents(n *node, out *[]Extent) {
	if n.height == 0 {
		*out = append(*out, n.leaf.entries...)
		return
	}
	for _, c := range n.children {
		t.collectExtents(c, out)
	}
}
