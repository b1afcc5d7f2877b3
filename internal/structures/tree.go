// Copyright (c) 2025 SciGo MarkTree Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package structures

import (
	"github.com/rs/zerolog"

	"github.com/scigolib/marktree/internal/utils"
)

// fanout is the maximum number of children of an internal node.
const fanout = 4

// node is a tree node. Leaves sit at height 0; every leaf is at the same
// depth. Internal nodes carry the fold of their children's summaries.
type node struct {
	summary  Summary
	height   int
	children []*node // height > 0
	leaf     *Leaf   // height == 0
}

func (n *node) dead() bool {
	if n.height == 0 {
		return n.leaf == nil
	}
	return len(n.children) == 0
}

// Tree is a fixed-fanout B-tree over extent leaves, navigated by the byte
// metric and accelerated by per-subtree id bags. All splicing funnels
// through Replace.
type Tree struct {
	root  *node
	arity int // max extents per leaf

	reb    RebalanceConfig
	logger zerolog.Logger

	leaves      int
	underfilled int
}

// NewTree returns an empty tree (zero bytes, no leaves yet).
func NewTree(arity int, reb RebalanceConfig, logger zerolog.Logger) *Tree {
	utils.Assert(arity >= 2, "leaf arity must be at least 2, got %d", arity)
	return &Tree{
		root:   &node{height: 0, leaf: &Leaf{}},
		arity:  arity,
		reb:    reb,
		logger: logger,
	}
}

// Len returns the total bytes spanned by the tree.
func (t *Tree) Len() int {
	return t.root.summary.Bytes
}

// Contains reports whether any key with the given id is anchored below the
// root.
func (t *Tree) Contains(id uint64) bool {
	return t.root.summary.IDs.Contains(id)
}

// Arity returns the leaf arity the tree was built with.
func (t *Tree) Arity() int {
	return t.arity
}

func (t *Tree) empty() bool {
	return t.root.height == 0 && len(t.root.leaf.entries) == 0
}

// Replace splices repl over the byte range [start, end).
//
// Every leaf the range touches is extracted, the concatenation of their
// extents is rebuilt around the replacement, and the result is chunked
// into fresh leaves and spliced back, splitting ancestors as needed.
func (t *Tree) Replace(start, end int, repl Replacement) {
	n := t.Len()
	utils.Assert(0 <= start && start <= end && end <= n,
		"replace range %d..%d out of bounds of tree of length %d", start, end, n)

	extents, spanStart := t.extractSpan(start, end)
	b := newExtentBuilder()
	replaceEntries(b, extents, start-spanStart, end-spanStart, repl)
	extentScratch.Put(extents)

	rebuilt := b.finish()
	leaves := t.chunkLeaves(rebuilt)
	extentScratch.Put(rebuilt)

	t.spliceLeaves(spanStart, leaves)
	t.maybeRebalance()
}

// extractSpan removes every leaf touching [start, end] from the tree and
// returns their extents in order, together with the byte offset the first
// removed leaf started at.
func (t *Tree) extractSpan(start, end int) ([]Extent, int) {
	out := extentScratch.Get()
	spanStart := -1
	t.extract(t.root, 0, start, end, &out, &spanStart)
	if spanStart < 0 {
		spanStart = 0
	}

	if t.root.dead() {
		t.root = &node{height: 0, leaf: &Leaf{}}
	}
	for t.root.height > 0 && len(t.root.children) == 1 {
		t.root = t.root.children[0]
	}
	return out, spanStart
}

// extract recurses below n, whose subtree starts at nodeStart. It returns
// the summary of everything removed and prunes emptied children.
func (t *Tree) extract(n *node, nodeStart, start, end int, out *[]Extent, spanStart *int) Summary {
	if n.height == 0 {
		if *spanStart < 0 {
			*spanStart = nodeStart
		}
		*out = append(*out, n.leaf.entries...)
		removed := n.summary
		t.noteLeafRemoved(n.leaf)
		n.leaf = nil
		n.summary = Summary{}
		return removed
	}

	var removed Summary
	offset := nodeStart
	kept := n.children[:0]
	for _, child := range n.children {
		childEnd := offset + child.summary.Bytes
		if childEnd >= start && offset <= end {
			r := t.extract(child, offset, start, end, out, spanStart)
			removed.Add(&r)
			if !child.dead() {
				kept = append(kept, child)
			}
		} else {
			kept = append(kept, child)
		}
		offset = childEnd
	}
	n.children = kept
	n.summary.Sub(&removed)
	return removed
}

// chunkLeaves cuts an extent list into leaves of at most arity extents:
// full chunks first, the remainder last.
func (t *Tree) chunkLeaves(extents []Extent) []*node {
	if len(extents) == 0 {
		return nil
	}
	var leaves []*node
	for len(extents) > 0 {
		k := min(t.arity, len(extents))
		entries := make([]Extent, k)
		copy(entries, extents[:k])
		extents = extents[k:]

		leaf := &Leaf{entries: entries}
		leaves = append(leaves, &node{height: 0, leaf: leaf, summary: leaf.Summarize()})
		t.noteLeafAdded(leaf)
	}
	return leaves
}

// spliceLeaves inserts the leaf nodes at byte offset pos, which always
// falls on a leaf boundary of the remaining tree.
func (t *Tree) spliceLeaves(pos int, leaves []*node) {
	if len(leaves) == 0 {
		return
	}

	if t.empty() {
		t.root = buildUp(leaves)
		return
	}

	if t.root.height == 0 {
		// The root is a lone kept leaf; the splice point can only be one
		// of its two edges.
		utils.Assert(pos == 0 || pos == t.root.summary.Bytes,
			"splice point %d does not fall on a leaf boundary", pos)
		nodes := make([]*node, 0, len(leaves)+1)
		if pos == 0 {
			nodes = append(nodes, leaves...)
			nodes = append(nodes, t.root)
		} else {
			nodes = append(nodes, t.root)
			nodes = append(nodes, leaves...)
		}
		t.root = buildUp(nodes)
		return
	}

	var added Summary
	for _, l := range leaves {
		added.Add(&l.summary)
	}

	extra := insertAt(t.root, 0, pos, leaves, &added)
	if len(extra) > 0 {
		nodes := append([]*node{t.root}, extra...)
		t.root = buildUp(nodes)
	}
}

// insertAt descends to the leaf level and splices the new leaf nodes in.
// Nodes that overflow split; the split-off right siblings bubble up.
// After the call n's summary is correct for its possibly reduced children.
func insertAt(n *node, nodeStart, pos int, leaves []*node, added *Summary) []*node {
	if n.height == 1 {
		idx := len(n.children)
		offset := nodeStart
		for i, c := range n.children {
			if offset >= pos {
				idx = i
				break
			}
			offset += c.summary.Bytes
		}
		n.children = append(n.children[:idx], append(leaves, n.children[idx:]...)...)
		return n.splitOverflow(added)
	}

	offset := nodeStart
	idx := len(n.children) - 1
	for i, c := range n.children {
		if offset+c.summary.Bytes >= pos {
			idx = i
			break
		}
		offset += c.summary.Bytes
	}

	extra := insertAt(n.children[idx], offset, pos, leaves, added)
	if len(extra) > 0 {
		n.children = append(n.children[:idx+1], append(extra, n.children[idx+1:]...)...)
	}
	return n.splitOverflow(added)
}

// splitOverflow grows n's summary by added, or splits n into evenly sized
// siblings when its children exceed the fanout. Returns the split-off
// right siblings.
func (n *node) splitOverflow(added *Summary) []*node {
	if len(n.children) <= fanout {
		n.summary.Add(added)
		return nil
	}

	groups := splitEven(n.children)
	n.children = groups[0]
	n.summary = foldChildren(n.children)

	extra := make([]*node, 0, len(groups)-1)
	for _, g := range groups[1:] {
		extra = append(extra, &node{
			height:   n.height,
			children: g,
			summary:  foldChildren(g),
		})
	}
	return extra
}

// splitEven partitions children into the fewest groups of at most fanout,
// sized as evenly as possible.
func splitEven(children []*node) [][]*node {
	k := (len(children) + fanout - 1) / fanout
	base := len(children) / k
	rem := len(children) % k

	groups := make([][]*node, 0, k)
	for i := 0; i < k; i++ {
		size := base
		if i < rem {
			size++
		}
		g := make([]*node, size)
		copy(g, children[:size])
		children = children[size:]
		groups = append(groups, g)
	}
	return groups
}

func foldChildren(children []*node) Summary {
	var s Summary
	for _, c := range children {
		sum := c.summary
		s.Add(&sum)
	}
	return s
}

// buildUp stacks same-height nodes into a single root.
func buildUp(nodes []*node) *node {
	for len(nodes) > 1 {
		groups := splitEven(nodes)
		parents := make([]*node, 0, len(groups))
		for _, g := range groups {
			parents = append(parents, &node{
				height:   g[0].height + 1,
				children: g,
				summary:  foldChildren(g),
			})
		}
		nodes = parents
	}
	return nodes[0]
}

// GetLeft returns the byte offset of the id's left anchor, descending into
// the first child whose summary contains the id.
func (t *Tree) GetLeft(id uint64) (int, bool) {
	n := t.root
	if !n.summary.IDs.Contains(id) {
		return 0, false
	}

	offset := 0
	for n.height > 0 {
		next := (*node)(nil)
		for _, c := range n.children {
			if c.summary.IDs.Contains(id) {
				next = c
				break
			}
			offset += c.summary.Bytes
		}
		utils.Assert(next != nil, "summaries said id %d is below this node", id)
		n = next
	}

	b, ok := n.leaf.getLeft(id)
	if !ok {
		return 0, false
	}
	return offset + b, true
}

// GetRight returns the byte offset of the id's right anchor, descending
// into the last child whose summary contains the id.
func (t *Tree) GetRight(id uint64) (int, bool) {
	n := t.root
	if !n.summary.IDs.Contains(id) {
		return 0, false
	}

	offset := n.summary.Bytes
	for n.height > 0 {
		next := (*node)(nil)
		for i := len(n.children) - 1; i >= 0; i-- {
			c := n.children[i]
			if c.summary.IDs.Contains(id) {
				next = c
				break
			}
			offset -= c.summary.Bytes
		}
		utils.Assert(next != nil, "summaries said id %d is below this node", id)
		n = next
	}

	b, ok := n.leaf.getRight(id)
	if !ok {
		return 0, false
	}
	return offset - b, true
}

// DeleteOne removes one anchor of the id, leftmost first, and returns its
// byte offset. The id must be present.
func (t *Tree) DeleteOne(id uint64) int {
	utils.Assert(t.Contains(id), "id %d is not in the tree", id)
	return t.deleteOne(t.root, 0, id)
}

func (t *Tree) deleteOne(n *node, offset int, id uint64) int {
	if n.height == 0 {
		off, ok := n.leaf.deleteKey(&n.summary, id)
		utils.Assert(ok, "leaf summary said id %d is here", id)
		return offset + off
	}

	for _, c := range n.children {
		if c.summary.IDs.Contains(id) {
			res := t.deleteOne(c, offset, id)
			_, ok := n.summary.IDs.Remove(id)
			utils.Assert(ok, "summary lost track of id %d", id)
			return res
		}
		offset += c.summary.Bytes
	}
	utils.Violate(utils.OpInvariantViolation, "summaries said id %d is below this node", id)
	return 0
}
