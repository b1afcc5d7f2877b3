package structures

import "fmt"

// CheckInvariants resummarizes the whole tree and compares it with the
// stored summaries, and verifies the structural invariants. It is meant
// for tests and debugging; it visits every node.
func (t *Tree) CheckInvariants() error {
	leaves, err := t.checkNode(t.root, t.root.height, true)
	if err != nil {
		return err
	}
	counted := leaves
	if t.empty() {
		counted = 0
	}
	if counted != t.leaves {
		return fmt.Errorf("leaf count %d does not match tracked count %d", counted, t.leaves)
	}
	return nil
}

func (t *Tree) checkNode(n *node, height int, isRoot bool) (int, error) {
	if n.height != height {
		return 0, fmt.Errorf("node height %d does not match expected depth %d", n.height, height)
	}

	if n.height == 0 {
		if n.leaf == nil {
			return 0, fmt.Errorf("leaf node without a leaf")
		}
		if len(n.leaf.entries) > t.arity {
			return 0, fmt.Errorf("leaf holds %d extents, arity is %d", len(n.leaf.entries), t.arity)
		}
		if len(n.leaf.entries) == 0 && !isRoot {
			return 0, fmt.Errorf("empty leaf below the root")
		}
		for i := range n.leaf.entries {
			if n.leaf.entries[i].length < 1 {
				return 0, fmt.Errorf("extent %d has non-positive length %d", i, n.leaf.entries[i].length)
			}
		}
		s := n.leaf.Summarize()
		if !s.Equals(&n.summary) {
			return 0, fmt.Errorf("leaf summary (%d bytes) disagrees with its extents (%d bytes)",
				n.summary.Bytes, s.Bytes)
		}
		return 1, nil
	}

	if len(n.children) == 0 || len(n.children) > fanout {
		return 0, fmt.Errorf("internal node has %d children, fanout is %d", len(n.children), fanout)
	}
	if isRoot && len(n.children) < 2 {
		return 0, fmt.Errorf("internal root has a single child")
	}

	var s Summary
	leaves := 0
	for _, c := range n.children {
		k, err := t.checkNode(c, height-1, false)
		if err != nil {
			return 0, err
		}
		leaves += k
		cs := c.summary
		s.Add(&cs)
	}
	if !s.Equals(&n.summary) {
		return 0, fmt.Errorf("internal summary (%d bytes) disagrees with the fold of its children (%d bytes)",
			n.summary.Bytes, s.Bytes)
	}
	return leaves, nil
}
