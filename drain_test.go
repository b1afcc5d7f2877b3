package marktree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func drainAll(d *DrainIter[uint64]) []mark {
	var out []mark
	for d.Next() {
		out = append(out, mark{span: d.Span(), id: d.ID()})
	}
	return out
}

func TestDrainSingle(t *testing.T) {
	tree := newTree(t, 10)

	tree.Insert(0, 0)
	requireMarks(t, tree, at(0, 0, 0))
	require.Equal(t, 10, tree.Len())

	require.Equal(t, []mark{at(0, 0, 0)}, drainAll(tree.Drain(0, 1)))
	requireMarks(t, tree)
	require.Equal(t, 10, tree.Len())

	tree.Insert(1, 1)
	requireMarks(t, tree, at(1, 1, 1))

	require.Empty(t, drainAll(tree.Drain(0, 1)))
	requireMarks(t, tree, at(1, 1, 1))

	require.Equal(t, []mark{at(1, 1, 1)}, drainAll(tree.Drain(0, 2)))
	requireMarks(t, tree)
	require.Equal(t, 10, tree.Len())
}

func TestDrainWindows(t *testing.T) {
	tree := newTree(t, 10)
	for i := uint64(0); i < 4; i++ {
		tree.Insert(int(i), i)
	}

	require.Equal(t, []mark{at(0, 0, 0)}, drainAll(tree.Drain(0, 1)))
	requireMarks(t, tree, at(1, 1, 1), at(2, 2, 2), at(3, 3, 3))

	require.Equal(t, []mark{at(1, 1, 1)}, drainAll(tree.Drain(1, 2)))
	requireMarks(t, tree, at(2, 2, 2), at(3, 3, 3))

	tree.Drain(2, 3).Close()
	requireMarks(t, tree, at(3, 3, 3))

	tree.Drain(3, 4).Close()
	requireMarks(t, tree)

	tree.Insert(0, 0)
	tree.Insert(0, 1)
	requireMarks(t, tree, at(0, 0, 0), at(0, 0, 1))

	tree.Drain(0, 0).Close()
	requireMarks(t, tree, at(0, 0, 0), at(0, 0, 1))

	tree.Drain(0, 1).Close()
	requireMarks(t, tree)
}

func TestBulkDrain(t *testing.T) {
	const n = 200
	tree := newTree(t, n)

	for i := uint64(0); i < 100; i++ {
		tree.Insert(int(i), i)
	}
	require.Equal(t, n, tree.Len())

	tree.Drain(0, 20).Close()
	it := tree.All()
	for i := uint64(20); i < 100; i++ {
		require.True(t, it.Next())
		require.Equal(t, i, it.ID())
	}
	require.False(t, it.Next())
	require.Equal(t, n, tree.Len())

	tree.Drain(80, 100).Close()
	it = tree.All()
	for i := uint64(20); i < 80; i++ {
		require.True(t, it.Next())
		require.Equal(t, i, it.ID())
	}
	require.False(t, it.Next())
	require.Equal(t, n, tree.Len())
	tree.AssertInvariants()
}

// TestDrainAbandoned checks that walking away from a drain still commits
// the remaining deletions.
func TestDrainAbandoned(t *testing.T) {
	tree := newTree(t, 10)
	for i := uint64(0); i < 6; i++ {
		tree.Insert(int(i), i)
	}

	d := tree.Drain(0, 6)
	require.True(t, d.Next())
	require.True(t, d.Next())
	require.Equal(t, uint64(1), d.ID())
	d.Close()

	requireMarks(t, tree)
	tree.AssertInvariants()

	// Close on an exhausted iterator is a no-op.
	d.Close()
}

func TestDrainRangedMarks(t *testing.T) {
	tree := newTree(t, 20)
	tree.Insert(0, 0, Width(3))
	tree.Insert(5, 1, Width(2))
	tree.Insert(9, 2)

	require.Equal(t, []mark{at(0, 3, 0), at(5, 7, 1)}, drainAll(tree.Drain(0, 6)))
	requireMarks(t, tree, at(9, 9, 2))
	require.Equal(t, 20, tree.Len())
}
