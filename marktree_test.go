package marktree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/marktree/internal/utils"
)

// mark pairs a span with its id for comparing iterator output.
type mark struct {
	span Span
	id   uint64
}

func at(start, end int, id uint64) mark {
	return mark{span: Span{Start: start, End: end}, id: id}
}

func collect(it *RangeIter[uint64]) []mark {
	var out []mark
	for it.Next() {
		out = append(out, mark{span: it.Span(), id: it.ID()})
	}
	return out
}

func requireMarks(t *testing.T, tree *MarkTree[uint64], want ...mark) {
	t.Helper()
	require.Equal(t, want, collect(tree.All()))
}

// newTree builds trees with a small arity so splits happen on tiny inputs.
func newTree(t *testing.T, n int) *MarkTree[uint64] {
	t.Helper()
	return New[uint64](n, WithArity(4))
}

func requireViolation(t *testing.T, op string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a %s panic", op)
		verr, ok := r.(*utils.ViolationError)
		require.True(t, ok, "panic value %v is not a ViolationError", r)
		require.Equal(t, op, verr.Op)
	}()
	f()
}

func TestEmpty(t *testing.T) {
	tree := newTree(t, 1)
	tree.Insert(0, 0)
	requireMarks(t, tree, at(0, 0, 0))
	require.Empty(t, collect(tree.Range(0, 0)))
	require.Equal(t, []mark{at(0, 0, 0)}, collect(tree.Range(0, 1)))

	// Default bias is right, so an insertion at the mark pushes it over.
	tree.Shift(0, 0, 1)
	requireMarks(t, tree, at(1, 1, 0))

	span, ok := tree.Delete(0)
	require.True(t, ok)
	require.Equal(t, Span{Start: 1, End: 1}, span)
	requireMarks(t, tree)
}

func TestRangeIter(t *testing.T) {
	tree := newTree(t, 1000)
	tree.Insert(0, 0)
	tree.Insert(1, 1)

	require.Empty(t, collect(tree.Range(0, 0)))
	require.Equal(t, []mark{at(0, 0, 0)}, collect(tree.Range(0, 1)))
	require.Equal(t, []mark{at(0, 0, 0), at(1, 1, 1)}, collect(tree.Range(0, 2)))
	require.Equal(t, []mark{at(1, 1, 1)}, collect(tree.Range(1, 2)))
	require.Empty(t, collect(tree.Range(2, 2)))

	for i := uint64(2); i < 100; i++ {
		tree.Insert(int(i), i)
	}
	tree.AssertInvariants()

	require.Empty(t, collect(tree.Range(0, 0)))
	require.Equal(t, []mark{at(0, 0, 0)}, collect(tree.Range(0, 1)))
	require.Equal(t, []mark{at(0, 0, 0), at(1, 1, 1)}, collect(tree.Range(0, 2)))
	require.Equal(t, []mark{at(1, 1, 1)}, collect(tree.Range(1, 2)))
	require.Empty(t, collect(tree.Range(2, 2)))

	require.Equal(t, []mark{at(0, 0, 0), at(1, 1, 1), at(2, 2, 2)}, collect(tree.Range(0, 3)))

	window := func(lo, hi uint64) []mark {
		var out []mark
		for i := lo; i < hi; i++ {
			out = append(out, at(int(i), int(i), i))
		}
		return out
	}
	require.Equal(t, window(20, 40), collect(tree.Range(20, 40)))
	require.Equal(t, window(80, 100), collect(tree.Range(80, 100)))
	require.Equal(t, window(80, 100), collect(tree.Range(80, 101)))
}

func TestSimpleInsert(t *testing.T) {
	tree := newTree(t, 2)
	tree.Insert(1, 0)
	requireMarks(t, tree, at(1, 1, 0))

	tree.Insert(1, 1)
	requireMarks(t, tree, at(1, 1, 0), at(1, 1, 1))

	tree.Insert(0, 2)
	requireMarks(t, tree, at(0, 0, 2), at(1, 1, 0), at(1, 1, 1))
}

func TestSmallInsert(t *testing.T) {
	tree := newTree(t, 5)
	for i := uint64(0); i < 5; i++ {
		tree.Insert(int(i), i)
		var want []mark
		for j := uint64(0); j <= i; j++ {
			want = append(want, at(int(j), int(j), j))
		}
		requireMarks(t, tree, want...)
	}
}

func TestSplit(t *testing.T) {
	tree := newTree(t, 100)
	var want []mark
	for i := uint64(0); i < 100; i++ {
		tree.Insert(int(i), i)
		want = append(want, at(int(i), int(i), i))
	}
	tree.AssertInvariants()
	requireMarks(t, tree, want...)
}

func TestBulkInsert(t *testing.T) {
	const n = 1000
	for arity := 2; arity <= 7; arity++ {
		t.Run(fmt.Sprintf("arity=%d", arity), func(t *testing.T) {
			tree := New[uint64](n, WithArity(arity))
			for i := uint64(0); i < 500; i++ {
				tree.Insert(int(i), i)
				require.Equal(t, n, tree.Len())

				if i%41 != 0 && i != 499 {
					continue
				}
				it := tree.All()
				for j := uint64(0); j <= i; j++ {
					require.True(t, it.Next())
					require.Equal(t, Span{Start: int(j), End: int(j)}, it.Span())
				}
				require.False(t, it.Next())
			}
			tree.AssertInvariants()
		})
	}
}

func TestSmoke(t *testing.T) {
	tree := newTree(t, 10)
	require.Equal(t, 10, tree.Len())
	tree.Insert(0, 0)
	tree.Insert(3, 1)
	requireMarks(t, tree, at(0, 0, 0), at(3, 3, 1))

	tree.Insert(3, 2)
	requireMarks(t, tree, at(0, 0, 0), at(3, 3, 1), at(3, 3, 2))

	tree.Insert(2, 4)
	requireMarks(t, tree, at(0, 0, 0), at(2, 2, 4), at(3, 3, 1), at(3, 3, 2))
	require.Equal(t, 10, tree.Len())
}

func TestGet(t *testing.T) {
	tree := newTree(t, 10)

	get := func(id uint64) (Span, bool) { return tree.Get(id) }

	tree.Insert(0, 0)
	tree.Insert(3, 1)
	tree.Insert(3, 2)
	tree.Insert(2, 4)

	span, ok := get(0)
	require.True(t, ok)
	require.Equal(t, Span{Start: 0, End: 0}, span)

	span, ok = get(1)
	require.True(t, ok)
	require.Equal(t, Span{Start: 3, End: 3}, span)

	span, ok = get(2)
	require.True(t, ok)
	require.Equal(t, Span{Start: 3, End: 3}, span)

	_, ok = get(3)
	require.False(t, ok)

	span, ok = get(4)
	require.True(t, ok)
	require.Equal(t, Span{Start: 2, End: 2}, span)
}

func TestDelete(t *testing.T) {
	tree := newTree(t, 10)
	tree.Insert(0, 0)
	tree.Insert(0, 1)
	requireMarks(t, tree, at(0, 0, 0), at(0, 0, 1))

	_, ok := tree.Delete(0)
	require.True(t, ok)
	requireMarks(t, tree, at(0, 0, 1))

	_, ok = tree.Delete(1)
	require.True(t, ok)
	requireMarks(t, tree)

	_, ok = tree.Delete(1)
	require.False(t, ok)
}

func TestBulkDelete(t *testing.T) {
	const k = 2000
	tree := newTree(t, 10000)
	for i := uint64(0); i < k; i++ {
		tree.Insert(int(i), i)
	}
	for i := uint64(0); i < k; i++ {
		span, ok := tree.Delete(i)
		require.True(t, ok)
		require.Equal(t, Span{Start: int(i), End: int(i)}, span)

		// A full suffix check per deletion would be quadratic; sample it.
		if i%97 != 0 && i != k-1 {
			continue
		}
		it := tree.All()
		for j := i + 1; j < k; j++ {
			require.True(t, it.Next(), "expected %d to remain after deleting %d", j, i)
			require.Equal(t, mark{span: Span{Start: int(j), End: int(j)}, id: j}, mark{span: it.Span(), id: it.ID()})
		}
		require.False(t, it.Next())
	}
	require.Equal(t, 10000, tree.Len())
	tree.AssertInvariants()
}

func TestDuplicateOffsets(t *testing.T) {
	tree := newTree(t, 10)
	for i := uint64(0); i < 1000; i++ {
		tree.Insert(0, i)
	}
	var want []mark
	for i := uint64(0); i < 1000; i++ {
		want = append(want, at(0, 0, i))
	}
	requireMarks(t, tree, want...)

	d := tree.Drain(0, 1)
	got := []mark{}
	for d.Next() {
		got = append(got, mark{span: d.Span(), id: d.ID()})
	}
	require.Equal(t, want, got)
	requireMarks(t, tree)
}

func TestBulkGet(t *testing.T) {
	const k = 4000
	tree := newTree(t, 10000)
	for i := uint64(0); i < k; i++ {
		tree.Insert(int(i), i)
	}
	for i := uint64(0); i < k; i++ {
		span, ok := tree.Get(i)
		require.True(t, ok)
		require.Equal(t, Span{Start: int(i), End: int(i)}, span)
	}
}

// TestNarrowIDType checks that ids narrower than 64 bits work unchanged.
func TestNarrowIDType(t *testing.T) {
	type noteID uint32

	tree := New[noteID](100)
	tree.Insert(10, noteID(3), Width(5))
	tree.Insert(2, noteID(9))

	span, ok := tree.Get(noteID(3))
	require.True(t, ok)
	require.Equal(t, Span{Start: 10, End: 15}, span)

	span, ok = tree.Delete(noteID(9))
	require.True(t, ok)
	require.Equal(t, Span{Start: 2, End: 2}, span)
}
