package marktree

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// sortedMarks collects and canonically orders a tree's marks so builds can
// be compared with insertion sequences: the tree only promises order by
// start, not among equal coordinates.
func sortedMarks(tree *MarkTree[uint64]) []mark {
	out := collect(tree.All())
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.span.Start != b.span.Start {
			return a.span.Start < b.span.Start
		}
		if a.span.End != b.span.End {
			return a.span.End < b.span.End
		}
		return a.id < b.id
	})
	return out
}

func checkBuild(t *testing.T, n int, ats, widths []int) {
	t.Helper()

	var marks []Mark[uint64]
	inserted := newTree(t, n)
	for i, a := range ats {
		width := 0
		if len(widths) > 0 {
			width = widths[i%len(widths)]
		}
		marks = append(marks, NewMark(uint64(i), a).Width(width))
		inserted.Insert(a, uint64(i), Width(width))
	}

	built := Build(n, marks, WithArity(4))
	built.AssertInvariants()
	require.Equal(t, inserted.Len(), built.Len())

	got := collect(built.All())
	require.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
		return got[i].span.Start < got[j].span.Start
	}) || len(got) < 2, "range output must ascend by start")

	require.Equal(t, sortedMarks(inserted), sortedMarks(built))
}

func TestBuild(t *testing.T) {
	checkBuild(t, 100, []int{0}, []int{1})
	checkBuild(t, 100, []int{1}, []int{1})
	checkBuild(t, 100, []int{1, 2}, []int{2, 2})
	checkBuild(t, 100, []int{1}, nil)
	checkBuild(t, 100, []int{0}, []int{1})
	checkBuild(t, 10000, []int{0, 923, 67, 923}, []int{1})
	checkBuild(t, 1000, []int{
		41, 1, 31, 74, 28, 34, 18, 78, 55, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}, []int{1, 1})
}

func TestBuildEmpty(t *testing.T) {
	tree := Build[uint64](64, nil)
	require.Equal(t, 64, tree.Len())
	requireMarks(t, tree)
	tree.AssertInvariants()

	tree.Insert(10, 1)
	requireMarks(t, tree, at(10, 10, 1))
}

func TestBuildRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(0xb111d))
	for round := 0; round < 25; round++ {
		k := rng.Intn(100)
		ats := make([]int, k)
		for i := range ats {
			ats[i] = rng.Intn(1000)
		}
		widths := make([]int, 1+rng.Intn(99))
		for i := range widths {
			widths[i] = 1 + rng.Intn(99)
		}
		checkBuild(t, 10000, ats, widths)
	}
}

func TestBuildArities(t *testing.T) {
	ats := []int{5, 0, 17, 17, 3, 92, 42, 0}
	widths := []int{0, 3, 7}

	var reference []mark
	for arity := 2; arity <= 7; arity++ {
		t.Run(fmt.Sprintf("arity=%d", arity), func(t *testing.T) {
			var marks []Mark[uint64]
			for i, a := range ats {
				marks = append(marks, NewMark(uint64(i), a).Width(widths[i%len(widths)]))
			}
			tree := Build(100, marks, WithArity(arity))
			tree.AssertInvariants()

			got := sortedMarks(tree)
			if reference == nil {
				reference = got
			} else {
				require.Equal(t, reference, got, "mark multiset must not depend on arity")
			}
		})
	}
}

func TestBuildBiases(t *testing.T) {
	marks := []Mark[uint64]{
		NewMark(uint64(0), 3).StartBias(BiasLeft),
		NewMark(uint64(1), 3),
		NewMark(uint64(2), 3).Width(4).StartBias(BiasLeft).EndBias(BiasLeft),
	}
	tree := Build(20, marks, WithArity(4))

	tree.Shift(3, 3, 2)
	span, ok := tree.Get(0)
	require.True(t, ok)
	require.Equal(t, Span{Start: 3, End: 3}, span)

	span, ok = tree.Get(1)
	require.True(t, ok)
	require.Equal(t, Span{Start: 5, End: 5}, span)

	span, ok = tree.Get(2)
	require.True(t, ok)
	require.Equal(t, Span{Start: 3, End: 9}, span)
}
