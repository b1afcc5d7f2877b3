package marktree

import (
	"math/rand"
	"testing"
)

func BenchmarkInsert(b *testing.B) {
	tree := New[uint64](1 << 20)
	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(rng.Intn(1<<19), uint64(i)%(1<<47))
		if (i+1)%(1<<16) == 0 {
			b.StopTimer()
			tree = New[uint64](1 << 20)
			b.StartTimer()
		}
	}
}

func BenchmarkGet(b *testing.B) {
	tree := New[uint64](1 << 20)
	for i := 0; i < 10000; i++ {
		tree.Insert(i*100, uint64(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Get(uint64(i % 10000))
	}
}

func BenchmarkShift(b *testing.B) {
	tree := New[uint64](1 << 20)
	for i := 0; i < 10000; i++ {
		tree.Insert(i*100, uint64(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		at := (i * 997) % (1 << 19)
		tree.Shift(at, at, 1)
		tree.Shift(at, at+1, 0)
	}
}

func BenchmarkRangeScan(b *testing.B) {
	tree := New[uint64](1 << 20)
	for i := 0; i < 10000; i++ {
		tree.Insert(i*100, uint64(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it := tree.Range(1<<18, 1<<18+10000)
		for it.Next() {
		}
	}
}

func BenchmarkDelete(b *testing.B) {
	tree := New[uint64](1 << 20)
	filled := 0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if filled == 0 {
			b.StopTimer()
			tree = New[uint64](1 << 20)
			for j := 0; j < 10000; j++ {
				tree.Insert(j*100, uint64(j))
			}
			filled = 10000
			b.StartTimer()
		}
		filled--
		tree.Delete(uint64(filled))
	}
}
