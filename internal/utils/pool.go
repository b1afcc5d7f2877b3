package utils

import "sync"

// SlicePool recycles slices of T between tree edits. Splicing a span
// rebuilds extent lists from scratch, so the scratch slices churn heavily.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool returns a pool whose fresh slices have the given capacity.
func NewSlicePool[T any](capacity int) *SlicePool[T] {
	return &SlicePool[T]{
		pool: sync.Pool{
			New: func() interface{} {
				s := make([]T, 0, capacity)
				return &s
			},
		},
	}
}

// Get returns an empty slice from the pool.
func (p *SlicePool[T]) Get() []T {
	return (*(p.pool.Get().(*[]T)))[:0]
}

// Put returns a slice to the pool. The caller must not use it afterwards.
func (p *SlicePool[T]) Put(s []T) {
	var zero T
	for i := range s {
		s[i] = zero // Drop references so pooled memory does not pin keys.
	}
	s = s[:0]
	p.pool.Put(&s)
}
