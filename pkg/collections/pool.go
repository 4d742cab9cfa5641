// Package collections provides generic data structures used by the sorting engine.
package collections

import (
	"sync"
)

// SlicePool is a generic pool of reusable slices.
// Merge steps borrow scratch buffers from it instead of allocating one per merge.
type SlicePool[T any] struct {
	pool       sync.Pool
	initialCap int
}

// NewSlicePool creates a new slice pool with the given initial capacity.
func NewSlicePool[T any](initialCap int) *SlicePool[T] {
	if initialCap <= 0 {
		initialCap = 256
	}
	p := &SlicePool[T]{initialCap: initialCap}
	p.pool.New = func() any {
		s := make([]T, 0, initialCap)
		return &s
	}
	return p
}

// Get gets an empty slice from the pool.
func (p *SlicePool[T]) Get() *[]T {
	return p.pool.Get().(*[]T)
}

// GetN gets a slice of length n from the pool, growing it if its capacity is short.
// The contents are unspecified.
func (p *SlicePool[T]) GetN(n int) *[]T {
	s := p.Get()
	if cap(*s) < n {
		*s = make([]T, n)
	} else {
		*s = (*s)[:n]
	}
	return s
}

// Put returns a slice to the pool after truncating it.
func (p *SlicePool[T]) Put(s *[]T) {
	if s == nil {
		return
	}
	*s = (*s)[:0]
	p.pool.Put(s)
}
