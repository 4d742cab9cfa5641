package engine

import (
	"sync"

	"github.com/sort-bench/pkg/collections"
	apperrors "github.com/sort-bench/pkg/errors"
	"github.com/sort-bench/pkg/model"
)

// RangeGuard records the ranges held by running tasks and panics when a new
// claim overlaps one of them. A nil *RangeGuard accepts every claim.
type RangeGuard struct {
	mu   sync.Mutex
	n    int
	live *collections.Bitset
}

// NewRangeGuard creates a guard for a sequence of length n.
func NewRangeGuard(n int) *RangeGuard {
	return &RangeGuard{n: n, live: collections.NewBitset(n)}
}

// Claim marks r as held until the returned release func is called.
func (g *RangeGuard) Claim(r model.Range) (release func()) {
	if g == nil {
		return func() {}
	}
	r.MustValidate(g.n)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.live.AnyInRange(r.Lo, r.Hi) {
		panic(apperrors.Newf(apperrors.CodeInvalidRange, "range %s overlaps a range held by a running task", r))
	}
	g.live.SetRange(r.Lo, r.Hi)

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.live.ClearRange(r.Lo, r.Hi)
	}
}

// Held returns the number of indices currently claimed.
func (g *RangeGuard) Held() int {
	if g == nil {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.live.Count()
}
