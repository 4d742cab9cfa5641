package engine

import (
	"context"
	"sync/atomic"

	"github.com/sort-bench/pkg/model"
	"github.com/sort-bench/pkg/parallel"
)

// transpositionSorter runs odd-even transposition for exactly n phases.
// Each phase splits the range down to TranspositionThreshold, sweeps the
// phase's pairs inside every leaf, and fixes each split-point pair after its
// two halves joined. The full join of a phase is its barrier.
type transpositionSorter[T Element] struct {
	base
	fj *parallel.ForkJoin
}

func newTranspositionSorter[T Element](opts Options) *transpositionSorter[T] {
	s := &transpositionSorter[T]{base: newBase(model.StrategyTransposition, opts)}
	s.fj = parallel.NewForkJoin(s.opts.Workers)
	return s
}

type phaseState[T Element] struct {
	seq    []T
	parity int
	guard  *RangeGuard
	tasks  atomic.Int64
}

func (s *transpositionSorter[T]) Sort(ctx context.Context, seq []T) (*model.RunStats, error) {
	n := len(seq)
	stats := s.newStats(n)
	if n <= 1 {
		return stats, nil
	}

	st := &phaseState[T]{seq: seq, guard: s.guard(n)}
	spawned, inline := s.fj.Tasks()
	full := model.Full(n)
	for phase := 0; phase < n; phase++ {
		if err := ctx.Err(); err != nil {
			stats.Tasks = st.tasks.Load()
			stats.Spawned, stats.Inline = forkDelta(s.fj, spawned, inline)
			return stats, s.interrupted(stats, err)
		}
		st.parity = phase % 2
		s.sweep(st, full)
		s.endRound(stats)
	}

	stats.Tasks = st.tasks.Load()
	stats.Spawned, stats.Inline = forkDelta(s.fj, spawned, inline)
	s.log.Debug("%d phases, %d tasks (%d spawned, %d inline)", stats.Rounds, stats.Tasks, stats.Spawned, stats.Inline)
	return stats, nil
}

func (s *transpositionSorter[T]) sweep(st *phaseState[T], r model.Range) {
	st.tasks.Add(1)
	if r.Len() <= s.opts.TranspositionThreshold {
		release := st.guard.Claim(r)
		defer release()
		compareSwapParity(st.seq, r, st.parity)
		return
	}

	left, right := r.Split()
	s.fj.Fork2(
		func() { s.sweep(st, left) },
		func() { s.sweep(st, right) },
	)

	// boundary pair straddling the split point
	mid := left.Hi
	if (mid-1)%2 == st.parity {
		release := st.guard.Claim(model.NewRange(mid-1, mid+1))
		defer release()
		if st.seq[mid-1] > st.seq[mid] {
			st.seq[mid-1], st.seq[mid] = st.seq[mid], st.seq[mid-1]
		}
	}
}

func (s *transpositionSorter[T]) Close() error { return nil }
