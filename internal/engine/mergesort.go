package engine

import (
	"context"
	"sync/atomic"

	"github.com/sort-bench/pkg/collections"
	"github.com/sort-bench/pkg/model"
	"github.com/sort-bench/pkg/parallel"
)

// mergeSorter is the threshold fork/join merge sort. Leaves at or below
// MergeThreshold are sorted with the kernel; inner nodes fork both halves,
// join, and merge them through a pooled scratch buffer.
type mergeSorter[T Element] struct {
	base
	fj      *parallel.ForkJoin
	scratch *collections.SlicePool[T]
}

func newMergeSorter[T Element](opts Options) *mergeSorter[T] {
	s := &mergeSorter[T]{base: newBase(model.StrategyMergeSort, opts)}
	s.fj = parallel.NewForkJoin(s.opts.Workers)
	s.scratch = collections.NewSlicePool[T](2 * s.opts.MergeThreshold)
	return s
}

type mergeState[T Element] struct {
	ctx   context.Context
	seq   []T
	guard *RangeGuard
	tasks atomic.Int64
}

func (s *mergeSorter[T]) Sort(ctx context.Context, seq []T) (*model.RunStats, error) {
	n := len(seq)
	stats := s.newStats(n)
	if n <= 1 {
		return stats, nil
	}

	st := &mergeState[T]{ctx: ctx, seq: seq, guard: s.guard(n)}
	full := model.Full(n)
	spawned, inline := s.fj.Tasks()
	s.sortRange(st, full)
	stats.Tasks = st.tasks.Load()
	stats.Spawned, stats.Inline = forkDelta(s.fj, spawned, inline)
	if err := ctx.Err(); err != nil {
		return stats, s.interrupted(stats, err)
	}
	stats.Rounds = s.joinDepth(n)
	s.log.Debug("%d tasks (%d spawned, %d inline)", stats.Tasks, stats.Spawned, stats.Inline)

	if s.opts.DefensivePass {
		stats.DefensiveSwaps = BubbleSort(seq, full)
		if stats.DefensiveSwaps > 0 {
			s.log.Warn("defensive pass repaired %d swaps after merge", stats.DefensiveSwaps)
		}
	}
	return stats, nil
}

func (s *mergeSorter[T]) sortRange(st *mergeState[T], r model.Range) {
	if st.ctx.Err() != nil {
		return
	}
	st.tasks.Add(1)

	if r.Len() <= s.opts.MergeThreshold {
		release := st.guard.Claim(r)
		defer release()
		BubbleSort(st.seq, r)
		return
	}

	left, right := r.Split()
	s.fj.Fork2(
		func() { s.sortRange(st, left) },
		func() { s.sortRange(st, right) },
	)
	if st.ctx.Err() != nil {
		return
	}

	release := st.guard.Claim(r)
	defer release()
	s.merge(st.seq, left, right)
}

// merge combines the sorted adjacent ranges left and right in place.
func (s *mergeSorter[T]) merge(seq []T, left, right model.Range) {
	buf := s.scratch.GetN(left.Len() + right.Len())
	defer s.scratch.Put(buf)
	out := *buf

	i, j, k := left.Lo, right.Lo, 0
	for i < left.Hi && j < right.Hi {
		if seq[j] < seq[i] {
			out[k] = seq[j]
			j++
		} else {
			out[k] = seq[i]
			i++
		}
		k++
	}
	k += copy(out[k:], seq[i:left.Hi])
	copy(out[k:], seq[j:right.Hi])
	copy(seq[left.Lo:right.Hi], out)
}

// joinDepth returns the number of join levels of the recursion tree over n elements.
func (s *mergeSorter[T]) joinDepth(n int) int {
	depth := 0
	for n > s.opts.MergeThreshold {
		n = n - n/2
		depth++
	}
	return depth
}

func (s *mergeSorter[T]) Close() error { return nil }
