package engine

import (
	"context"
	"sync"

	"github.com/sort-bench/pkg/model"
	"github.com/sort-bench/pkg/parallel"
)

// bucketSorter partitions the slice into Workers buckets, sorts them in one
// pool generation, then combines adjacent groups of 1, 2, 4, ... buckets,
// one generation per doubling. The pool and its barrier live as long as the
// sorter; Sort calls on one sorter are serialized, and Close waits for a
// running Sort.
type bucketSorter[T Element] struct {
	base

	mu   sync.Mutex
	pool *parallel.Pool
	gen  *parallel.Generation
}

func newBucketSorter[T Element](opts Options) *bucketSorter[T] {
	s := &bucketSorter[T]{base: newBase(model.StrategyBucket, opts)}
	s.pool = parallel.NewPool(parallel.DefaultPoolConfig().WithWorkers(s.opts.Workers).WithMetrics())
	s.gen = s.pool.NewGeneration()
	return s
}

func (s *bucketSorter[T]) Sort(ctx context.Context, seq []T) (*model.RunStats, error) {
	n := len(seq)
	stats := s.newStats(n)
	if n <= 1 {
		return stats, nil
	}

	workers := s.opts.Workers
	full := model.Full(n)
	if n < workers*s.opts.FallbackFactor {
		s.log.Debug("fallback to kernel: %d < %d*%d", n, workers, s.opts.FallbackFactor)
		if err := ctx.Err(); err != nil {
			return stats, s.interrupted(stats, err)
		}
		BubbleSort(seq, full)
		stats.Fallback = true
		stats.Tasks = 1
		return stats, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recordPool(stats, s.pool, s.pool.Metrics())

	guard := s.guard(n)
	sortRange := func(r model.Range) func() {
		return func() {
			release := guard.Claim(r)
			defer release()
			BubbleSort(seq, r)
		}
	}

	buckets := full.Partition(workers)
	for _, b := range buckets {
		stats.Tasks++
		s.gen.Submit(ctx, sortRange(b))
	}
	if err := s.gen.Await(ctx); err != nil {
		return stats, s.interrupted(stats, err)
	}
	s.endRound(stats)

	// g counts buckets per sorted group
	for g := 1; g < workers; g *= 2 {
		for start := 0; start+g < workers; start += 2 * g {
			end := min(start+2*g, workers)
			stats.Tasks++
			s.gen.Submit(ctx, sortRange(model.Union(buckets[start], buckets[end-1])))
		}
		if err := s.gen.Await(ctx); err != nil {
			return stats, s.interrupted(stats, err)
		}
		s.endRound(stats)
	}
	return stats, nil
}

func (s *bucketSorter[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Close()
}
