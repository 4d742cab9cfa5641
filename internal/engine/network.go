package engine

import (
	"context"
	"math"
	"math/bits"
	"sync"

	"github.com/sort-bench/pkg/model"
	"github.com/sort-bench/pkg/parallel"
)

// MaxValue returns the largest value of T, used as the padding sentinel.
func MaxValue[T Element]() T {
	var v T
	switch any(v).(type) {
	case int32:
		v = T(any(int32(math.MaxInt32)).(int32))
	case int64:
		v = T(any(int64(math.MaxInt64)).(int64))
	}
	return v
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Pad returns a copy of seq extended to NextPowerOfTwo(len(seq)) with MaxValue.
// The sentinels sort to the tail, so the first len(seq) elements of the
// sorted copy are the sorted input.
func Pad[T Element](seq []T) []T {
	padded := make([]T, NextPowerOfTwo(len(seq)))
	n := copy(padded, seq)
	sentinel := MaxValue[T]()
	for i := n; i < len(padded); i++ {
		padded[i] = sentinel
	}
	return padded
}

// NetworkLevels returns the number of compare levels of a bitonic network over m = 2^k elements.
func NetworkLevels(m int) int {
	k := bits.Len(uint(m)) - 1
	if k <= 0 {
		return 0
	}
	return k * (k + 1) / 2
}

// bitonicSort orders a[lo:lo+count] in the given direction; count is a power of two.
func bitonicSort[T Element](a []T, lo, count int, ascending bool) {
	if count <= 1 {
		return
	}
	half := count / 2
	bitonicSort(a, lo, half, true)
	bitonicSort(a, lo+half, half, false)
	bitonicMerge(a, lo, count, ascending)
}

// bitonicMerge turns the bitonic run a[lo:lo+count] into a monotonic one.
func bitonicMerge[T Element](a []T, lo, count int, ascending bool) {
	if count <= 1 {
		return
	}
	half := count / 2
	for i := lo; i < lo+half; i++ {
		compareSwapDir(a, i, i+half, ascending)
	}
	bitonicMerge(a, lo, half, ascending)
	bitonicMerge(a, lo+half, half, ascending)
}

func compareSwapDir[T Element](a []T, i, j int, ascending bool) {
	if (ascending && a[i] > a[j]) || (!ascending && a[i] < a[j]) {
		a[i], a[j] = a[j], a[i]
	}
}

type bitonicSorter[T Element] struct {
	base

	mu   sync.Mutex
	pool *parallel.Pool
	gen  *parallel.Generation
}

func newBitonicSorter[T Element](opts Options) *bitonicSorter[T] {
	s := &bitonicSorter[T]{base: newBase(model.StrategyBitonic, opts)}
	if s.opts.ParallelNetwork {
		s.pool = parallel.NewPool(parallel.DefaultPoolConfig().WithWorkers(s.opts.Workers).WithMetrics())
		s.gen = s.pool.NewGeneration()
	}
	return s
}

func (s *bitonicSorter[T]) Sort(ctx context.Context, seq []T) (*model.RunStats, error) {
	stats := s.newStats(len(seq))
	if len(seq) <= 1 {
		return stats, nil
	}

	padded := Pad(seq)
	stats.Padded = len(padded)
	s.log.Debug("padded %d elements to %d", len(seq), len(padded))

	if s.pool == nil {
		if err := ctx.Err(); err != nil {
			return stats, s.interrupted(stats, err)
		}
		stats.Workers = 1
		bitonicSort(padded, 0, len(padded), true)
		stats.Rounds = NetworkLevels(len(padded))
		stats.Tasks = 1
	} else if err := s.sortLevels(ctx, padded, stats); err != nil {
		return stats, s.interrupted(stats, err)
	}

	copy(seq, padded[:len(seq)])
	return stats, nil
}

// sortLevels runs the iterative network. Level (k, j) compares i with i^j
// for every i whose partner lies above it; the m/2 such pairs are split into
// contiguous pair ranges, one task each, and a barrier closes the level.
func (s *bitonicSorter[T]) sortLevels(ctx context.Context, a []T, stats *model.RunStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recordPool(stats, s.pool, s.pool.Metrics())

	m := len(a)
	chunks := model.Full(m / 2).Partition(s.opts.Workers)
	for k := 2; k <= m; k <<= 1 {
		for j := k >> 1; j > 0; j >>= 1 {
			for _, c := range chunks {
				if c.Empty() {
					continue
				}
				stats.Tasks++
				s.gen.Submit(ctx, func() {
					for p := c.Lo; p < c.Hi; p++ {
						i := (p/j)*2*j + p%j
						compareSwapDir(a, i, i+j, i&k == 0)
					}
				})
			}
			if err := s.gen.Await(ctx); err != nil {
				return err
			}
			s.endRound(stats)
		}
	}
	return nil
}

func (s *bitonicSorter[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		return s.pool.Close()
	}
	return nil
}
