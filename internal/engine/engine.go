// Package engine implements the sorting strategies. Every parallel strategy
// decomposes one shared slice into disjoint model.Range windows and joins
// them through either a fork/join tree or pool generation barriers.
package engine

import (
	"context"
	"fmt"

	apperrors "github.com/sort-bench/pkg/errors"
	"github.com/sort-bench/pkg/model"
	"github.com/sort-bench/pkg/parallel"
	"github.com/sort-bench/pkg/utils"
)

// Element is the set of key types the engine sorts.
type Element interface {
	int32 | int64
}

// Sorter sorts a slice in place.
type Sorter[T Element] interface {
	// Name returns the strategy name.
	Name() string

	// Sort orders seq non-decreasingly in place. After a non-nil error the
	// contents of seq are an unspecified permutation of the input, and no
	// task of this call is still running.
	Sort(ctx context.Context, seq []T) (*model.RunStats, error)

	// Close releases the sorter's workers.
	Close() error
}

const (
	DefaultTranspositionThreshold = 1000
	DefaultMergeThreshold         = 1000
	DefaultFallbackFactor         = 10
)

// Options configures the sorters.
type Options struct {
	// Workers bounds concurrent execution units. Default: utils.AvailableCPUs().
	Workers int

	// TranspositionThreshold is the leaf size of the per-phase split.
	TranspositionThreshold int

	// MergeThreshold is the leaf size below which merge sort falls back to the kernel.
	MergeThreshold int

	// FallbackFactor: bucket sort runs the kernel alone when n < Workers*FallbackFactor.
	FallbackFactor int

	// DefensivePass makes merge sort finish with one full kernel pass.
	DefensivePass bool

	// ParallelNetwork runs each bitonic level as one pool generation.
	ParallelNetwork bool

	// CheckDisjoint claims every task range in a RangeGuard.
	CheckDisjoint bool

	// OnRound is called after every synchronization round with the 1-based round number.
	OnRound func(round int)

	Logger utils.Logger
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() Options {
	return Options{
		Workers:                utils.AvailableCPUs(),
		TranspositionThreshold: DefaultTranspositionThreshold,
		MergeThreshold:         DefaultMergeThreshold,
		FallbackFactor:         DefaultFallbackFactor,
		DefensivePass:          true,
		Logger:                 utils.GetGlobalLogger(),
	}
}

func (o Options) normalized() Options {
	if o.Workers <= 0 {
		o.Workers = utils.AvailableCPUs()
	}
	if o.TranspositionThreshold <= 0 {
		o.TranspositionThreshold = DefaultTranspositionThreshold
	}
	if o.MergeThreshold <= 0 {
		o.MergeThreshold = DefaultMergeThreshold
	}
	if o.FallbackFactor <= 0 {
		o.FallbackFactor = DefaultFallbackFactor
	}
	if o.Logger == nil {
		o.Logger = utils.GetGlobalLogger()
	}
	return o
}

// base holds what every strategy shares.
type base struct {
	kind model.StrategyType
	opts Options
	log  utils.Logger
}

func newBase(kind model.StrategyType, opts Options) base {
	opts = opts.normalized()
	return base{
		kind: kind,
		opts: opts,
		log:  opts.Logger.WithField("strategy", kind.String()),
	}
}

func (b *base) Name() string {
	return b.kind.String()
}

func (b *base) newStats(n int) *model.RunStats {
	return &model.RunStats{
		Strategy: b.kind.String(),
		Size:     n,
		Workers:  b.opts.Workers,
	}
}

// endRound records a completed synchronization round.
func (b *base) endRound(stats *model.RunStats) {
	stats.Rounds++
	if b.opts.OnRound != nil {
		b.opts.OnRound(stats.Rounds)
	}
}

func (b *base) guard(n int) *RangeGuard {
	if !b.opts.CheckDisjoint {
		return nil
	}
	return NewRangeGuard(n)
}

// forkDelta returns the fork/join children started since the given counts.
func forkDelta(fj *parallel.ForkJoin, spawned, inline int64) (int64, int64) {
	s, i := fj.Tasks()
	return s - spawned, i - inline
}

// recordPool copies the pool counters accumulated since before into stats.
func (b *base) recordPool(stats *model.RunStats, pool *parallel.Pool, before parallel.PoolMetrics) {
	m := pool.Metrics()
	stats.Skipped = m.SkippedTasks - before.SkippedTasks
	b.log.Debug("%d generations, %d tasks (%d skipped) in %v",
		m.Generations-before.Generations, m.TotalTasks-before.TotalTasks,
		stats.Skipped, m.TotalDuration-before.TotalDuration)
}

func (b *base) interrupted(stats *model.RunStats, err error) error {
	b.log.Warn("interrupted after %d rounds: %v", stats.Rounds, err)
	return apperrors.Wrap(apperrors.CodeInterrupted,
		fmt.Sprintf("%s interrupted after %d rounds", b.kind, stats.Rounds), err)
}
