// Package bench drives benchmark runs: it generates the input, times every
// selected strategy over repeated sorts of a private copy, verifies each
// result and aggregates the measurements.
package bench

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/sort-bench/internal/engine"
	"github.com/sort-bench/internal/statistics"
	apperrors "github.com/sort-bench/pkg/errors"
	"github.com/sort-bench/pkg/metrics"
	"github.com/sort-bench/pkg/model"
	"github.com/sort-bench/pkg/parallel"
	"github.com/sort-bench/pkg/pprof"
	"github.com/sort-bench/pkg/telemetry"
	"github.com/sort-bench/pkg/utils"
)

// Config describes one benchmark run.
type Config struct {
	Size       int
	Seed       uint64
	Repeat     int
	Strategies []model.StrategyType
	Engine     engine.Options

	// Pprof, when enabled, wraps every strategy in its own profiling session.
	Pprof *pprof.Config
}

// SorterFactory builds the sorter for a strategy.
type SorterFactory func(kind model.StrategyType) (engine.Sorter[int32], error)

// Runner executes benchmark runs.
type Runner struct {
	cfg       Config
	newSorter SorterFactory
	clock     utils.Clock
	timer     *utils.Timer
	metrics   *metrics.Collector
	logger    utils.Logger

	progressInterval time.Duration
	onProgress       func(completed, total int64)
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock sets the clock used to time sorts.
func WithClock(clock utils.Clock) Option {
	return func(r *Runner) { r.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger utils.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithMetrics records every sort into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) { r.metrics = c }
}

// WithSorterFactory replaces the engine factory.
func WithSorterFactory(f SorterFactory) Option {
	return func(r *Runner) { r.newSorter = f }
}

// WithTimer sets the phase timer.
func WithTimer(t *utils.Timer) Option {
	return func(r *Runner) { r.timer = t }
}

// WithProgress reports completed sorts every interval.
func WithProgress(interval time.Duration, fn func(completed, total int64)) Option {
	return func(r *Runner) {
		r.progressInterval = interval
		r.onProgress = fn
	}
}

// NewRunner validates cfg and creates a Runner.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if cfg.Size < 0 {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "negative input size %d", cfg.Size)
	}
	if cfg.Repeat < 1 {
		cfg.Repeat = 1
	}
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = model.AllStrategies()
	}
	if cfg.Engine.Workers <= 0 {
		cfg.Engine.Workers = utils.AvailableCPUs()
	}

	r := &Runner{
		cfg:    cfg,
		clock:  utils.NewRealClock(),
		logger: utils.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.timer == nil {
		r.timer = utils.NewTimer("sortbench", utils.WithLogger(r.logger))
	}
	if r.newSorter == nil {
		factory := engine.NewFactory[int32](r.cfg.Engine)
		r.newSorter = factory.Create
	}
	return r, nil
}

// Timer returns the phase timer.
func (r *Runner) Timer() *utils.Timer {
	return r.timer
}

// Run benchmarks every configured strategy. A cancelled ctx stops the run
// after the current sort; the partial summary is returned with an
// INTERRUPTED error.
func (r *Runner) Run(ctx context.Context) (*model.Summary, error) {
	summary := &model.Summary{
		RunID:     uuid.NewString(),
		StartedAt: r.clock.Now(),
		Seed:      r.cfg.Seed,
		Size:      r.cfg.Size,
		Workers:   r.cfg.Engine.Workers,
	}
	log := r.logger.WithField("run_id", summary.RunID)

	ctx, span := telemetry.StartRun(ctx, summary.RunID, r.cfg.Size, r.cfg.Engine.Workers)
	defer span.End()

	var input []int32
	_, err := r.timer.TimeFuncWithError("generate", func() error {
		var genErr error
		input, genErr = GenerateContext(ctx, r.cfg.Size, r.cfg.Seed, r.cfg.Engine.Workers)
		return genErr
	})
	if err != nil {
		return summary, err
	}
	log.Info("generated %s elements (seed %d), %d workers",
		humanize.Comma(int64(len(input))), r.cfg.Seed, r.cfg.Engine.Workers)

	tracker := parallel.NewProgressTracker(int64(len(r.cfg.Strategies)*r.cfg.Repeat), r.onProgress, r.progressInterval)
	tracker.Start(ctx)
	defer tracker.Stop()

	for _, kind := range r.cfg.Strategies {
		var res model.BenchmarkResult
		files, err := pprof.RunWithProfiling(r.cfg.Pprof, kind.String(), func() error {
			res = r.runStrategy(ctx, summary.RunID, kind, input, tracker)
			return nil
		})
		if err != nil {
			log.Warn("profiling %s: %v", kind, err)
		}
		for _, f := range files {
			log.Debug("profile written: %s", f)
		}

		summary.Results = append(summary.Results, res)
		if res.Failed() {
			log.Warn("%s failed: %s", kind, res.Error)
		} else {
			log.Info("%s: mean %v over %d runs, %d rounds", kind, res.Mean, res.Repeats, res.Rounds)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			summary.Phases = r.timer.ToMap()
			return summary, apperrors.Wrap(apperrors.CodeInterrupted, "benchmark interrupted", ctxErr)
		}
	}

	summary.Phases = r.timer.ToMap()
	return summary, nil
}

// runStrategy sorts a fresh copy of input Repeat times with one sorter.
func (r *Runner) runStrategy(ctx context.Context, runID string, kind model.StrategyType, input []int32, tracker *parallel.ProgressTracker) model.BenchmarkResult {
	res := model.BenchmarkResult{
		RunID:    runID,
		Strategy: kind.String(),
		Size:     len(input),
		Workers:  r.cfg.Engine.Workers,
	}

	sorter, err := r.newSorter(kind)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer func() {
		if err := sorter.Close(); err != nil {
			r.logger.Warn("closing %s sorter: %v", kind, err)
		}
	}()

	durations := statistics.NewDurationRecorder()
	res.Correct = true

	for i := 0; i < r.cfg.Repeat; i++ {
		seq := slices.Clone(input)

		elapsed, stats, err := r.timeSort(ctx, sorter, kind, i, seq)
		tracker.Increment()

		ok := err == nil
		if ok {
			_, err = r.timer.TimeFuncWithError("verify", func() error {
				return Verify(input, seq)
			})
			ok = err == nil
		}
		if r.metrics != nil {
			r.metrics.ObserveRun(*stats, elapsed.Seconds(), ok)
		}
		if !ok {
			res.Correct = false
			res.Error = err.Error()
			if errors.Is(err, apperrors.ErrInterrupted) {
				break
			}
			continue
		}

		res.Rounds = stats.Rounds
		res.Padded = stats.Padded
		res.Fallback = stats.Fallback
		if recErr := durations.Record(elapsed); recErr != nil {
			r.logger.Debug("histogram: %v", recErr)
		}
	}

	d := durations.Stats()
	res.Repeats = d.Count
	res.Min, res.Mean, res.P50, res.P99, res.Max = d.Min, d.Mean, d.P50, d.P99, d.Max
	if res.Repeats == 0 {
		res.Correct = false
	}
	return res
}

// timeSort times a single Sort call. stats is never nil.
func (r *Runner) timeSort(ctx context.Context, sorter engine.Sorter[int32], kind model.StrategyType, repeat int, seq []int32) (time.Duration, *model.RunStats, error) {
	ctx, span := telemetry.StartSort(ctx, kind, repeat)

	phase := r.timer.Start(fmt.Sprintf("sort/%s", kind))
	start := r.clock.Now()
	stats, err := sorter.Sort(ctx, seq)
	elapsed := r.clock.Since(start)
	phase.Stop()

	if stats == nil {
		stats = &model.RunStats{Strategy: kind.String(), Size: len(seq), Workers: r.cfg.Engine.Workers}
	}
	telemetry.EndSort(span, *stats, err)
	return elapsed, stats, err
}
