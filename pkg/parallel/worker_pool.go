// Package parallel provides the execution machinery of the sorting engine:
// a persistent worker pool with a reusable generation barrier and a bounded
// fork/join scheduler.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ============================================================================
// Worker Pool Configuration
// ============================================================================

// PoolConfig configures the worker pool behavior.
type PoolConfig struct {
	// MaxWorkers is the number of persistent workers.
	// Default: runtime.GOMAXPROCS(0)
	MaxWorkers int

	// TaskBufferSize is the buffer size for the task channel.
	// Default: MaxWorkers * 2
	TaskBufferSize int

	// CollectMetrics enables collection of execution metrics.
	CollectMetrics bool
}

// DefaultPoolConfig returns a default pool configuration.
func DefaultPoolConfig() PoolConfig {
	workers := max(runtime.GOMAXPROCS(0), 1)
	return PoolConfig{
		MaxWorkers:     workers,
		TaskBufferSize: workers * 2,
	}
}

// WithWorkers returns a new config with the specified number of workers.
func (c PoolConfig) WithWorkers(n int) PoolConfig {
	c.MaxWorkers = n
	c.TaskBufferSize = n * 2
	return c
}

// WithMetrics returns a new config with metrics collection enabled.
func (c PoolConfig) WithMetrics() PoolConfig {
	c.CollectMetrics = true
	return c
}

// ============================================================================
// Execution Metrics
// ============================================================================

// PoolMetrics holds execution statistics.
type PoolMetrics struct {
	Generations       int64
	TotalTasks        int64
	SkippedTasks      int64
	TotalDuration     time.Duration
	MaxGenerationTime time.Duration
}

// ============================================================================
// Pool
// ============================================================================

// Pool is a persistent worker pool. Workers are spawned once in NewPool and
// live until Close; work is submitted in generations separated by barriers.
type Pool struct {
	config    PoolConfig
	workC     chan workItem
	closeOnce sync.Once
	closed    atomic.Bool

	mu      sync.Mutex
	metrics PoolMetrics
}

type workItem struct {
	ctx context.Context
	fn  func()
	gen *Generation
}

// NewPool creates a pool and starts its workers.
func NewPool(config PoolConfig) *Pool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultPoolConfig().MaxWorkers
	}
	if config.TaskBufferSize <= 0 {
		config.TaskBufferSize = config.MaxWorkers * 2
	}

	p := &Pool{
		config: config,
		workC:  make(chan workItem, config.TaskBufferSize),
	}
	for range config.MaxWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.gen.run(item.ctx, item.fn)
	}
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.config.MaxWorkers
}

// Close shuts down the pool. Calling Close multiple times is safe.
// A closed pool still accepts work and runs it on the submitting goroutine.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
	return nil
}

// NewGeneration returns a barrier bound to this pool. It may be reused for
// any number of rounds, one round at a time.
func (p *Pool) NewGeneration() *Generation {
	return &Generation{pool: p}
}

// Metrics returns the current execution metrics.
func (p *Pool) Metrics() PoolMetrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metrics
}

func (p *Pool) record(tasks, skipped int64, d time.Duration) {
	if !p.config.CollectMetrics {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics.Generations++
	p.metrics.TotalTasks += tasks
	p.metrics.SkippedTasks += skipped
	p.metrics.TotalDuration += d
	if d > p.metrics.MaxGenerationTime {
		p.metrics.MaxGenerationTime = d
	}
}

// ============================================================================
// Generation barrier
// ============================================================================

// Generation is one barrier-delimited batch of tasks. Submit adds tasks to
// the current round; Await blocks until all of them have finished and opens
// the next round.
type Generation struct {
	pool *Pool
	wg   sync.WaitGroup

	started   time.Time
	submitted int64
	skipped   atomic.Int64

	panicOnce sync.Once
	panicVal  any
}

// Submit schedules fn in the current round. Once ctx is done, queued tasks
// are drained without running.
func (g *Generation) Submit(ctx context.Context, fn func()) {
	if g.submitted == 0 {
		g.started = time.Now()
	}
	g.submitted++
	g.wg.Add(1)

	if g.pool.closed.Load() {
		g.run(ctx, fn)
		return
	}
	g.pool.workC <- workItem{ctx: ctx, fn: fn, gen: g}
}

func (g *Generation) run(ctx context.Context, fn func()) {
	defer g.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			g.panicOnce.Do(func() { g.panicVal = r })
		}
	}()

	if ctx.Err() != nil {
		g.skipped.Add(1)
		return
	}
	fn()
}

// Await waits for every task of the current round. A panic raised by a task
// is re-raised here on the caller's goroutine. If ctx was cancelled the
// context error is returned after the round has drained.
func (g *Generation) Await(ctx context.Context) error {
	g.wg.Wait()

	tasks, skipped := g.submitted, g.skipped.Swap(0)
	g.pool.record(tasks, skipped, time.Since(g.started))
	g.submitted = 0

	if g.panicVal != nil {
		r := g.panicVal
		g.panicVal = nil
		g.panicOnce = sync.Once{}
		panic(r)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("generation interrupted after %d tasks (%d skipped): %w", tasks, skipped, err)
	}
	return nil
}
