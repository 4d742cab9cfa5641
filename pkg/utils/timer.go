package utils

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one named, timed section of a benchmark run, such as
// "generate", "sort/bitonic" or "verify".
type Phase struct {
	Name      string
	StartTime time.Time
	Duration  time.Duration
	Runs      int
	running   bool
}

// PhaseTimer stops one phase; use it with defer.
type PhaseTimer struct {
	timer *Timer
	name  string
}

// Stop stops the phase and returns its accumulated duration.
func (pt *PhaseTimer) Stop() time.Duration {
	return pt.timer.StopPhase(pt.name)
}

// Timer accumulates wall-clock durations per phase. Starting a phase that
// already ran adds to its total, so repeated sorts of one strategy sum up.
// Timer is safe for concurrent use.
type Timer struct {
	mu      sync.Mutex
	name    string
	start   time.Time
	phases  map[string]*Phase
	order   []string
	logger  Logger
	enabled bool
	clock   Clock
}

// TimerOption configures a Timer instance.
type TimerOption func(*Timer)

// WithLogger sets the logger PrintSummary writes to.
func WithLogger(logger Logger) TimerOption {
	return func(t *Timer) {
		t.logger = logger
	}
}

// WithEnabled sets whether the timer records anything.
func WithEnabled(enabled bool) TimerOption {
	return func(t *Timer) {
		t.enabled = enabled
	}
}

// WithClock sets a custom clock.
func WithClock(clock Clock) TimerOption {
	return func(t *Timer) {
		t.clock = clock
	}
}

// NewTimer creates a new Timer with the given name and options.
func NewTimer(name string, opts ...TimerOption) *Timer {
	t := &Timer{
		name:    name,
		phases:  make(map[string]*Phase),
		enabled: true,
		clock:   NewRealClock(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.start = t.clock.Now()
	return t
}

// Start starts (or resumes) timing a phase.
func (t *Timer) Start(name string) *PhaseTimer {
	pt := &PhaseTimer{timer: t, name: name}
	if !t.enabled {
		return pt
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	phase, ok := t.phases[name]
	if !ok {
		phase = &Phase{Name: name}
		t.phases[name] = phase
		t.order = append(t.order, name)
	}
	phase.StartTime = t.clock.Now()
	phase.running = true
	return pt
}

// StopPhase stops a running phase and returns its accumulated duration.
// Stopping a phase that is not running has no effect.
func (t *Timer) StopPhase(name string) time.Duration {
	if !t.enabled {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	phase, ok := t.phases[name]
	if !ok {
		return 0
	}
	if phase.running {
		phase.Duration += t.clock.Since(phase.StartTime)
		phase.Runs++
		phase.running = false
	}
	return phase.Duration
}

// TimeFuncWithError times fn as one run of the named phase.
func (t *Timer) TimeFuncWithError(name string, fn func() error) (time.Duration, error) {
	pt := t.Start(name)
	err := fn()
	return pt.Stop(), err
}

// Duration returns the accumulated duration of a phase.
func (t *Timer) Duration(name string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if phase, ok := t.phases[name]; ok {
		return phase.Duration
	}
	return 0
}

// Total returns the time elapsed since the timer was created.
func (t *Timer) Total() time.Duration {
	return t.clock.Since(t.start)
}

// Phases returns copies of all phases in first-start order.
func (t *Timer) Phases() []Phase {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Phase, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.phases[name])
	}
	return out
}

// Summary returns a formatted summary of all phases.
func (t *Timer) Summary() string {
	if !t.enabled {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s Timing Summary ===\n", t.name)
	for i, p := range t.Phases() {
		fmt.Fprintf(&sb, "Phase %d - %s: %v (%d runs)\n", i+1, p.Name, p.Duration, p.Runs)
	}
	fmt.Fprintf(&sb, "Total: %v\n", t.Total())
	return sb.String()
}

// PrintSummary writes the summary line by line to the configured logger.
func (t *Timer) PrintSummary() {
	if !t.enabled || t.logger == nil {
		return
	}
	for _, line := range strings.Split(strings.TrimSpace(t.Summary()), "\n") {
		t.logger.Debug("%s", line)
	}
}

// ToMap returns the timing data as a map for serialization.
func (t *Timer) ToMap() map[string]interface{} {
	phases := t.Phases()
	out := make([]map[string]interface{}, 0, len(phases))
	for _, p := range phases {
		out = append(out, map[string]interface{}{
			"name":     p.Name,
			"duration": p.Duration.String(),
			"ms":       p.Duration.Milliseconds(),
			"runs":     p.Runs,
		})
	}

	total := t.Total()
	return map[string]interface{}{
		"name":           t.name,
		"total_duration": total.String(),
		"total_ms":       total.Milliseconds(),
		"phases":         out,
	}
}
