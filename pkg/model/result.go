package model

import "time"

// RunStats describes one Sort call.
type RunStats struct {
	Strategy string `json:"strategy"`
	Size     int    `json:"size"`
	Workers  int    `json:"workers"`

	// Rounds counts synchronization rounds: phases, generation barriers or network levels.
	Rounds int   `json:"rounds"`
	Tasks  int64 `json:"tasks"`

	// Padded is the power-of-two length a comparator network ran on.
	Padded   int  `json:"padded,omitempty"`
	Fallback bool `json:"fallback,omitempty"`

	// Spawned and Inline split fork/join children by where they ran.
	Spawned int64 `json:"spawned,omitempty"`
	Inline  int64 `json:"inline,omitempty"`
	// Skipped counts pool tasks drained without running after cancellation.
	Skipped int64 `json:"skipped,omitempty"`

	DefensiveSwaps int `json:"defensive_swaps,omitempty"`
}

// BenchmarkResult aggregates the repeated runs of one strategy.
type BenchmarkResult struct {
	RunID    string `json:"run_id"`
	Strategy string `json:"strategy"`
	Size     int    `json:"size"`
	Workers  int    `json:"workers"`
	Repeats  int    `json:"repeats"`

	Min  time.Duration `json:"min_ns"`
	Mean time.Duration `json:"mean_ns"`
	P50  time.Duration `json:"p50_ns"`
	P99  time.Duration `json:"p99_ns"`
	Max  time.Duration `json:"max_ns"`

	Rounds   int  `json:"rounds"`
	Padded   int  `json:"padded,omitempty"`
	Fallback bool `json:"fallback,omitempty"`
	Correct  bool `json:"correct"`

	Error string `json:"error,omitempty"`
}

// Failed reports whether any repeat errored or produced an unsorted result.
func (r *BenchmarkResult) Failed() bool {
	return !r.Correct || r.Error != ""
}

// Summary aggregates a whole benchmark run.
type Summary struct {
	RunID     string            `json:"run_id"`
	StartedAt time.Time         `json:"started_at"`
	Seed      uint64            `json:"seed"`
	Size      int               `json:"size"`
	Workers   int               `json:"workers"`
	Results   []BenchmarkResult `json:"results"`
	Phases    map[string]any    `json:"phases,omitempty"`
}

// FailedCount returns the number of failed results.
func (s *Summary) FailedCount() int {
	count := 0
	for i := range s.Results {
		if s.Results[i].Failed() {
			count++
		}
	}
	return count
}
