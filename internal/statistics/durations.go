// Package statistics aggregates sort timings.
package statistics

import (
	"time"

	"github.com/codahale/hdrhistogram"
)

// Histogram range in microseconds: 1µs to one hour.
const (
	histMin     = 1
	histMax     = int64(time.Hour / time.Microsecond)
	histSigFigs = 3
)

// DurationStats summarizes recorded durations. Min, Mean and Max are exact;
// percentiles come from the histogram at microsecond resolution.
type DurationStats struct {
	Count int
	Min   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// DurationRecorder accumulates durations. It is not safe for concurrent use.
type DurationRecorder struct {
	hist  *hdrhistogram.Histogram
	count int
	total time.Duration
	min   time.Duration
	max   time.Duration
}

// NewDurationRecorder creates an empty recorder.
func NewDurationRecorder() *DurationRecorder {
	return &DurationRecorder{hist: hdrhistogram.New(histMin, histMax, histSigFigs)}
}

// Record adds d. Durations beyond the histogram range still count toward
// the exact statistics; the histogram error is returned.
func (r *DurationRecorder) Record(d time.Duration) error {
	r.count++
	r.total += d
	if r.count == 1 || d < r.min {
		r.min = d
	}
	r.max = max(r.max, d)
	return r.hist.RecordValue(max(d.Microseconds(), histMin))
}

// Count returns the number of recorded durations.
func (r *DurationRecorder) Count() int {
	return r.count
}

// Stats returns the summary; the zero value when nothing was recorded.
func (r *DurationRecorder) Stats() DurationStats {
	if r.count == 0 {
		return DurationStats{}
	}
	return DurationStats{
		Count: r.count,
		Min:   r.min,
		Mean:  r.total / time.Duration(r.count),
		P50:   r.quantile(50),
		P99:   r.quantile(99),
		Max:   r.max,
	}
}

func (r *DurationRecorder) quantile(q float64) time.Duration {
	return time.Duration(r.hist.ValueAtQuantile(q)) * time.Microsecond
}
