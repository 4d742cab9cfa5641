// Package metrics exposes benchmark results as Prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sort-bench/pkg/model"
)

const namespace = "sortbench"

// Label names.
const (
	LabelStrategy = "strategy"
	LabelWorkers  = "workers"
)

// Collector records sort runs on its own registry so repeated benchmarks in
// one process never collide on the default registry.
type Collector struct {
	registry *prometheus.Registry

	sortDuration *prometheus.HistogramVec
	sortRounds   *prometheus.GaugeVec
	runs         *prometheus.CounterVec
	failures     *prometheus.CounterVec
	elements     *prometheus.CounterVec
}

// NewCollector creates and registers the benchmark collectors.
func NewCollector() *Collector {
	labels := []string{LabelStrategy, LabelWorkers}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		sortDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "duration_seconds",
			Help:      "Wall time of a single sort call",
			Buckets: []float64{
				0.0001, // 0.1ms
				0.0005,
				0.001, // 1ms
				0.005,
				0.01,
				0.05,
				0.1,
				0.5,
				1,
				5,
				30,
			},
		}, labels),
		sortRounds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "rounds",
			Help:      "Synchronization rounds of the last sort call",
		}, labels),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "runs_total",
			Help:      "Number of sort calls",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "failures_total",
			Help:      "Number of sort calls that errored or produced unsorted output",
		}, labels),
		elements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "elements_total",
			Help:      "Number of elements sorted",
		}, labels),
	}

	c.registry.MustRegister(
		c.sortDuration,
		c.sortRounds,
		c.runs,
		c.failures,
		c.elements,
	)
	return c
}

// Registry returns the registry holding the benchmark collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveRun records one sort call. ok is false when the call errored or
// its output failed verification.
func (c *Collector) ObserveRun(stats model.RunStats, seconds float64, ok bool) {
	lv := []string{stats.Strategy, strconv.Itoa(stats.Workers)}

	c.sortDuration.WithLabelValues(lv...).Observe(seconds)
	c.sortRounds.WithLabelValues(lv...).Set(float64(stats.Rounds))
	c.runs.WithLabelValues(lv...).Inc()
	c.elements.WithLabelValues(lv...).Add(float64(stats.Size))
	if !ok {
		c.failures.WithLabelValues(lv...).Inc()
	}
}

// WriteTextfile writes the registry in the text exposition format, suitable
// for the node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
