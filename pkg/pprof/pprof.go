// Package pprof captures runtime profiles around benchmark runs.
//
// Basic usage:
//
//	cfg := pprof.DefaultConfig()
//	cfg.Enabled = true
//	cfg.OutputDir = "./pprof"
//
//	files, err := pprof.RunWithProfiling(cfg, "bitonic", func() error {
//	    return runBenchmark()
//	})
package pprof

import "errors"

// RunWithProfiling runs fn inside a profiling session named label and
// returns the profile files written. With profiling disabled it only runs fn.
func RunWithProfiling(cfg *Config, label string, fn func() error) ([]string, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fn()
	}

	collector, err := NewCollector(cfg)
	if err != nil {
		return nil, err
	}
	if err := collector.Start(label); err != nil {
		return nil, err
	}

	runErr := fn()
	files, stopErr := collector.Stop()
	return files, errors.Join(runErr, stopErr)
}
