package pprof

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// Collector captures profiles around a labelled section of work: the CPU
// profile spans the whole session, the other profiles are snapshots taken
// when the session stops.
type Collector struct {
	config *Config
	writer *Writer

	mu      sync.Mutex
	label   string
	cpuFile *os.File
	running bool
}

// NewCollector creates a new Collector.
func NewCollector(cfg *Config) (*Collector, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Collector{
		config: cfg,
		writer: NewWriter(cfg.OutputDir),
	}, nil
}

// Start begins a profiling session named label.
func (c *Collector) Start(label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return fmt.Errorf("collector is already running session %q", c.label)
	}
	if err := c.writer.EnsureDir(); err != nil {
		return err
	}

	if c.config.HasProfile(ProfileBlock) {
		runtime.SetBlockProfileRate(1)
	}
	if c.config.HasProfile(ProfileMutex) {
		runtime.SetMutexProfileFraction(1)
	}

	if c.config.HasProfile(ProfileCPU) {
		f, err := c.writer.Create(label, ProfileCPU)
		if err != nil {
			return err
		}
		if c.config.CPURate > 0 {
			runtime.SetCPUProfileRate(c.config.CPURate)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		c.cpuFile = f
	}

	c.label = label
	c.running = true
	return nil
}

// Stop ends the session and returns the written files.
func (c *Collector) Stop() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, nil
	}
	c.running = false

	var files []string
	if c.cpuFile != nil {
		pprof.StopCPUProfile()
		files = append(files, c.cpuFile.Name())
		if err := c.cpuFile.Close(); err != nil {
			return files, fmt.Errorf("failed to close CPU profile: %w", err)
		}
		c.cpuFile = nil
	}

	for _, pt := range c.config.Profiles {
		if pt == ProfileCPU {
			continue
		}
		data, err := Snapshot(pt)
		if err != nil {
			return files, err
		}
		path, err := c.writer.Write(c.label, pt, data)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}

	runtime.SetBlockProfileRate(0)
	runtime.SetMutexProfileFraction(0)
	return files, nil
}

// Writer returns the file writer.
func (c *Collector) Writer() *Writer {
	return c.writer
}

// Snapshot collects a snapshot of a non-CPU profile type.
func Snapshot(pt ProfileType) ([]byte, error) {
	var buf bytes.Buffer

	switch pt {
	case ProfileCPU:
		return nil, fmt.Errorf("cpu profiles are collected over a session, not as snapshots")
	case ProfileHeap:
		runtime.GC()
		if err := pprof.WriteHeapProfile(&buf); err != nil {
			return nil, fmt.Errorf("failed to write heap profile: %w", err)
		}
	case ProfileGoroutine, ProfileBlock, ProfileMutex, ProfileAllocs:
		p := pprof.Lookup(string(pt))
		if p == nil {
			return nil, fmt.Errorf("%s profile not found", pt)
		}
		if err := p.WriteTo(&buf, 0); err != nil {
			return nil, fmt.Errorf("failed to write %s profile: %w", pt, err)
		}
	default:
		return nil, fmt.Errorf("unknown profile type: %s", pt)
	}

	return buf.Bytes(), nil
}
