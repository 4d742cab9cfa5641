package pprof

import (
	"fmt"
	"strings"
)

// ProfileType defines the type of profile to collect.
type ProfileType string

const (
	ProfileCPU       ProfileType = "cpu"
	ProfileHeap      ProfileType = "heap"
	ProfileGoroutine ProfileType = "goroutine"
	ProfileBlock     ProfileType = "block"
	ProfileMutex     ProfileType = "mutex"
	ProfileAllocs    ProfileType = "allocs"
)

// AllProfileTypes returns all supported profile types.
func AllProfileTypes() []ProfileType {
	return []ProfileType{
		ProfileCPU,
		ProfileHeap,
		ProfileGoroutine,
		ProfileBlock,
		ProfileMutex,
		ProfileAllocs,
	}
}

// DefaultProfileTypes returns the default profile types to collect.
func DefaultProfileTypes() []ProfileType {
	return []ProfileType{ProfileCPU, ProfileHeap}
}

// ParseProfileTypes parses profile names. An empty list yields the defaults.
func ParseProfileTypes(names []string) ([]ProfileType, error) {
	if len(names) == 0 {
		return DefaultProfileTypes(), nil
	}

	valid := make(map[ProfileType]bool)
	for _, pt := range AllProfileTypes() {
		valid[pt] = true
	}

	types := make([]ProfileType, 0, len(names))
	for _, name := range names {
		pt := ProfileType(strings.TrimSpace(strings.ToLower(name)))
		if !valid[pt] {
			return nil, fmt.Errorf("unknown profile type: %q", name)
		}
		types = append(types, pt)
	}
	return types, nil
}

// Config holds the profiling configuration.
type Config struct {
	Enabled bool `mapstructure:"enabled"`

	// Profiles specifies which profile types to collect.
	Profiles []ProfileType `mapstructure:"profiles"`

	// OutputDir is the directory for profile files.
	OutputDir string `mapstructure:"output_dir"`

	// CPURate is the CPU profiling rate in Hz; 0 keeps the runtime default.
	CPURate int `mapstructure:"cpu_rate"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Enabled:   false,
		Profiles:  DefaultProfileTypes(),
		OutputDir: "./pprof",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Profiles) == 0 {
		return fmt.Errorf("at least one profile type must be specified")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.CPURate < 0 {
		return fmt.Errorf("cpu rate must not be negative")
	}
	return nil
}

// HasProfile checks if a profile type is enabled.
func (c *Config) HasProfile(pt ProfileType) bool {
	for _, p := range c.Profiles {
		if p == pt {
			return true
		}
	}
	return false
}
