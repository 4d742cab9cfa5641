// Package config provides configuration management for sortbench.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperrors "github.com/sort-bench/pkg/errors"
	"github.com/sort-bench/pkg/model"
)

// EnvPrefix prefixes every environment override, e.g. SORTBENCH_BENCH_SIZE.
const EnvPrefix = "SORTBENCH"

// Config holds all configuration for the application.
type Config struct {
	Bench  BenchConfig  `mapstructure:"bench"`
	Engine EngineConfig `mapstructure:"engine"`
	Output OutputConfig `mapstructure:"output"`
	Pprof  PprofConfig  `mapstructure:"pprof"`
	Log    LogConfig    `mapstructure:"log"`
}

// BenchConfig holds the benchmark harness configuration.
type BenchConfig struct {
	Size       int           `mapstructure:"size"`
	Seed       uint64        `mapstructure:"seed"`
	Repeat     int           `mapstructure:"repeat"`
	Strategies []string      `mapstructure:"strategies"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// EngineConfig holds the sorter options.
type EngineConfig struct {
	Workers                int  `mapstructure:"workers"` // 0 = CPUs available to the process
	TranspositionThreshold int  `mapstructure:"transposition_threshold"`
	MergeThreshold         int  `mapstructure:"merge_threshold"`
	FallbackFactor         int  `mapstructure:"fallback_factor"`
	DefensivePass          bool `mapstructure:"defensive_pass"`
	ParallelNetwork        bool `mapstructure:"parallel_network"`
	CheckDisjoint          bool `mapstructure:"check_disjoint"`
}

// OutputConfig holds result output configuration.
type OutputConfig struct {
	ResultFile  string `mapstructure:"result_file"` // JSON summary; ".gz" suffix compresses
	MetricsFile string `mapstructure:"metrics_file"`
	Format      string `mapstructure:"format"` // table or json
}

// PprofConfig holds profiling configuration.
type PprofConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	OutputDir string   `mapstructure:"output_dir"`
	Profiles  []string `mapstructure:"profiles"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"size":                    "bench.size",
	"seed":                    "bench.seed",
	"repeat":                  "bench.repeat",
	"strategies":              "bench.strategies",
	"timeout":                 "bench.timeout",
	"workers":                 "engine.workers",
	"transposition-threshold": "engine.transposition_threshold",
	"merge-threshold":         "engine.merge_threshold",
	"fallback-factor":         "engine.fallback_factor",
	"defensive-pass":          "engine.defensive_pass",
	"parallel-network":        "engine.parallel_network",
	"check-disjoint":          "engine.check_disjoint",
	"output":                  "output.result_file",
	"metrics-file":            "output.metrics_file",
	"format":                  "output.format",
	"pprof":                   "pprof.enabled",
	"pprof-dir":               "pprof.output_dir",
	"pprof-profiles":          "pprof.profiles",
	"log-level":               "log.level",
	"log-format":              "log.format",
}

// Load builds the configuration from defaults, an optional config file,
// SORTBENCH_* environment variables and the flags that were set, in
// increasing order of precedence.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to read config file", err)
		}
	} else {
		v.SetConfigName("sortbench")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to read config file", err)
			}
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}
	return decode(v)
}

// LoadFromReader loads configuration from content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to read config", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return apperrors.Wrap(apperrors.CodeConfigError, "failed to bind flag "+name, err)
		}
	}
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to unmarshal config", err)
	}
	cfg.Bench.Strategies = normalizeNames(cfg.Bench.Strategies)
	cfg.Pprof.Profiles = normalizeNames(cfg.Pprof.Profiles)

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "config validation failed", err)
	}
	return &cfg, nil
}

// normalizeNames lower-cases, trims, splits comma lists and de-duplicates names.
func normalizeNames(names []string) []string {
	parts := lo.FlatMap(names, func(s string, _ int) []string {
		return strings.Split(s, ",")
	})
	parts = lo.Map(parts, func(s string, _ int) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
	return lo.Uniq(lo.Compact(parts))
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bench.size", 10000)
	v.SetDefault("bench.seed", 42)
	v.SetDefault("bench.repeat", 1)
	v.SetDefault("bench.strategies", []string{"all"})
	v.SetDefault("bench.timeout", 0)

	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.transposition_threshold", 1000)
	v.SetDefault("engine.merge_threshold", 1000)
	v.SetDefault("engine.fallback_factor", 10)
	v.SetDefault("engine.defensive_pass", true)
	v.SetDefault("engine.parallel_network", false)
	v.SetDefault("engine.check_disjoint", false)

	v.SetDefault("output.result_file", "")
	v.SetDefault("output.metrics_file", "")
	v.SetDefault("output.format", "table")

	v.SetDefault("pprof.enabled", false)
	v.SetDefault("pprof.output_dir", "./pprof")
	v.SetDefault("pprof.profiles", []string{"cpu", "heap"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Bench.Size < 1 {
		return fmt.Errorf("array size must be at least 1")
	}
	if c.Bench.Repeat < 1 {
		return fmt.Errorf("repeat must be at least 1")
	}
	if c.Bench.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if _, err := c.StrategyTypes(); err != nil {
		return err
	}

	if c.Engine.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if c.Engine.TranspositionThreshold < 1 || c.Engine.MergeThreshold < 1 {
		return fmt.Errorf("thresholds must be at least 1")
	}
	if c.Engine.FallbackFactor < 1 {
		return fmt.Errorf("fallback factor must be at least 1")
	}

	if !lo.Contains([]string{"table", "json"}, c.Output.Format) {
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}
	if !lo.Contains([]string{"text", "json"}, c.Log.Format) {
		return fmt.Errorf("unsupported log format: %s", c.Log.Format)
	}
	if c.Pprof.Enabled && c.Pprof.OutputDir == "" {
		return fmt.Errorf("pprof output directory is required")
	}
	return nil
}

// StrategyTypes resolves the configured strategy names; "all" selects every strategy.
func (c *Config) StrategyTypes() ([]model.StrategyType, error) {
	if len(c.Bench.Strategies) == 0 || lo.Contains(c.Bench.Strategies, "all") {
		return model.AllStrategies(), nil
	}

	types := make([]model.StrategyType, 0, len(c.Bench.Strategies))
	for _, name := range c.Bench.Strategies {
		st, err := model.ParseStrategyType(name)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeUnsupportedStrategy, "unsupported strategy "+name, err)
		}
		types = append(types, st)
	}
	return types, nil
}
