package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sort-bench/internal/bench"
	"github.com/sort-bench/internal/engine"
	"github.com/sort-bench/internal/report"
	"github.com/sort-bench/pkg/config"
	apperrors "github.com/sort-bench/pkg/errors"
	"github.com/sort-bench/pkg/metrics"
	"github.com/sort-bench/pkg/model"
	"github.com/sort-bench/pkg/pprof"
	"github.com/sort-bench/pkg/telemetry"
	"github.com/sort-bench/pkg/utils"
)

const progressInterval = 2 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark the sorting strategies",
	Long: `Generate a pseudo-random int32 array, sort a private copy with every selected
strategy, verify each result and print a timing table.

Configuration precedence: flags > SORTBENCH_* environment > config file > defaults.
The command exits non-zero when any strategy fails verification or errors.`,
	RunE: runBenchmark,
}

func init() {
	rootCmd.AddCommand(runCmd)

	binName := BinName()
	runCmd.Example = `  ` + binName + ` run -n 50000 -s all
  ` + binName + ` run -n 1000000 -w 16 -s mergesort --merge-threshold 4096 -r 10
  SORTBENCH_BENCH_SEED=7 ` + binName + ` run -s bitonic --parallel-network`

	f := runCmd.Flags()
	f.IntP("size", "n", 10000, "Number of elements to sort")
	f.Uint64("seed", 42, "Input generator seed")
	f.IntP("repeat", "r", 1, "Sorts per strategy")
	f.StringSliceP("strategies", "s", []string{"all"}, "Strategies to run, comma separated, or all")
	f.Duration("timeout", 0, "Abort the run after this long (0 = no limit)")

	f.IntP("workers", "w", 0, "Worker count (0 = CPUs available to the process)")
	f.Int("transposition-threshold", engine.DefaultTranspositionThreshold, "Leaf size of the transposition phase split")
	f.Int("merge-threshold", engine.DefaultMergeThreshold, "Leaf size below which merge sort runs the kernel")
	f.Int("fallback-factor", engine.DefaultFallbackFactor, "Bucket sort runs sequentially when n < workers*factor")
	f.Bool("no-defensive-pass", false, "Skip merge sort's final kernel pass")
	f.Bool("parallel-network", false, "Run each bitonic level as one pool generation")
	f.Bool("check-disjoint", false, "Assert that concurrent task ranges never overlap")

	f.StringP("output", "o", "", "Write the JSON summary here (.gz or .zst to compress)")
	f.String("metrics-file", "", "Write Prometheus textfile metrics here")
	f.String("format", report.FormatTable, "Console report format: table or json")

	f.Bool("pprof", false, "Capture runtime profiles per strategy")
	f.String("pprof-dir", "./pprof", "Output directory for profiles")
	f.StringSlice("pprof-profiles", []string{"cpu", "heap"}, "Profiles: cpu,heap,allocs,goroutine,block,mutex")
}

// loadConfig resolves the run configuration; --no-defensive-pass overrides
// every other source.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if skip, _ := cmd.Flags().GetBool("no-defensive-pass"); skip {
		cfg.Engine.DefensivePass = false
	}
	return cfg, nil
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger = newLogger(cfg.Log.Level, cfg.Log.Format)
	utils.SetGlobalLogger(logger)

	strategies, err := cfg.StrategyTypes()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Bench.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Bench.Timeout)
		defer cancel()
	}

	shutdown, err := telemetry.Init(ctx, telemetry.LoadFromEnv(Version))
	if err != nil {
		logger.Warn("tracing disabled: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown: %v", err)
		}
	}()

	pprofCfg, err := buildPprofConfig(cfg)
	if err != nil {
		return err
	}

	timer := utils.NewTimer("sortbench", utils.WithLogger(logger))
	opts := []bench.Option{
		bench.WithTimer(timer),
		bench.WithProgress(progressInterval, func(completed, total int64) {
			logger.Debug("progress: %d/%d sorts", completed, total)
		}),
	}
	var collector *metrics.Collector
	if cfg.Output.MetricsFile != "" {
		collector = metrics.NewCollector()
		opts = append(opts, bench.WithMetrics(collector))
	}

	runner, err := bench.NewRunner(bench.Config{
		Size:       cfg.Bench.Size,
		Seed:       cfg.Bench.Seed,
		Repeat:     cfg.Bench.Repeat,
		Strategies: strategies,
		Engine:     engineOptions(cfg),
		Pprof:      pprofCfg,
	}, opts...)
	if err != nil {
		return err
	}

	logger.Info("running %d strategies: size=%d workers=%d repeat=%d",
		len(strategies), cfg.Bench.Size, cfg.Engine.Workers, cfg.Bench.Repeat)

	summary, runErr := runner.Run(ctx)
	if summary == nil {
		return runErr
	}

	_, err = timer.TimeFuncWithError("report", func() error {
		return writeOutputs(cmd, cfg, summary, collector)
	})
	timer.PrintSummary()
	if err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	if failed := summary.FailedCount(); failed > 0 {
		return apperrors.Newf(apperrors.CodeVerifyFailed, "%d of %d strategies failed", failed, len(summary.Results))
	}
	return nil
}

func writeOutputs(cmd *cobra.Command, cfg *config.Config, summary *model.Summary, collector *metrics.Collector) error {
	if err := report.Render(cmd.OutOrStdout(), summary, cfg.Output.Format); err != nil {
		return err
	}

	if cfg.Output.ResultFile != "" {
		saved, err := report.Save(summary, cfg.Output.ResultFile)
		if err != nil {
			return err
		}
		logger.Info("summary written to %s (%s, %s)", saved.Path, saved.HumanSize, saved.Compression)
	}

	if collector != nil {
		if err := collector.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.Info("metrics written to %s", cfg.Output.MetricsFile)
	}
	return nil
}

func engineOptions(cfg *config.Config) engine.Options {
	workers := cfg.Engine.Workers
	if workers <= 0 {
		workers = utils.AvailableCPUs()
		cfg.Engine.Workers = workers
	}
	return engine.Options{
		Workers:                workers,
		TranspositionThreshold: cfg.Engine.TranspositionThreshold,
		MergeThreshold:         cfg.Engine.MergeThreshold,
		FallbackFactor:         cfg.Engine.FallbackFactor,
		DefensivePass:          cfg.Engine.DefensivePass,
		ParallelNetwork:        cfg.Engine.ParallelNetwork,
		CheckDisjoint:          cfg.Engine.CheckDisjoint,
	}
}

// buildPprofConfig builds the profiling configuration; nil when disabled.
func buildPprofConfig(cfg *config.Config) (*pprof.Config, error) {
	if !cfg.Pprof.Enabled {
		return nil, nil
	}

	pc := pprof.DefaultConfig()
	pc.Enabled = true
	pc.OutputDir = cfg.Pprof.OutputDir

	profiles, err := pprof.ParseProfileTypes(cfg.Pprof.Profiles)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "invalid pprof profiles", err)
	}
	pc.Profiles = profiles

	if err := pc.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "invalid pprof config", err)
	}
	return pc, nil
}
