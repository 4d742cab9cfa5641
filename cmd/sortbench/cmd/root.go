package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sort-bench/pkg/utils"
)

var (
	// Global flags
	configFile string
	verbose    bool
	logLevel   string
	logFormat  string

	logger utils.Logger = &utils.NullLogger{}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sortbench",
	Short: "Parallel sorting engine benchmark",
	Long: `sortbench benchmarks in-memory sorting strategies on one shared array.

Parallel strategies split the array into disjoint index ranges and join them
through fork/join task trees or worker-pool phase barriers. Every sort is
timed, verified against an independent sort and reported per strategy.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(logLevel, logFormat)
		utils.SetGlobalLogger(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./sortbench.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	binName := BinName()
	rootCmd.Example = `  # Benchmark every strategy on 100k elements
  ` + binName + ` run -n 100000

  # Compare the pool-based strategies on 8 workers, 5 repeats each
  ` + binName + ` run -n 1000000 -w 8 -s bucket,transposition -r 5

  # Save a compressed summary and Prometheus textfile metrics
  ` + binName + ` run -o results.json.gz --metrics-file sortbench.prom

  # Capture CPU and heap profiles per strategy
  ` + binName + ` run --pprof --pprof-profiles cpu,heap,mutex`
}

// newLogger builds the CLI logger; --verbose forces debug.
func newLogger(level, format string) utils.Logger {
	lvl := utils.ParseLogLevel(level)
	if verbose {
		lvl = utils.LevelDebug
	}
	return utils.NewLogrusLogger(lvl, os.Stderr, format)
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
