package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flame-analysis/pkg/config"
	"github.com/flame-analysis/pkg/telemetry"
	"github.com/flame-analysis/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger utils.Logger
	cfg    *config.Config

	telemetryShutdown telemetry.ShutdownFunc
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "flame-analysis",
	Short: "A flame graph hotspot analysis tool",
	Long: `flame-analysis reconstructs call stacks from rendered flame graph SVG
files and reports where the samples went.

It parses the frame annotations embedded in the SVG, rebuilds the call
hierarchy from the frame geometry, and renders hotspot tables, hottest
stack traces and aggregated stack trees. Reports can be exported as
folded stacks, pprof profiles or JSON, and every run is recorded in a
local history database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logLevel := utils.ParseLogLevel(cfg.Log.Level)
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stderr)

		telemetryShutdown, err = telemetry.Init(cmd.Context())
		if err != nil {
			logger.Warn("failed to initialize telemetry: %v", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if telemetryShutdown != nil {
			return telemetryShutdown(context.Background())
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ./config.yaml)")

	binName := BinName()
	rootCmd.Example = `  # Hotspot table from a flame graph SVG
  ` + binName + ` report flamegraph.svg

  # Top 10 functions above 1%, grouped by module
  ` + binName + ` report flamegraph.svg -n 10 -m 1.0 -g module

  # Hottest stack traces and aggregated tree
  ` + binName + ` report flamegraph.svg --stacks --tree

  # Export reconstructed stacks as a pprof profile
  ` + binName + ` report flamegraph.svg --pprof profile.pb.gz

  # List past runs
  ` + binName + ` history`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, os.Stderr)
	}
	return logger
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
