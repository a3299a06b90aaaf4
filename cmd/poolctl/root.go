package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenapool/cmd/poolctl/logger"
	"github.com/joshuapare/arenapool/pool"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	backing string
	logDir  string
)

var rootCmd = &cobra.Command{
	Use:   "poolctl",
	Short: "Drive and inspect fixed-capacity memory pools",
	Long: `poolctl runs allocation scripts and scenarios against a fixed-capacity
memory pool and prints the resulting layout. It is useful for reproducing
fragmentation patterns and checking allocator behaviour step by step.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&backing, "backing", "", "Arena backing: heap or mmap (default from POOLCTL_BACKING)")
	rootCmd.PersistentFlags().
		StringVar(&logDir, "log-dir", "", "Write JSON debug logs to this directory")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints err to stderr and records it in the log.
func reportError(err error) {
	logger.Error("command failed", "error", err)
	printError("%v\n", err)
}

// setup merges environment configuration with flags and initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if backing == "" {
		backing = cfg.Backing
	}
	if logDir == "" {
		logDir = cfg.LogDir
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("POOLCTL_LOG_LEVEL: %w", err)
	}
	if err := logger.Init(logger.Options{
		Enabled: cfg.Log || logDir != "",
		LogDir:  logDir,
		Level:   level,
	}); err != nil {
		return err
	}
	logger.Debug("config resolved",
		"command", cmd.Name(),
		"backing", backing,
		"log_dir", logDir,
		"level", level.String(),
	)
	return nil
}

// poolOptions builds pool options from the global flags.
func poolOptions() (*pool.Options, error) {
	b, err := pool.ParseBacking(backing)
	if err != nil {
		return nil, err
	}
	return &pool.Options{Logger: logger.L, Backing: b}, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
