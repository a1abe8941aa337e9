// Package cmd implements the pipewright CLI. The binary defines this
// repository's own build pipeline programmatically and exposes the emit and
// explain entry points over it.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pipewright/pipewright/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "pipewright",
	Short: "Define CI pipelines as code, emit them as JSON",
	Long: `pipewright builds a CI task graph in memory through a fluent API,
validates it (dependency resolution, cycle detection, K8s option checks),
and emits a versioned JSON document for an external executor. Nothing is
ever executed here; the output is a complete, self-consistent description
of what should run.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := log.DefaultConfig()
		cfg.Level = log.ParseLevel(logLevel)
		cfg.Format = log.ParseFormat(logFormat)
		log.SetDefaultLogger(log.New(cfg))
	},
}

var (
	logLevel  string
	logFormat string
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellable context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
}
