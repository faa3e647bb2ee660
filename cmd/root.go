// Package cmd defines and implements the CLI commands for the aggregator executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/events-aggregator/internal/config"
	"github.com/JakeFAU/events-aggregator/internal/logging"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregator",
		Short: "An event-listings aggregation service for the Bay Area.",
		Long: `aggregator collects upcoming event listings from heterogeneous
sources (the Ticketmaster Discovery API, venue pages, and day-indexed
calendar sites), normalizes them into one canonical schema, and merges
duplicates into a single event record with combined provenance.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults plus AGGREGATOR_* env vars)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newIngestCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfigAndLogger resolves startup configuration and builds the
// process logger. Any error here is fatal: the process must report the
// problem and refuse to serve.
func loadConfigAndLogger() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}
