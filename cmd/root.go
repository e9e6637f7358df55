// =============================================================================
// Sales Analytics - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (sales-analytics)
//   ├── analyzeCmd  (sales-analytics analyze)
//   ├── validateCmd (sales-analytics validate)
//   └── versionCmd  (sales-analytics version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose,
//   --log-format). loadConfig reads .env, the YAML file and the environment,
//   then builds the logger every subcommand uses.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// logFormat overrides log_format from the configuration when set.
var logFormat string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "sales-analytics",
	Short: "Sales Analytics - Clean, enrich and report on pipe-delimited sales logs",
	Long: `Sales Analytics reads a pipe-delimited sales transaction log, validates
and optionally filters it, enriches each record from an external product
catalog, and writes a formatted text report.

Key Features:
  - Encoding fallback for legacy exports (UTF-8, ISO-8859-1, Windows-1252)
  - Regional, product, customer and daily breakdowns
  - Product catalog enrichment by ID or name
  - Optional Excel workbook of every aggregate

Example Usage:
  sales-analytics analyze                        # Run the full pipeline
  sales-analytics analyze --region North         # Only analyse one region
  sales-analytics analyze --interactive          # Choose filters at the prompt
  sales-analytics validate --input sales.txt     # Report invalid records only`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		"",
		"Log format: console or json (overrides the configuration)",
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadConfig loads .env, the configuration file and the environment, then
// builds the logger. A missing default config.yaml is not an error; a missing
// file named with --config is.
func loadConfig(cmd *cobra.Command) (*config.MainConfig, zerolog.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, zerolog.Nop(), err
	}

	cfg, err := config.LoadOrDefault(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load main config: %w", err)
	}

	if logFormat != "" {
		cfg.LogFormat = logFormat
		if err := cfg.Validate(); err != nil {
			return nil, zerolog.Nop(), fmt.Errorf("invalid --log-format: %w", err)
		}
	}

	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Verbose: verbose,
	})
	return cfg, logger, nil
}
