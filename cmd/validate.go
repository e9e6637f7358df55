// =============================================================================
// Sales Analytics - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It reads, parses and validates
// the sales log and prints the validation summary without writing anything.
//
// COMMAND USAGE:
//   sales-analytics validate [--input sales.txt]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-analytics/internal/salesparser"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a sales log without generating a report",
	Long: `The validate command reports how many lines parse, how many records fail
the business rules (broken down by rule), and how many survive the configured
filters. No files are written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateInput, "input", "", "Sales log to validate")
}

func runValidate(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("input") {
		cfg.InputFile = validateInput
	}

	lines, err := salesparser.ReadSalesData(cfg.InputFile, cfg.Encodings)
	if err != nil {
		return fmt.Errorf("failed to read sales data: %w", err)
	}
	transactions := salesparser.ParseTransactions(lines)

	criteria := validation.Criteria{
		Region:    cfg.Filters.Region,
		MinAmount: cfg.Filters.MinAmount,
		MaxAmount: cfg.Filters.MaxAmount,
	}
	_, _, summary := validation.ValidateAndFilter(transactions, criteria)

	logger.Debug().
		Str("file", cfg.InputFile).
		Int("lines", len(lines)).
		Int("parsed", len(transactions)).
		Msg("validated sales log")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:                %s\n", cfg.InputFile)
	fmt.Fprintf(out, "Lines:               %d\n", len(lines))
	fmt.Fprintf(out, "Malformed lines:     %d\n", len(lines)-len(transactions))
	fmt.Fprint(out, validation.FormatSummary(summary))
	return nil
}
