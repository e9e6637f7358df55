// =============================================================================
// Sales Analytics - Analyze Command
// =============================================================================
//
// This file defines the 'analyze' command, which runs the whole pipeline over
// one sales log and writes the enriched data, the text report and, when
// configured, an Excel workbook.
//
// COMMAND USAGE:
//   sales-analytics analyze [flags]
//
// FLAGS:
//   --input            : Sales log to analyse (overrides input_file)
//   --region           : Keep only this region
//   --min-amount       : Drop transactions below this amount (0 = no filter)
//   --max-amount       : Drop transactions above this amount (0 = no filter)
//   --interactive      : Ask for filters after showing the filter options
//   --skip-enrichment  : Do not call the product catalog
//   --workbook         : Workbook file name format inside output_dir
//   --top              : Number of top products and customers
//   --low-threshold    : Quantity below which a product is a low performer
//
// =============================================================================

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-analytics/internal/analyzer"
	"github.com/ginjaninja78/sales-analytics/internal/catalog"
	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputFile      string
	region         string
	minAmount      float64
	maxAmount      float64
	interactive    bool
	skipEnrichment bool
	workbookFormat string
	topN           int
	lowThreshold   int
)

// =============================================================================
// ANALYZE COMMAND DEFINITION
// =============================================================================

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse a sales log and write the report",
	Long: `The analyze command reads the sales log, drops malformed lines and
invalid records, applies the optional region and amount filters, enriches
every remaining transaction from the product catalog, and writes:

  - the enriched data file (enriched_file)
  - the text report (output_dir/report_file_format)
  - an Excel workbook when --workbook or workbook_file_format is set

A catalog that cannot be reached is not an error: every transaction is
reported as unmatched.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	flags := analyzeCmd.Flags()
	flags.StringVar(&inputFile, "input", "", "Sales log to analyse")
	flags.StringVar(&region, "region", "", "Keep only transactions from this region")
	flags.Float64Var(&minAmount, "min-amount", 0, "Minimum transaction amount (0 = no filter)")
	flags.Float64Var(&maxAmount, "max-amount", 0, "Maximum transaction amount (0 = no filter)")
	flags.BoolVar(&interactive, "interactive", false, "Ask for filters at the prompt")
	flags.BoolVar(&skipEnrichment, "skip-enrichment", false, "Do not call the product catalog")
	flags.StringVar(&workbookFormat, "workbook", "", "Workbook file name format, e.g. sales_{date}")
	flags.IntVar(&topN, "top", 0, "Number of top products and customers")
	flags.IntVar(&lowThreshold, "low-threshold", 0, "Low performer quantity threshold")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runAnalyze(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyAnalyzeFlags(cmd, cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	rule := strings.Repeat("=", 45)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "SALES ANALYTICS SYSTEM")
	fmt.Fprintln(out, rule)

	opts := []analyzer.Option{analyzer.WithProgress(out)}
	if interactive {
		opts = append(opts, analyzer.WithFilterChooser(promptFilters(cmd.InOrStdin(), out)))
	}

	client := catalog.NewClient(cfg.Catalog.URL, cfg.CatalogTimeout(), logger)
	result, err := analyzer.New(cfg, logger, client, opts...).Run(ctx)
	if err != nil {
		fmt.Fprintf(out, "✗ %v\n", err)
		return err
	}

	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Run ID:          %s\n", result.RunID)
	fmt.Fprintf(out, "Lines read:      %d\n", result.LinesRead)
	fmt.Fprintf(out, "Parsed:          %d\n", result.Parsed)
	fmt.Fprintf(out, "Valid:           %d\n", result.Validation.FinalCount)
	fmt.Fprintf(out, "Invalid:         %d\n", result.Validation.Invalid)
	fmt.Fprintf(out, "Enriched:        %d/%d\n", result.Enrichment.Matched, result.Enrichment.Total)
	fmt.Fprintf(out, "Time elapsed:    %s\n", result.Duration)

	return nil
}

// applyAnalyzeFlags copies explicitly set flags over the configuration and
// re-validates it.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.MainConfig) error {
	flags := cmd.Flags()

	if flags.Changed("input") {
		cfg.InputFile = inputFile
	}
	if flags.Changed("region") {
		cfg.Filters.Region = region
	}
	if flags.Changed("min-amount") {
		cfg.Filters.MinAmount = minAmount
	}
	if flags.Changed("max-amount") {
		cfg.Filters.MaxAmount = maxAmount
	}
	if flags.Changed("skip-enrichment") && skipEnrichment {
		disabled := false
		cfg.Catalog.Enabled = &disabled
	}
	if flags.Changed("workbook") {
		cfg.WorkbookFileFormat = workbookFormat
	}
	if flags.Changed("top") {
		cfg.Analytics.TopN = topN
	}
	if flags.Changed("low-threshold") {
		cfg.Analytics.LowPerformerThreshold = lowThreshold
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// =============================================================================
// INTERACTIVE FILTERING
// =============================================================================

// promptFilters asks whether to filter and, if so, for a region and an amount
// range. Enter skips a question. Answering anything but "y" keeps the
// configured filters.
func promptFilters(in io.Reader, out io.Writer) analyzer.FilterChooser {
	return func(_ analyzer.FilterOptions, current validation.Criteria) (validation.Criteria, error) {
		scanner := bufio.NewScanner(in)
		ask := func(question string) string {
			fmt.Fprint(out, question)
			if !scanner.Scan() {
				return ""
			}
			return strings.TrimSpace(scanner.Text())
		}

		if strings.ToLower(ask("\nDo you want to filter data? (y/n): ")) != "y" {
			return current, scanner.Err()
		}

		var criteria validation.Criteria
		criteria.Region = ask("Enter region (or press Enter to skip): ")

		var err error
		if criteria.MinAmount, err = parseAmount(ask("Enter minimum amount (or press Enter to skip): ")); err != nil {
			return current, fmt.Errorf("invalid minimum amount: %w", err)
		}
		if criteria.MaxAmount, err = parseAmount(ask("Enter maximum amount (or press Enter to skip): ")); err != nil {
			return current, fmt.Errorf("invalid maximum amount: %w", err)
		}
		if criteria.MinAmount != 0 && criteria.MaxAmount != 0 && criteria.MinAmount > criteria.MaxAmount {
			return current, fmt.Errorf("minimum amount %.2f is greater than maximum amount %.2f",
				criteria.MinAmount, criteria.MaxAmount)
		}
		return criteria, scanner.Err()
	}
}

// parseAmount reads an optional, non-negative, finite amount. Blank means 0, which
// the validator treats as no bound. Thousands separators are accepted.
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount must be a finite number, got %s", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount must not be negative, got %s", s)
	}
	return v, nil
}
