// =============================================================================
// Sales Analytics - Analyzer
// =============================================================================
//
// This module orchestrates one analytics run over a single sales log, from
// reading the file to writing the report.
//
// PIPELINE:
//   1. Read the sales file (encoding fallback)
//   2. Parse lines into transactions
//   3. Show filter options and pick the filter criteria
//   4. Validate and filter
//   5. Analyse
//   6. Fetch the product catalog
//   7. Enrich transactions
//   8. Save enriched data
//   9. Write the text report
//  10. Write the workbook (when configured)
//
// ERROR HANDLING:
//   Only I/O problems stop a run. Bad lines and invalid records are counted,
//   and a catalog failure leaves every transaction unmatched.
//
// =============================================================================

package analyzer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/enrichment"
	"github.com/ginjaninja78/sales-analytics/internal/logging"
	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/salesparser"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
	"github.com/ginjaninja78/sales-analytics/internal/xlsxexport"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// TotalSteps is the number of progress steps Run reports.
const TotalSteps = 10

// =============================================================================
// COLLABORATORS
// =============================================================================

// ProductFetcher supplies the product catalog. Implementations must not fail;
// an unavailable catalog is an empty list.
type ProductFetcher interface {
	FetchAllProducts(ctx context.Context) []types.ProductCatalogEntry
}

// FilterOptions describes the parsed batch before validation, so an operator
// can choose filters.
type FilterOptions struct {
	Regions []string

	// MinAmount and MaxAmount are only meaningful when HasAmounts is true.
	MinAmount  float64
	MaxAmount  float64
	HasAmounts bool
}

// FilterChooser picks the validation criteria once the filter options are
// known. The configured filters are passed in as the starting point.
type FilterChooser func(opts FilterOptions, current validation.Criteria) (validation.Criteria, error)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	RunID string

	// InputFile is the sales log that was analysed.
	InputFile string

	// LinesRead is the number of non-empty data lines after the header.
	LinesRead int

	// Parsed is the number of lines that became transactions.
	Parsed int

	Criteria   validation.Criteria
	Validation validation.Summary
	Enrichment enrichment.Summary

	// CatalogSize is the number of distinct catalog products used.
	CatalogSize int

	EnrichedFile string
	ReportFile   string

	// WorkbookFile is empty when no workbook was written.
	WorkbookFile string

	// Report holds every aggregate that went into the report.
	Report *report.Data

	Duration time.Duration
}

// =============================================================================
// ANALYZER STRUCTURE
// =============================================================================

// Analyzer runs the pipeline for one configuration.
type Analyzer struct {
	cfg     *config.MainConfig
	logger  zerolog.Logger
	fetcher ProductFetcher

	progress io.Writer
	choose   FilterChooser
	now      func() time.Time
	newID    func() string
}

// Option customises an Analyzer.
type Option func(*Analyzer)

// WithProgress prints "[n/10] ..." lines to w.
func WithProgress(w io.Writer) Option {
	return func(a *Analyzer) { a.progress = w }
}

// WithFilterChooser lets the caller pick filters after step 3.
func WithFilterChooser(fn FilterChooser) Option {
	return func(a *Analyzer) { a.choose = fn }
}

// WithClock replaces time.Now, for reproducible reports.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates an Analyzer. A nil fetcher, or a configuration with the catalog
// disabled, skips the catalog call and leaves every record unmatched.
func New(cfg *config.MainConfig, logger zerolog.Logger, fetcher ProductFetcher, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:      cfg,
		logger:   logger,
		fetcher:  fetcher,
		progress: io.Discard,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline once.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	start := a.now()
	result := &Result{
		RunID:     a.newID(),
		InputFile: a.cfg.InputFile,
	}
	log := a.logger.With().Str("run_id", result.RunID).Logger()

	// =========================================================================
	// STEP 1: READ SALES DATA
	// =========================================================================

	a.step(1, "Reading sales data...")
	lines, err := salesparser.ReadSalesData(a.cfg.InputFile, a.cfg.Encodings)
	if err != nil {
		return nil, fmt.Errorf("failed to read sales data: %w", err)
	}
	result.LinesRead = len(lines)
	a.done("Successfully read %d records", len(lines))
	log.Debug().Str("file", a.cfg.InputFile).Int("lines", len(lines)).Msg("sales data read")

	// =========================================================================
	// STEP 2: PARSE TRANSACTIONS
	// =========================================================================
	// Lines with the wrong field count or bad numbers are dropped here.

	a.step(2, "Parsing and cleaning data...")
	transactions := salesparser.ParseTransactions(lines)
	result.Parsed = len(transactions)
	a.done("Parsed %d records", len(transactions))
	log.Debug().Int("parsed", len(transactions)).Int("dropped", len(lines)-len(transactions)).Msg("lines parsed")

	// =========================================================================
	// STEP 3: FILTER OPTIONS
	// =========================================================================

	a.step(3, "Filter Options Available:")
	options := filterOptions(transactions)
	a.printFilterOptions(options)

	criteria := validation.Criteria{
		Region:    a.cfg.Filters.Region,
		MinAmount: a.cfg.Filters.MinAmount,
		MaxAmount: a.cfg.Filters.MaxAmount,
	}
	if a.choose != nil {
		criteria, err = a.choose(options, criteria)
		if err != nil {
			return nil, fmt.Errorf("failed to choose filters: %w", err)
		}
	}
	result.Criteria = criteria
	log.Debug().
		Str("region", criteria.Region).
		Float64("min_amount", criteria.MinAmount).
		Float64("max_amount", criteria.MaxAmount).
		Msg("filter criteria")

	// =========================================================================
	// STEP 4: VALIDATE
	// =========================================================================

	a.step(4, "Validating transactions...")
	valid, invalid, summary := validation.ValidateAndFilter(transactions, criteria)
	result.Validation = summary
	a.done("Valid: %d | Invalid: %d", summary.FinalCount, invalid)
	if summary.FilteredByRegion+summary.FilteredByAmount > 0 {
		a.printf("  Filtered out: %d by region, %d by amount\n", summary.FilteredByRegion, summary.FilteredByAmount)
	}
	log.Debug().Interface("summary", summary).Msg("validation complete")

	// =========================================================================
	// STEP 5: ANALYSE
	// =========================================================================

	a.step(5, "Analyzing sales data...")
	overall := analytics.Overall(valid)
	a.done("Analysis complete")
	log.Debug().Float64("revenue", overall.TotalRevenue).Int("transactions", overall.TotalTransactions).Msg("analysis complete")

	// =========================================================================
	// STEP 6: FETCH CATALOG
	// =========================================================================

	a.step(6, "Fetching product data from API...")
	var products []types.ProductCatalogEntry
	if a.fetcher != nil && a.cfg.CatalogEnabled() {
		products = a.fetcher.FetchAllProducts(logging.WithContext(ctx, log))
		a.done("Fetched %d products", len(products))
	} else {
		a.done("Catalog disabled, skipping enrichment lookups")
	}

	// =========================================================================
	// STEP 7: ENRICH
	// =========================================================================

	a.step(7, "Enriching sales data...")
	catalog := enrichment.CreateProductMapping(products)
	enriched := enrichment.EnrichSalesData(valid, catalog)
	result.CatalogSize = catalog.Len()
	result.Enrichment = enrichment.Summarize(enriched)
	a.done("Enriched %d/%d transactions (%.1f%%)",
		result.Enrichment.Matched, result.Enrichment.Total, result.Enrichment.SuccessRate)

	// =========================================================================
	// STEP 8: SAVE ENRICHED DATA
	// =========================================================================

	a.step(8, "Saving enriched data...")
	if err := utils.EnsureDirectories(filepath.Dir(a.cfg.EnrichedFile), a.cfg.OutputDir); err != nil {
		return nil, err
	}
	if err := report.WriteEnrichedData(a.cfg.EnrichedFile, enriched); err != nil {
		return nil, err
	}
	result.EnrichedFile = a.cfg.EnrichedFile
	a.done("Saved to %s", a.cfg.EnrichedFile)

	// =========================================================================
	// STEP 9: GENERATE REPORT
	// =========================================================================

	a.step(9, "Generating report...")
	reportOpts := report.DefaultOptions()
	reportOpts.TopN = a.cfg.Analytics.TopN
	reportOpts.LowPerformerThreshold = a.cfg.Analytics.LowPerformerThreshold
	reportOpts.RunID = result.RunID
	reportOpts.GeneratedAt = start
	if a.cfg.CurrencySymbol != "" {
		reportOpts.CurrencySymbol = a.cfg.CurrencySymbol
	}
	result.Report = report.Build(valid, enriched, reportOpts)

	result.ReportFile = a.outputPath(a.cfg.ReportFileFormat, result.RunID, ".txt")
	if err := report.WriteFile(result.ReportFile, result.Report); err != nil {
		return nil, err
	}
	a.done("Report saved to %s", result.ReportFile)

	// =========================================================================
	// STEP 10: WORKBOOK
	// =========================================================================

	if a.cfg.WorkbookFileFormat != "" {
		result.WorkbookFile = a.outputPath(a.cfg.WorkbookFileFormat, result.RunID, ".xlsx")
		if err := xlsxexport.Write(result.WorkbookFile, result.Report); err != nil {
			return nil, err
		}
		log.Debug().Str("file", result.WorkbookFile).Msg("workbook written")
	}

	a.step(10, "Process Complete!")
	if result.WorkbookFile != "" {
		a.done("Workbook saved to %s", result.WorkbookFile)
	}

	result.Duration = a.now().Sub(start)
	log.Info().
		Int("valid", summary.FinalCount).
		Int("invalid", summary.Invalid).
		Int("enriched", result.Enrichment.Matched).
		Dur("elapsed", result.Duration).
		Msg("run complete")

	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func filterOptions(transactions []types.Transaction) FilterOptions {
	lo, hi, ok := analytics.AmountRange(transactions)
	return FilterOptions{
		Regions:    analytics.AvailableRegions(transactions),
		MinAmount:  lo,
		MaxAmount:  hi,
		HasAmounts: ok,
	}
}

func (a *Analyzer) printFilterOptions(opts FilterOptions) {
	a.printf("Regions: %s\n", strings.Join(opts.Regions, ", "))
	if opts.HasAmounts {
		p := message.NewPrinter(language.English)
		sym := a.cfg.CurrencySymbol
		a.printf("Amount Range: %s\n", p.Sprintf("%s%d - %s%d", sym, int64(opts.MinAmount), sym, int64(opts.MaxAmount)))
	} else {
		a.printf("Amount Range: no data\n")
	}
}

// outputPath expands a file name format inside the output directory.
func (a *Analyzer) outputPath(format, runID, ext string) string {
	name := utils.GenerateOutputFileName(format, map[string]string{"run_id": runID}, ext)
	return filepath.Join(a.cfg.OutputDir, name)
}

func (a *Analyzer) step(n int, msg string) {
	a.printf("\n[%d/%d] %s\n", n, TotalSteps, msg)
}

func (a *Analyzer) done(format string, args ...interface{}) {
	a.printf("✓ "+format+"\n", args...)
}

func (a *Analyzer) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.progress, format, args...)
}
