// =============================================================================
// Sales Analytics - Report Writer
// =============================================================================
//
// Renders the aggregates of one run as a fixed-width text report.
//
// SECTIONS (in order):
//   1. Header              - generation time, records processed, run id
//   2. Overall summary     - revenue, transactions, average order, date range
//   3. Region-wise performance
//   4. Top products        - by quantity
//   5. Top customers       - by amount spent
//   6. Daily sales trend
//   7. Product performance - peak day and low performers
//   8. API enrichment summary
//
// Money is printed with the configured currency symbol and thousands
// separators. Summary figures keep 2 decimals, table columns are whole
// units.
//
// =============================================================================

package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/enrichment"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

const (
	ruleWidth = 45

	// DefaultCurrencySymbol prefixes every amount.
	DefaultCurrencySymbol = "₹"

	timestampLayout = "2006-01-02 15:04:05"
)

// =============================================================================
// REPORT OPTIONS
// =============================================================================

// Options controls what Build puts into the report.
type Options struct {
	// TopN is the length of the product and customer rankings.
	// Default: 5
	TopN int

	// LowPerformerThreshold is the quantity below which a product is listed
	// as a low performer.
	// Default: 10
	LowPerformerThreshold int

	// CurrencySymbol prefixes every amount.
	// Default: "₹"
	CurrencySymbol string

	// RunID identifies the run in the header. May be empty.
	RunID string

	// GeneratedAt is the header timestamp. Zero means time.Now().
	GeneratedAt time.Time
}

// DefaultOptions returns the default report options.
func DefaultOptions() Options {
	return Options{
		TopN:                  analytics.DefaultTopN,
		LowPerformerThreshold: analytics.DefaultLowPerformerThreshold,
		CurrencySymbol:        DefaultCurrencySymbol,
	}
}

// =============================================================================
// REPORT DATA
// =============================================================================

// Data holds everything a report shows. It is also what the workbook
// exporter consumes.
type Data struct {
	GeneratedAt    time.Time
	RunID          string
	CurrencySymbol string

	// RecordCount is the number of valid transactions analysed.
	RecordCount int

	Overall       analytics.OverallSummary
	Regions       []analytics.RegionStat
	TopN          int
	TopProducts   []analytics.ProductRanking
	TopCustomers  []analytics.CustomerProfile
	Daily         []analytics.DailyStat
	Peak          analytics.PeakDay
	HasPeak       bool
	LowThreshold  int
	LowPerformers []analytics.ProductRanking
	Enrichment    enrichment.Summary

	// Enriched is kept for exporters that list every record.
	Enriched []types.EnrichedTransaction
}

// Build computes every aggregate the report needs.
func Build(valid []types.Transaction, enriched []types.EnrichedTransaction, opts Options) *Data {
	if opts.TopN <= 0 {
		opts.TopN = analytics.DefaultTopN
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = DefaultCurrencySymbol
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	customers := analytics.CustomerProfiles(valid)
	if len(customers) > opts.TopN {
		customers = customers[:opts.TopN]
	}

	peak, hasPeak := analytics.PeakSalesDay(valid)

	return &Data{
		GeneratedAt:    opts.GeneratedAt,
		RunID:          opts.RunID,
		CurrencySymbol: opts.CurrencySymbol,
		RecordCount:    len(valid),
		Overall:        analytics.Overall(valid),
		Regions:        analytics.RegionBreakdown(valid),
		TopN:           opts.TopN,
		TopProducts:    analytics.TopProducts(valid, opts.TopN),
		TopCustomers:   customers,
		Daily:          analytics.DailyTrend(valid),
		Peak:           peak,
		HasPeak:        hasPeak,
		LowThreshold:   opts.LowPerformerThreshold,
		LowPerformers:  analytics.LowPerformingProducts(valid, opts.LowPerformerThreshold),
		Enrichment:     enrichment.Summarize(enriched),
		Enriched:       enriched,
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// Render writes the text report to w.
func Render(w io.Writer, data *Data) error {
	var buf bytes.Buffer
	f := newFormatter(data.CurrencySymbol)

	writeHeader(&buf, data)
	writeOverall(&buf, f, data)
	writeRegions(&buf, f, data)
	writeTopProducts(&buf, f, data)
	writeTopCustomers(&buf, f, data)
	writeDaily(&buf, f, data)
	writePerformance(&buf, f, data)
	writeEnrichment(&buf, data)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteFile renders the report into path, creating the parent directory.
func WriteFile(path string, data *Data) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := Render(file, data); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}

func writeHeader(buf *bytes.Buffer, data *Data) {
	buf.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	buf.WriteString("SALES ANALYTICS REPORT\n")
	fmt.Fprintf(buf, "Generated: %s\n", data.GeneratedAt.Format(timestampLayout))
	fmt.Fprintf(buf, "Records Processed: %d\n", data.RecordCount)
	if data.RunID != "" {
		fmt.Fprintf(buf, "Run ID: %s\n", data.RunID)
	}
	buf.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")
}

func section(buf *bytes.Buffer, title string) {
	buf.WriteString(title + "\n")
	buf.WriteString(strings.Repeat("-", ruleWidth) + "\n")
}

func writeOverall(buf *bytes.Buffer, f formatter, data *Data) {
	section(buf, "OVERALL SUMMARY")

	dateRange := "no data"
	if data.Overall.FirstDate != "" {
		dateRange = data.Overall.FirstDate + " to " + data.Overall.LastDate
	}

	fmt.Fprintf(buf, "Total Revenue: %s\n", f.money(data.Overall.TotalRevenue))
	fmt.Fprintf(buf, "Total Transactions: %d\n", data.Overall.TotalTransactions)
	fmt.Fprintf(buf, "Average Order Value: %s\n", f.money(data.Overall.AvgOrderValue))
	fmt.Fprintf(buf, "Date Range: %s\n\n", dateRange)
}

func writeRegions(buf *bytes.Buffer, f formatter, data *Data) {
	section(buf, "REGION-WISE PERFORMANCE")
	fmt.Fprintf(buf, "%-10s%12s%15s%15s\n", "Region", "Sales", "% of Total", "Transactions")
	for _, r := range data.Regions {
		fmt.Fprintf(buf, "%-10s%12s%14.2f%%%15d\n",
			r.Region, f.wholeMoney(r.TotalSales), r.Percentage, r.TransactionCount)
	}
	buf.WriteString("\n")
}

func writeTopProducts(buf *bytes.Buffer, f formatter, data *Data) {
	section(buf, fmt.Sprintf("TOP %d PRODUCTS", data.TopN))
	fmt.Fprintf(buf, "%-6s%-20s%6s%12s\n", "Rank", "Product", "Qty", "Revenue")
	for i, p := range data.TopProducts {
		fmt.Fprintf(buf, "%-6d%-20s%6d%12s\n", i+1, p.Name, p.TotalQuantity, f.wholeMoney(p.TotalRevenue))
	}
	buf.WriteString("\n")
}

func writeTopCustomers(buf *bytes.Buffer, f formatter, data *Data) {
	section(buf, fmt.Sprintf("TOP %d CUSTOMERS", data.TopN))
	fmt.Fprintf(buf, "%-6s%-12s%12s%10s\n", "Rank", "Customer", "Spent", "Orders")
	for i, c := range data.TopCustomers {
		fmt.Fprintf(buf, "%-6d%-12s%12s%10d\n", i+1, c.CustomerID, f.wholeMoney(c.TotalSpent), c.PurchaseCount)
	}
	buf.WriteString("\n")
}

func writeDaily(buf *bytes.Buffer, f formatter, data *Data) {
	section(buf, "DAILY SALES TREND")
	fmt.Fprintf(buf, "%-12s%12s%8s%12s\n", "Date", "Revenue", "Txns", "Customers")
	for _, d := range data.Daily {
		fmt.Fprintf(buf, "%-12s%12s%8d%12d\n", d.Date, f.wholeMoney(d.Revenue), d.TransactionCount, d.UniqueCustomers)
	}
	buf.WriteString("\n")
}

func writePerformance(buf *bytes.Buffer, f formatter, data *Data) {
	section(buf, "PRODUCT PERFORMANCE ANALYSIS")

	if data.HasPeak {
		fmt.Fprintf(buf, "Best Selling Day: %s | Revenue: %s\n", data.Peak.Date, f.wholeMoney(data.Peak.Revenue))
	} else {
		buf.WriteString("Best Selling Day: no data\n")
	}

	if len(data.LowPerformers) == 0 {
		buf.WriteString("No low performing products found.\n\n")
		return
	}
	buf.WriteString("Low Performing Products:\n")
	for _, p := range data.LowPerformers {
		fmt.Fprintf(buf, "- %s (Qty: %d, Revenue: %s)\n", p.Name, p.TotalQuantity, f.wholeMoney(p.TotalRevenue))
	}
	buf.WriteString("\n")
}

func writeEnrichment(buf *bytes.Buffer, data *Data) {
	section(buf, "API ENRICHMENT SUMMARY")

	s := data.Enrichment
	fmt.Fprintf(buf, "Total products enriched: %d\n", s.Matched)
	fmt.Fprintf(buf, "Success rate: %.2f%%\n", s.SuccessRate)

	if len(s.Unmatched) == 0 {
		buf.WriteString("All products successfully enriched.\n")
		return
	}
	buf.WriteString("Products not enriched:\n")
	for _, name := range s.Unmatched {
		fmt.Fprintf(buf, "- %s\n", name)
	}
}

// =============================================================================
// NUMBER FORMATTING
// =============================================================================

type formatter struct {
	symbol  string
	printer *message.Printer
}

func newFormatter(symbol string) formatter {
	return formatter{symbol: symbol, printer: message.NewPrinter(language.English)}
}

// money formats v as "₹1,234.56".
func (f formatter) money(v float64) string {
	return f.symbol + f.printer.Sprintf("%.2f", v)
}

// wholeMoney formats v as "₹1,235".
func (f formatter) wholeMoney(v float64) string {
	return f.symbol + f.printer.Sprintf("%.0f", v)
}
