// =============================================================================
// Sales Analytics - Excel Workbook Export
// =============================================================================
//
// Writes the aggregates of one run into an .xlsx workbook, one sheet per
// report section, so the figures can be filtered and charted in a
// spreadsheet.
//
// SHEETS:
//   | Sheet          | Rows                                             |
//   |----------------|--------------------------------------------------|
//   | Summary        | key / value pairs (run, totals, peak, enrichment) |
//   | Regions        | one per region, highest sales first              |
//   | Top Products   | ranked by quantity                               |
//   | Customers      | ranked by amount spent                           |
//   | Daily Trend    | one per date, ascending                          |
//   | Low Performers | quantity below the threshold                     |
//   | Enriched       | every enriched transaction                       |
//
// The first row of every sheet is a bold header.
//
// =============================================================================

package xlsxexport

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// Sheet names, in workbook order.
const (
	SheetSummary       = "Summary"
	SheetRegions       = "Regions"
	SheetTopProducts   = "Top Products"
	SheetCustomers     = "Customers"
	SheetDailyTrend    = "Daily Trend"
	SheetLowPerformers = "Low Performers"
	SheetEnriched      = "Enriched"
)

// Sheets lists every sheet Write creates.
var Sheets = []string{
	SheetSummary,
	SheetRegions,
	SheetTopProducts,
	SheetCustomers,
	SheetDailyTrend,
	SheetLowPerformers,
	SheetEnriched,
}

// sheet is one worksheet before it is written.
type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

// Write saves data as a workbook at path, creating the parent directory.
func Write(path string, data *report.Data) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, s := range buildSheets(data) {
		if i == 0 {
			// A new file starts with "Sheet1"; reuse it for the first sheet.
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet '%s': %w", s.name, err)
		}

		if err := writeSheet(f, s, bold); err != nil {
			return fmt.Errorf("error writing sheet '%s': %w", s.name, err)
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]interface{}, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(s.name, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(s.header))
	if err != nil {
		return err
	}
	return f.SetColWidth(s.name, "A", lastCol, 18)
}

// =============================================================================
// SHEET BUILDERS
// =============================================================================

func buildSheets(data *report.Data) []sheet {
	return []sheet{
		summarySheet(data),
		regionsSheet(data),
		topProductsSheet(data),
		customersSheet(data),
		dailySheet(data),
		lowPerformersSheet(data),
		enrichedSheet(data),
	}
}

func summarySheet(data *report.Data) sheet {
	s := sheet{name: SheetSummary, header: []string{"Metric", "Value"}}

	add := func(k string, v interface{}) {
		s.rows = append(s.rows, []interface{}{k, v})
	}

	add("Generated", data.GeneratedAt.Format("2006-01-02 15:04:05"))
	add("Run ID", data.RunID)
	add("Currency", data.CurrencySymbol)
	add("Records Processed", data.RecordCount)
	add("Total Revenue", data.Overall.TotalRevenue)
	add("Total Transactions", data.Overall.TotalTransactions)
	add("Average Order Value", data.Overall.AvgOrderValue)
	add("First Date", data.Overall.FirstDate)
	add("Last Date", data.Overall.LastDate)
	if data.HasPeak {
		add("Peak Day", data.Peak.Date)
		add("Peak Day Revenue", data.Peak.Revenue)
	} else {
		add("Peak Day", "no data")
	}
	add("Low Performer Threshold", data.LowThreshold)
	add("Enriched Transactions", data.Enrichment.Matched)
	add("Enrichment Success Rate (%)", data.Enrichment.SuccessRate)

	return s
}

func regionsSheet(data *report.Data) sheet {
	s := sheet{name: SheetRegions, header: []string{"Region", "Total Sales", "% of Total", "Transactions"}}
	for _, r := range data.Regions {
		s.rows = append(s.rows, []interface{}{r.Region, r.TotalSales, r.Percentage, r.TransactionCount})
	}
	return s
}

func topProductsSheet(data *report.Data) sheet {
	s := sheet{name: SheetTopProducts, header: []string{"Rank", "Product", "Quantity", "Revenue"}}
	for i, p := range data.TopProducts {
		s.rows = append(s.rows, []interface{}{i + 1, p.Name, p.TotalQuantity, p.TotalRevenue})
	}
	return s
}

func customersSheet(data *report.Data) sheet {
	s := sheet{name: SheetCustomers, header: []string{"Rank", "Customer", "Total Spent", "Orders", "Avg Order Value", "Products"}}
	for i, c := range data.TopCustomers {
		s.rows = append(s.rows, []interface{}{
			i + 1, c.CustomerID, c.TotalSpent, c.PurchaseCount, c.AvgOrderValue, strings.Join(c.Products, ", "),
		})
	}
	return s
}

func dailySheet(data *report.Data) sheet {
	s := sheet{name: SheetDailyTrend, header: []string{"Date", "Revenue", "Transactions", "Unique Customers"}}
	for _, d := range data.Daily {
		s.rows = append(s.rows, []interface{}{d.Date, d.Revenue, d.TransactionCount, d.UniqueCustomers})
	}
	return s
}

func lowPerformersSheet(data *report.Data) sheet {
	s := sheet{name: SheetLowPerformers, header: []string{"Product", "Quantity", "Revenue"}}
	for _, p := range data.LowPerformers {
		s.rows = append(s.rows, []interface{}{p.Name, p.TotalQuantity, p.TotalRevenue})
	}
	return s
}

func enrichedSheet(data *report.Data) sheet {
	s := sheet{name: SheetEnriched, header: strings.Split(report.EnrichedHeader, "|")}
	for _, tx := range data.Enriched {
		row := []interface{}{
			tx.TransactionID, tx.Date, tx.ProductID, tx.ProductName,
			tx.Quantity, tx.UnitPrice, tx.CustomerID, tx.Region,
			"", "", "", tx.APIMatch,
		}
		if tx.APICategory != nil {
			row[8] = *tx.APICategory
		}
		if tx.APIBrand != nil {
			row[9] = *tx.APIBrand
		}
		if tx.APIRating != nil {
			row[10] = *tx.APIRating
		}
		s.rows = append(s.rows, row)
	}
	return s
}
