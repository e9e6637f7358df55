package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// OverallSummary is the headline block of the report.
type OverallSummary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalTransactions int     `json:"total_transactions"`
	AvgOrderValue     float64 `json:"avg_order_value"`

	// FirstDate and LastDate are empty when the batch has no dated records.
	FirstDate string `json:"first_date"`
	LastDate  string `json:"last_date"`
}

// Overall computes the headline figures. An empty batch yields zeros.
func Overall(transactions []types.Transaction) OverallSummary {
	total := totalRevenue(transactions)
	first, last, _ := DateRange(transactions)

	return OverallSummary{
		TotalRevenue:      toMoney(total),
		TotalTransactions: len(transactions),
		AvgOrderValue:     average(total, len(transactions)),
		FirstDate:         first,
		LastDate:          last,
	}
}

// DateRange returns the lexically smallest and largest non-empty dates.
func DateRange(transactions []types.Transaction) (first, last string, ok bool) {
	for _, tx := range transactions {
		if tx.Date == "" {
			continue
		}
		if !ok || tx.Date < first {
			first = tx.Date
		}
		if !ok || tx.Date > last {
			last = tx.Date
		}
		ok = true
	}
	return first, last, ok
}

// AvailableRegions lists the distinct trimmed regions, sorted. It is shown to
// the operator before filtering.
func AvailableRegions(transactions []types.Transaction) []string {
	seen := make(map[string]struct{})
	regions := []string{}
	for _, tx := range transactions {
		region := strings.TrimSpace(tx.Region)
		if region == "" {
			continue
		}
		if _, ok := seen[region]; !ok {
			seen[region] = struct{}{}
			regions = append(regions, region)
		}
	}
	sort.Strings(regions)
	return regions
}

// AmountRange returns the smallest and largest transaction amounts.
func AmountRange(transactions []types.Transaction) (lo, hi float64, ok bool) {
	if len(transactions) == 0 {
		return 0, 0, false
	}

	smallest := transactions[0].AmountDecimal()
	largest := smallest
	for _, tx := range transactions[1:] {
		amount := tx.AmountDecimal()
		smallest = decimal.Min(smallest, amount)
		largest = decimal.Max(largest, amount)
	}
	return toMoney(smallest), toMoney(largest), true
}
