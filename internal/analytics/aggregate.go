// =============================================================================
// Sales Analytics - Aggregation Engine
// =============================================================================
//
// Pure functions over a validated transaction batch. Every function builds
// its own accumulators and returns fresh values; nothing is shared between
// calls.
//
// ORDERING:
//   Groups are kept in first-seen order and sorted with stable sorts, so
//   equal totals keep the order in which their keys first appeared in the
//   input. The peak day follows the same rule: on equal revenue the date
//   seen first wins.
//
// MONEY:
//   Amounts are summed as decimals and rounded to 2 places (half away from
//   zero) only when a result is produced.
//
// =============================================================================

package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

const (
	// DefaultTopN is the number of products listed by TopProducts callers.
	DefaultTopN = 5

	// DefaultLowPerformerThreshold is the quantity below which a product is
	// a low performer.
	DefaultLowPerformerThreshold = 10
)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// RESULT TYPES
// =============================================================================

// RegionStat is the revenue share of one region.
type RegionStat struct {
	Region           string  `json:"region"`
	TotalSales       float64 `json:"total_sales"`
	TransactionCount int     `json:"transaction_count"`
	Percentage       float64 `json:"percentage"`
}

// ProductRanking is the sales volume of one product name. It is used both
// for the top sellers and for the low performers.
type ProductRanking struct {
	Name          string  `json:"name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// CustomerProfile summarises the purchases of one customer.
type CustomerProfile struct {
	CustomerID    string   `json:"customer_id"`
	TotalSpent    float64  `json:"total_spent"`
	PurchaseCount int      `json:"purchase_count"`
	AvgOrderValue float64  `json:"avg_order_value"`
	Products      []string `json:"products"`
}

// DailyStat is the activity of one calendar date.
type DailyStat struct {
	Date             string  `json:"date"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transaction_count"`
	UniqueCustomers  int     `json:"unique_customers"`
}

// PeakDay is the date with the highest revenue.
type PeakDay struct {
	Date             string  `json:"date"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transaction_count"`
}

// =============================================================================
// REVENUE
// =============================================================================

// TotalRevenue returns the sum of all amounts rounded to 2 decimals.
func TotalRevenue(transactions []types.Transaction) float64 {
	return toMoney(totalRevenue(transactions))
}

func totalRevenue(transactions []types.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.AmountDecimal())
	}
	return total.Round(2)
}

// =============================================================================
// REGIONS
// =============================================================================

// RegionBreakdown groups revenue by trimmed region, highest total first.
// Percentages are taken against the total of the same batch and rounded per
// region, so they may not add up to exactly 100.
func RegionBreakdown(transactions []types.Transaction) []RegionStat {
	type acc struct {
		total decimal.Decimal
		count int
	}

	grand := totalRevenue(transactions)
	groups := make(map[string]*acc)
	var order []string

	for _, tx := range transactions {
		region := strings.TrimSpace(tx.Region)
		if region == "" {
			continue
		}
		a, ok := groups[region]
		if !ok {
			a = &acc{total: decimal.Zero}
			groups[region] = a
			order = append(order, region)
		}
		a.total = a.total.Add(tx.AmountDecimal())
		a.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]].total.GreaterThan(groups[order[j]].total)
	})

	stats := make([]RegionStat, 0, len(order))
	for _, region := range order {
		a := groups[region]
		pct := decimal.Zero
		if !grand.IsZero() {
			pct = a.total.Div(grand).Mul(hundred)
		}
		stats = append(stats, RegionStat{
			Region:           region,
			TotalSales:       toMoney(a.total),
			TransactionCount: a.count,
			Percentage:       toMoney(pct),
		})
	}

	return stats
}

// =============================================================================
// PRODUCTS
// =============================================================================

type productAcc struct {
	name     string
	quantity int
	revenue  decimal.Decimal
}

// groupProducts sums quantity and revenue per product name in first-seen
// order.
func groupProducts(transactions []types.Transaction) []*productAcc {
	index := make(map[string]*productAcc)
	var order []*productAcc

	for _, tx := range transactions {
		p, ok := index[tx.ProductName]
		if !ok {
			p = &productAcc{name: tx.ProductName, revenue: decimal.Zero}
			index[tx.ProductName] = p
			order = append(order, p)
		}
		p.quantity += tx.Quantity
		p.revenue = p.revenue.Add(tx.AmountDecimal())
	}
	return order
}

func (p *productAcc) ranking() ProductRanking {
	return ProductRanking{
		Name:          p.name,
		TotalQuantity: p.quantity,
		TotalRevenue:  toMoney(p.revenue),
	}
}

// TopProducts returns at most n products ordered by quantity sold, highest
// first. n <= 0 yields an empty list.
func TopProducts(transactions []types.Transaction, n int) []ProductRanking {
	if n <= 0 {
		return []ProductRanking{}
	}

	groups := groupProducts(transactions)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].quantity > groups[j].quantity
	})

	if len(groups) > n {
		groups = groups[:n]
	}

	out := make([]ProductRanking, len(groups))
	for i, p := range groups {
		out[i] = p.ranking()
	}
	return out
}

// LowPerformingProducts returns the products whose total quantity is below
// threshold, lowest quantity first.
func LowPerformingProducts(transactions []types.Transaction, threshold int) []ProductRanking {
	out := []ProductRanking{}
	for _, p := range groupProducts(transactions) {
		if p.quantity < threshold {
			out = append(out, p.ranking())
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalQuantity < out[j].TotalQuantity
	})
	return out
}

// =============================================================================
// CUSTOMERS
// =============================================================================

// CustomerProfiles groups purchases by trimmed customer ID, highest spender
// first. Each profile lists the distinct product names bought, sorted.
func CustomerProfiles(transactions []types.Transaction) []CustomerProfile {
	type acc struct {
		spent    decimal.Decimal
		count    int
		products map[string]struct{}
	}

	groups := make(map[string]*acc)
	var order []string

	for _, tx := range transactions {
		id := strings.TrimSpace(tx.CustomerID)
		if id == "" {
			continue
		}
		a, ok := groups[id]
		if !ok {
			a = &acc{spent: decimal.Zero, products: make(map[string]struct{})}
			groups[id] = a
			order = append(order, id)
		}
		a.spent = a.spent.Add(tx.AmountDecimal())
		a.count++
		a.products[tx.ProductName] = struct{}{}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]].spent.GreaterThan(groups[order[j]].spent)
	})

	profiles := make([]CustomerProfile, 0, len(order))
	for _, id := range order {
		a := groups[id]

		products := make([]string, 0, len(a.products))
		for name := range a.products {
			products = append(products, name)
		}
		sort.Strings(products)

		profiles = append(profiles, CustomerProfile{
			CustomerID:    id,
			TotalSpent:    toMoney(a.spent),
			PurchaseCount: a.count,
			AvgOrderValue: average(a.spent, a.count),
			Products:      products,
		})
	}

	return profiles
}

// =============================================================================
// DAILY TREND
// =============================================================================

// DailyTrend groups activity by date string in ascending date order.
// Transactions without a date are left out.
func DailyTrend(transactions []types.Transaction) []DailyStat {
	type acc struct {
		revenue   decimal.Decimal
		count     int
		customers map[string]struct{}
	}

	groups := make(map[string]*acc)
	dates := []string{}

	for _, tx := range transactions {
		if tx.Date == "" {
			continue
		}
		a, ok := groups[tx.Date]
		if !ok {
			a = &acc{revenue: decimal.Zero, customers: make(map[string]struct{})}
			groups[tx.Date] = a
			dates = append(dates, tx.Date)
		}
		a.revenue = a.revenue.Add(tx.AmountDecimal())
		a.count++
		a.customers[strings.TrimSpace(tx.CustomerID)] = struct{}{}
	}

	sort.Strings(dates)

	trend := make([]DailyStat, len(dates))
	for i, date := range dates {
		a := groups[date]
		trend[i] = DailyStat{
			Date:             date,
			Revenue:          toMoney(a.revenue),
			TransactionCount: a.count,
			UniqueCustomers:  len(a.customers),
		}
	}
	return trend
}

// PeakSalesDay returns the date with the highest revenue. Every date takes
// part, including an empty one. On equal revenue the date that appears first
// in the input wins. ok is false for an empty batch.
func PeakSalesDay(transactions []types.Transaction) (peak PeakDay, ok bool) {
	type acc struct {
		revenue decimal.Decimal
		count   int
	}

	groups := make(map[string]*acc)
	var order []string

	for _, tx := range transactions {
		a, seen := groups[tx.Date]
		if !seen {
			a = &acc{revenue: decimal.Zero}
			groups[tx.Date] = a
			order = append(order, tx.Date)
		}
		a.revenue = a.revenue.Add(tx.AmountDecimal())
		a.count++
	}

	if len(order) == 0 {
		return PeakDay{}, false
	}

	best := order[0]
	for _, date := range order[1:] {
		if groups[date].revenue.GreaterThan(groups[best].revenue) {
			best = date
		}
	}

	return PeakDay{
		Date:             best,
		Revenue:          toMoney(groups[best].revenue),
		TransactionCount: groups[best].count,
	}, true
}

// =============================================================================
// HELPERS
// =============================================================================

// toMoney rounds to 2 decimals, half away from zero.
func toMoney(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// average divides total by count, returning 0 for an empty group.
func average(total decimal.Decimal, count int) float64 {
	if count == 0 {
		return 0
	}
	return toMoney(total.Div(decimal.NewFromInt(int64(count))))
}
