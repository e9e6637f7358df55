// =============================================================================
// Sales Analytics - Enrichment
// =============================================================================
//
// Joins validated transactions to the external product catalog.
//
// MATCHING (per transaction, first hit wins):
//   1. Primary  - the digits of ProductID ("P042" -> 42) looked up by ID.
//   2. Fallback - linear scan of the catalog in insertion order. An entry
//                 matches when its title contains the product name or the
//                 product name contains its title, ignoring case.
//   No scoring is done. A missing or odd ProductID simply yields no primary
//   candidate.
//
// =============================================================================

package enrichment

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// =============================================================================
// CATALOG MAPPING
// =============================================================================

// Catalog is an ID-keyed product mapping that remembers insertion order, so
// the fallback scan is deterministic.
type Catalog struct {
	entries []types.ProductCatalogEntry
	byID    map[int]int
}

// CreateProductMapping builds a Catalog from fetched products. A repeated ID
// replaces the earlier entry but keeps its position.
func CreateProductMapping(products []types.ProductCatalogEntry) *Catalog {
	c := &Catalog{
		entries: make([]types.ProductCatalogEntry, 0, len(products)),
		byID:    make(map[int]int, len(products)),
	}
	for _, p := range products {
		if i, ok := c.byID[p.ID]; ok {
			c.entries[i] = p
			continue
		}
		c.byID[p.ID] = len(c.entries)
		c.entries = append(c.entries, p)
	}
	return c
}

// Lookup returns the entry with the given ID.
func (c *Catalog) Lookup(id int) (types.ProductCatalogEntry, bool) {
	if c == nil {
		return types.ProductCatalogEntry{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return types.ProductCatalogEntry{}, false
	}
	return c.entries[i], true
}

// Entries returns the entries in insertion order.
func (c *Catalog) Entries() []types.ProductCatalogEntry {
	if c == nil {
		return nil
	}
	return c.entries
}

// Len returns the number of distinct IDs.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// =============================================================================
// ENRICHMENT
// =============================================================================

// EnrichSalesData returns one EnrichedTransaction per input transaction, in
// input order. A nil or empty catalog leaves every record unmatched.
func EnrichSalesData(transactions []types.Transaction, catalog *Catalog) []types.EnrichedTransaction {
	out := make([]types.EnrichedTransaction, len(transactions))
	for i, tx := range transactions {
		out[i] = types.EnrichedTransaction{Transaction: tx}

		entry, ok := match(tx, catalog)
		if !ok {
			continue
		}

		category, brand := entry.Category, entry.Brand
		out[i].APICategory = &category
		out[i].APIBrand = &brand
		if entry.Rating != nil {
			rating := *entry.Rating
			out[i].APIRating = &rating
		}
		out[i].APIMatch = true
	}
	return out
}

func match(tx types.Transaction, catalog *Catalog) (types.ProductCatalogEntry, bool) {
	if catalog.Len() == 0 {
		return types.ProductCatalogEntry{}, false
	}

	if id, ok := NumericID(tx.ProductID); ok {
		if entry, found := catalog.Lookup(id); found {
			return entry, true
		}
	}

	// Blank names and titles never match by name, even though "" is a
	// substring of everything.
	name := strings.ToLower(tx.ProductName)
	if isBlank(name) {
		return types.ProductCatalogEntry{}, false
	}
	for _, entry := range catalog.Entries() {
		title := strings.ToLower(entry.Title)
		if isBlank(title) {
			continue
		}
		if strings.Contains(name, title) || strings.Contains(title, name) {
			return entry, true
		}
	}
	return types.ProductCatalogEntry{}, false
}

// NumericID keeps only the digits of a product ID and parses them.
// "P042" gives 42. ok is false when there are no digits or the number does
// not fit an int.
func NumericID(productID string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, productID)
	if digits == "" {
		return 0, false
	}

	id, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return id, true
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary describes how well a batch was enriched.
type Summary struct {
	Total   int `json:"total"`
	Matched int `json:"matched"`

	// SuccessRate is Matched/Total as a percentage with 2 decimals, 0 for an
	// empty batch.
	SuccessRate float64 `json:"success_rate"`

	// Unmatched lists the distinct names of products without a match, sorted.
	Unmatched []string `json:"unmatched"`
}

// Summarize counts matches and collects the names that were not enriched.
func Summarize(enriched []types.EnrichedTransaction) Summary {
	s := Summary{Total: len(enriched), Unmatched: []string{}}

	seen := make(map[string]struct{})
	for _, tx := range enriched {
		if tx.APIMatch {
			s.Matched++
			continue
		}
		if _, ok := seen[tx.ProductName]; !ok {
			seen[tx.ProductName] = struct{}{}
			s.Unmatched = append(s.Unmatched, tx.ProductName)
		}
	}
	sort.Strings(s.Unmatched)

	if s.Total > 0 {
		rate := decimal.NewFromInt(int64(s.Matched)).
			Div(decimal.NewFromInt(int64(s.Total))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
		s.SuccessRate = rate.InexactFloat64()
	}
	return s
}

// isBlank reports whether s has only whitespace.
func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
