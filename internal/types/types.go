// =============================================================================
// Sales Analytics - Shared Types
// =============================================================================
//
// This package contains the record types shared by every pipeline stage.
// Keeping them here avoids import cycles between:
//   - salesparser
//   - validation
//   - analytics
//   - enrichment
//   - report / xlsxexport
//
// =============================================================================

package types

import "github.com/shopspring/decimal"

// =============================================================================
// TRANSACTION
// =============================================================================

// Transaction is one line item of the sales log.
// Values are never mutated after parsing; stages build new slices instead.
type Transaction struct {
	// TransactionID must start with "T" to pass validation.
	TransactionID string

	// Date is kept as the raw YYYY-MM-DD string. It is only ever sorted
	// lexically, never parsed into a time.Time.
	Date string

	// ProductID must start with "P". Its digits are the catalog key.
	ProductID string

	// ProductName has thousands-separator commas stripped by the parser.
	ProductName string

	Quantity  int
	UnitPrice float64

	// CustomerID must start with "C".
	CustomerID string

	Region string
}

// Amount returns Quantity × UnitPrice.
func (t Transaction) Amount() float64 {
	return float64(t.Quantity) * t.UnitPrice
}

// AmountDecimal returns Quantity × UnitPrice without binary float error.
// Sums and threshold comparisons use this form.
func (t Transaction) AmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(t.UnitPrice).Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// =============================================================================
// PRODUCT CATALOG
// =============================================================================

// ProductCatalogEntry is one product record returned by the external catalog.
type ProductCatalogEntry struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Brand    string   `json:"brand"`
	Rating   *float64 `json:"rating"`
}

// =============================================================================
// ENRICHED TRANSACTION
// =============================================================================

// EnrichedTransaction extends a Transaction with catalog attributes.
// When APIMatch is false all three API fields are nil.
type EnrichedTransaction struct {
	Transaction

	APICategory *string
	APIBrand    *string
	APIRating   *float64
	APIMatch    bool
}
