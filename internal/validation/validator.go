// =============================================================================
// Sales Analytics - Validation Engine
// =============================================================================
//
// This module enforces the business rules on parsed transactions and applies
// the optional region / amount filters.
//
// VALIDATION STRATEGY (first failing check wins for a record):
//   1. Rules    - quantity > 0, unit price > 0, ID prefixes (T / P / C),
//                 non-empty region. Failures count as INVALID.
//   2. Region   - exact match against the requested region.
//   3. Minimum  - Amount must not be below MinAmount.
//   4. Maximum  - Amount must not exceed MaxAmount.
//   Filter rejections are counted separately and are NOT invalid.
//
// ERROR HANDLING:
//   - Nothing is returned as an error. Records are counted and skipped.
//   - The summary always satisfies
//       FinalCount + Invalid + FilteredByRegion + FilteredByAmount == TotalInput
//
// =============================================================================

package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// =============================================================================
// RULE NAMES
// =============================================================================

const (
	RuleQuantity      = "quantity"
	RuleUnitPrice     = "unit_price"
	RuleTransactionID = "transaction_id"
	RuleProductID     = "product_id"
	RuleCustomerID    = "customer_id"
	RuleRegion        = "region"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError describes why a single transaction broke a rule.
type ValidationError struct {
	// Rule is one of the Rule* constants.
	Rule string

	// Field is the transaction field that failed.
	Field string

	// Value is the offending value as text.
	Value string

	// Message is a human-readable explanation.
	Message string

	// TransactionID identifies the record, as far as it can.
	TransactionID string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Transaction '%s', Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Rule),
		e.TransactionID,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// CRITERIA AND SUMMARY
// =============================================================================

// Criteria narrows the valid set. Zero values mean "no filter": an amount
// bound of exactly 0 is indistinguishable from an absent one. NaN and
// infinite bounds are ignored the same way.
type Criteria struct {
	Region    string
	MinAmount float64
	MaxAmount float64
}

// Summary reports what happened to every input record.
type Summary struct {
	TotalInput       int `json:"total_input"`
	Invalid          int `json:"invalid"`
	FilteredByRegion int `json:"filtered_by_region"`
	FilteredByAmount int `json:"filtered_by_amount"`
	FinalCount       int `json:"final_count"`

	// InvalidByRule breaks Invalid down by the first rule each record failed.
	InvalidByRule map[string]int `json:"invalid_by_rule"`
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// ValidateAndFilter checks every transaction and returns the ones that pass
// both the rules and the filters, the number of invalid records, and a
// summary. Input order is preserved.
func ValidateAndFilter(transactions []types.Transaction, criteria Criteria) ([]types.Transaction, int, Summary) {
	summary := Summary{
		TotalInput:    len(transactions),
		InvalidByRule: make(map[string]int),
	}

	var minAmount, maxAmount decimal.Decimal
	hasMin := isBound(criteria.MinAmount)
	hasMax := isBound(criteria.MaxAmount)
	if hasMin {
		minAmount = decimal.NewFromFloat(criteria.MinAmount)
	}
	if hasMax {
		maxAmount = decimal.NewFromFloat(criteria.MaxAmount)
	}

	valid := make([]types.Transaction, 0, len(transactions))

	for _, tx := range transactions {
		if verr := CheckTransaction(tx); verr != nil {
			summary.Invalid++
			summary.InvalidByRule[verr.Rule]++
			continue
		}

		if criteria.Region != "" && tx.Region != criteria.Region {
			summary.FilteredByRegion++
			continue
		}

		amount := tx.AmountDecimal()
		if hasMin && amount.LessThan(minAmount) {
			summary.FilteredByAmount++
			continue
		}
		if hasMax && amount.GreaterThan(maxAmount) {
			summary.FilteredByAmount++
			continue
		}

		valid = append(valid, tx)
	}

	summary.FinalCount = len(valid)
	return valid, summary.Invalid, summary
}

// isBound reports whether an amount acts as a filter. Zero and non-finite
// values mean no bound.
func isBound(amount float64) bool {
	return amount != 0 && !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

// CheckTransaction applies the business rules to one transaction and returns
// the first violation, or nil.
func CheckTransaction(tx types.Transaction) *ValidationError {
	switch {
	case tx.Quantity <= 0:
		return newError(tx, RuleQuantity, "Quantity", fmt.Sprint(tx.Quantity), "quantity must be positive")
	case !(tx.UnitPrice > 0):
		return newError(tx, RuleUnitPrice, "UnitPrice", fmt.Sprint(tx.UnitPrice), "unit price must be positive")
	case !strings.HasPrefix(tx.TransactionID, "T"):
		return newError(tx, RuleTransactionID, "TransactionID", tx.TransactionID, "must start with 'T'")
	case !strings.HasPrefix(tx.ProductID, "P"):
		return newError(tx, RuleProductID, "ProductID", tx.ProductID, "must start with 'P'")
	case !strings.HasPrefix(tx.CustomerID, "C"):
		return newError(tx, RuleCustomerID, "CustomerID", tx.CustomerID, "must start with 'C'")
	case strings.TrimSpace(tx.Region) == "":
		return newError(tx, RuleRegion, "Region", tx.Region, "region is required")
	}
	return nil
}

func newError(tx types.Transaction, rule, field, value, message string) *ValidationError {
	return &ValidationError{
		Rule:          rule,
		Field:         field,
		Value:         value,
		Message:       message,
		TransactionID: tx.TransactionID,
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatSummary renders the summary for the terminal.
func FormatSummary(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total input:         %d\n", s.TotalInput)
	fmt.Fprintf(&b, "Invalid:             %d\n", s.Invalid)
	fmt.Fprintf(&b, "Filtered by region:  %d\n", s.FilteredByRegion)
	fmt.Fprintf(&b, "Filtered by amount:  %d\n", s.FilteredByAmount)
	fmt.Fprintf(&b, "Final count:         %d\n", s.FinalCount)

	rules := []string{RuleQuantity, RuleUnitPrice, RuleTransactionID, RuleProductID, RuleCustomerID, RuleRegion}
	if s.Invalid > 0 {
		b.WriteString("\nInvalid records by rule:\n")
		for _, rule := range rules {
			if n := s.InvalidByRule[rule]; n > 0 {
				fmt.Fprintf(&b, "  %-16s %d\n", rule, n)
			}
		}
	}

	return b.String()
}
