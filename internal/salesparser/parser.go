// =============================================================================
// Sales Analytics - Transaction Parser
// =============================================================================
//
// This module turns raw pipe-delimited lines into Transaction records.
//
// LINE FORMAT (8 fields):
//   TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
//
// CLEANING:
//   - Thousands separators (commas) are stripped from ProductName, Quantity
//     and UnitPrice before conversion.
//   - Quantity must be an integer and UnitPrice a finite decimal.
//
// Lines that do not meet the format are dropped silently. They are not
// invalid records: validation never sees them.
//
// =============================================================================

package salesparser

import (
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// Delimiter separates the fields of a sales line.
const Delimiter = "|"

// FieldCount is the number of fields every sales line must carry.
const FieldCount = 8

// Header is the header row of the sales log.
const Header = "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region"

// ParseTransactions parses every line and returns the transactions that
// could be built, in input order.
func ParseTransactions(lines []string) []types.Transaction {
	out := make([]types.Transaction, 0, len(lines))
	for _, line := range lines {
		if tx, ok := ParseLine(line); ok {
			out = append(out, tx)
		}
	}
	return out
}

// ParseLine parses a single sales line. ok is false when the line has the
// wrong number of fields or a non-numeric quantity or price.
func ParseLine(line string) (tx types.Transaction, ok bool) {
	parts := strings.Split(line, Delimiter)
	if len(parts) != FieldCount {
		return types.Transaction{}, false
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(stripCommas(parts[4])))
	if err != nil {
		return types.Transaction{}, false
	}

	unitPrice, err := strconv.ParseFloat(strings.TrimSpace(stripCommas(parts[5])), 64)
	if err != nil || math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return types.Transaction{}, false
	}

	return types.Transaction{
		TransactionID: parts[0],
		Date:          parts[1],
		ProductID:     parts[2],
		ProductName:   stripCommas(parts[3]),
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    parts[6],
		Region:        parts[7],
	}, true
}

// FormatTransaction renders tx back into the line format ParseLine reads.
// ParseLine(FormatTransaction(tx)) yields tx for any parsed transaction.
func FormatTransaction(tx types.Transaction) string {
	return strings.Join(FormatFields(tx), Delimiter)
}

// FormatFields returns the eight line fields of tx.
func FormatFields(tx types.Transaction) []string {
	return []string{
		tx.TransactionID,
		tx.Date,
		tx.ProductID,
		tx.ProductName,
		strconv.Itoa(tx.Quantity),
		strconv.FormatFloat(tx.UnitPrice, 'f', -1, 64),
		tx.CustomerID,
		tx.Region,
	}
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
