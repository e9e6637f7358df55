package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

func tx(id, product, customer, region string, qty int, price float64) types.Transaction {
	return types.Transaction{
		TransactionID: id,
		Date:          "2024-01-01",
		ProductID:     product,
		ProductName:   "Widget",
		Quantity:      qty,
		UnitPrice:     price,
		CustomerID:    customer,
		Region:        region,
	}
}

func TestCheckTransaction(t *testing.T) {
	tests := []struct {
		name     string
		tx       types.Transaction
		wantRule string
	}{
		{"valid", tx("T1", "P1", "C1", "North", 5, 10), ""},
		{"zero quantity", tx("T1", "P1", "C1", "North", 0, 10), RuleQuantity},
		{"negative quantity", tx("T1", "P1", "C1", "North", -2, 10), RuleQuantity},
		{"zero price", tx("T1", "P1", "C1", "North", 1, 0), RuleUnitPrice},
		{"negative price", tx("T1", "P1", "C1", "North", 1, -4.5), RuleUnitPrice},
		{"bad transaction prefix", tx("X1", "P1", "C1", "North", 1, 1), RuleTransactionID},
		{"lowercase transaction prefix", tx("t1", "P1", "C1", "North", 1, 1), RuleTransactionID},
		{"bad product prefix", tx("T1", "Q1", "C1", "North", 1, 1), RuleProductID},
		{"empty customer", tx("T1", "P1", "", "North", 1, 1), RuleCustomerID},
		{"bad customer prefix", tx("T1", "P1", "D1", "North", 1, 1), RuleCustomerID},
		{"blank region", tx("T1", "P1", "C1", "  ", 1, 1), RuleRegion},
		{"quantity checked before prefix", tx("X1", "Q1", "D1", "", 0, 0), RuleQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransaction(tt.tx)
			if tt.wantRule == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected rule %q, got nil", tt.wantRule)
			}
			if err.Rule != tt.wantRule {
				t.Errorf("rule got=%q want=%q", err.Rule, tt.wantRule)
			}
		})
	}
}

func TestValidateAndFilter_NoCriteria(t *testing.T) {
	in := []types.Transaction{
		tx("T1", "P1", "C1", "North", 5, 10),
		tx("X2", "P1", "C1", "North", 5, 10),
		tx("T3", "P1", "C1", "South", 0, 10),
		tx("T4", "P1", "C2", "South", 1, 2.5),
	}

	valid, invalid, summary := ValidateAndFilter(in, Criteria{})

	if len(valid) != 2 || valid[0].TransactionID != "T1" || valid[1].TransactionID != "T4" {
		t.Fatalf("valid got=%+v", valid)
	}
	if invalid != 2 || summary.Invalid != 2 {
		t.Errorf("invalid got=%d summary=%d want=2", invalid, summary.Invalid)
	}
	if summary.InvalidByRule[RuleTransactionID] != 1 || summary.InvalidByRule[RuleQuantity] != 1 {
		t.Errorf("InvalidByRule got=%v", summary.InvalidByRule)
	}
	if summary.TotalInput != 4 || summary.FinalCount != 2 {
		t.Errorf("summary got=%+v", summary)
	}
}

func TestValidateAndFilter_Filters(t *testing.T) {
	in := []types.Transaction{
		tx("T1", "P1", "C1", "North", 1, 50),  // 50
		tx("T2", "P1", "C1", "North", 2, 100), // 200
		tx("T3", "P1", "C1", "North", 10, 100), // 1000
		tx("T4", "P1", "C1", "South", 2, 100), // 200, wrong region
		tx("X5", "P1", "C1", "South", 2, 100), // invalid before region check
	}

	valid, invalid, summary := ValidateAndFilter(in, Criteria{Region: "North", MinAmount: 100, MaxAmount: 500})

	if len(valid) != 1 || valid[0].TransactionID != "T2" {
		t.Fatalf("valid got=%+v", valid)
	}
	if invalid != 1 {
		t.Errorf("invalid got=%d want=1", invalid)
	}
	if summary.FilteredByRegion != 1 {
		t.Errorf("FilteredByRegion got=%d want=1", summary.FilteredByRegion)
	}
	if summary.FilteredByAmount != 2 {
		t.Errorf("FilteredByAmount got=%d want=2", summary.FilteredByAmount)
	}
}

func TestValidateAndFilter_BoundsAreInclusive(t *testing.T) {
	// 3 × 0.1 is 0.30000000000000004 in float64; the bound must still hold.
	in := []types.Transaction{
		tx("T1", "P1", "C1", "North", 3, 0.1),
		tx("T2", "P1", "C1", "North", 1, 100),
	}

	valid, _, summary := ValidateAndFilter(in, Criteria{MinAmount: 0.3, MaxAmount: 100})
	if len(valid) != 2 {
		t.Fatalf("valid got=%d want=2, summary=%+v", len(valid), summary)
	}
}

func TestValidateAndFilter_ZeroBoundMeansNoFilter(t *testing.T) {
	in := []types.Transaction{
		tx("T1", "P1", "C1", "North", 1, 0.01),
		tx("T2", "P1", "C1", "North", 1000, 999),
	}

	valid, _, summary := ValidateAndFilter(in, Criteria{MinAmount: 0, MaxAmount: 0})
	if len(valid) != 2 || summary.FilteredByAmount != 0 {
		t.Fatalf("zero bounds must not filter: valid=%d summary=%+v", len(valid), summary)
	}
}

func TestValidateAndFilter_RegionIsExact(t *testing.T) {
	in := []types.Transaction{
		tx("T1", "P1", "C1", "North", 1, 1),
		tx("T2", "P1", "C1", "north", 1, 1),
		tx("T3", "P1", "C1", " North", 1, 1),
	}

	valid, _, summary := ValidateAndFilter(in, Criteria{Region: "North"})
	if len(valid) != 1 || summary.FilteredByRegion != 2 {
		t.Fatalf("valid=%d summary=%+v", len(valid), summary)
	}
}

func TestValidateAndFilter_CountsAlwaysBalance(t *testing.T) {
	in := []types.Transaction{
		tx("T1", "P1", "C1", "North", 1, 10),
		tx("T2", "P2", "C2", "South", 5, 100),
		tx("X3", "P3", "C3", "East", 1, 10),
		tx("T4", "Q4", "C4", "West", 1, 10),
		tx("T5", "P5", "C5", "North", 0, 10),
		tx("T6", "P6", "C6", "North", 50, 100),
		tx("T7", "P7", "D7", "North", 1, 10),
	}
	criteria := []Criteria{
		{},
		{Region: "North"},
		{MinAmount: 20},
		{MaxAmount: 100},
		{Region: "North", MinAmount: 5, MaxAmount: 1000},
		{Region: "Nowhere"},
	}

	for _, c := range criteria {
		_, _, s := ValidateAndFilter(in, c)
		if s.FinalCount+s.Invalid+s.FilteredByRegion+s.FilteredByAmount != s.TotalInput {
			t.Errorf("criteria %+v: counts do not balance: %+v", c, s)
		}
	}
}

func TestValidateAndFilter_Empty(t *testing.T) {
	valid, invalid, summary := ValidateAndFilter(nil, Criteria{Region: "North"})
	if len(valid) != 0 || invalid != 0 || summary.TotalInput != 0 || summary.FinalCount != 0 {
		t.Fatalf("got valid=%v invalid=%d summary=%+v", valid, invalid, summary)
	}
}

func TestFormatSummary(t *testing.T) {
	s := Summary{
		TotalInput: 10, Invalid: 3, FilteredByRegion: 2, FilteredByAmount: 1, FinalCount: 4,
		InvalidByRule: map[string]int{RuleQuantity: 2, RuleProductID: 1},
	}

	out := FormatSummary(s)
	for _, want := range []string{"Total input:         10", "Final count:         4", "quantity", "product_id"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "unit_price") {
		t.Errorf("rules with zero count should be omitted:\n%s", out)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := CheckTransaction(tx("T9", "Q1", "C1", "North", 1, 1))
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "PRODUCT_ID") || !strings.Contains(msg, "T9") || !strings.Contains(msg, "Q1") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestValidateAndFilter_NonFiniteBoundMeansNoFilter(t *testing.T) {
	in := []types.Transaction{
		tx("T1", "P1", "C1", "North", 1, 10),
		tx("T2", "P1", "C1", "North", 3, 100),
	}

	tests := []struct {
		name     string
		criteria Criteria
	}{
		{"NaN minimum", Criteria{MinAmount: math.NaN()}},
		{"NaN maximum", Criteria{MaxAmount: math.NaN()}},
		{"+Inf maximum", Criteria{MaxAmount: math.Inf(1)}},
		{"-Inf minimum", Criteria{MinAmount: math.Inf(-1)}},
		{"both infinite", Criteria{MinAmount: math.Inf(1), MaxAmount: math.Inf(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, invalid, summary := ValidateAndFilter(in, tt.criteria)
			if len(valid) != 2 || invalid != 0 || summary.FilteredByAmount != 0 {
				t.Errorf("valid=%d invalid=%d summary=%+v", len(valid), invalid, summary)
			}
		})
	}
}

func TestValidateAndFilter_FiniteBoundBesideNonFinite(t *testing.T) {
	in := []types.Transaction{
		tx("T1", "P1", "C1", "North", 1, 10),
		tx("T2", "P1", "C1", "North", 3, 100),
	}

	valid, _, summary := ValidateAndFilter(in, Criteria{MinAmount: 50, MaxAmount: math.NaN()})
	if len(valid) != 1 || valid[0].TransactionID != "T2" || summary.FilteredByAmount != 1 {
		t.Errorf("valid=%+v summary=%+v", valid, summary)
	}
}
