package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/sales-analytics/internal/enrichment"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

func sampleTransactions() []types.Transaction {
	return []types.Transaction{
		{TransactionID: "T1", Date: "2024-12-02", ProductID: "P101", ProductName: "Laptop", Quantity: 2, UnitPrice: 45000, CustomerID: "C1", Region: "North"},
		{TransactionID: "T2", Date: "2024-12-01", ProductID: "P102", ProductName: "Mouse", Quantity: 10, UnitPrice: 500, CustomerID: "C2", Region: "South"},
		{TransactionID: "T3", Date: "2024-12-01", ProductID: "P777", ProductName: "Gizmo", Quantity: 3, UnitPrice: 150.5, CustomerID: "C2", Region: "North"},
	}
}

func sampleData(t *testing.T) *Data {
	t.Helper()
	valid := sampleTransactions()
	r := 4.5
	cat := enrichment.CreateProductMapping([]types.ProductCatalogEntry{
		{ID: 101, Title: "Laptop", Category: "laptops", Brand: "Apple", Rating: &r},
		{ID: 102, Title: "Mouse", Category: "accessories", Brand: "Logi"},
	})
	enriched := enrichment.EnrichSalesData(valid, cat)

	return Build(valid, enriched, Options{
		TopN:                  5,
		LowPerformerThreshold: 10,
		CurrencySymbol:        "$",
		RunID:                 "run-123",
		GeneratedAt:           time.Date(2024, 12, 5, 9, 30, 0, 0, time.UTC),
	})
}

func TestBuild(t *testing.T) {
	data := sampleData(t)

	if data.RecordCount != 3 {
		t.Errorf("RecordCount got=%d", data.RecordCount)
	}
	if data.Overall.TotalRevenue != 95451.5 {
		t.Errorf("TotalRevenue got=%v", data.Overall.TotalRevenue)
	}
	if len(data.Regions) != 2 || data.Regions[0].Region != "North" {
		t.Errorf("Regions got=%+v", data.Regions)
	}
	if !data.HasPeak || data.Peak.Date != "2024-12-02" {
		t.Errorf("Peak got=%+v has=%v", data.Peak, data.HasPeak)
	}
	if len(data.LowPerformers) != 2 {
		t.Errorf("LowPerformers got=%+v", data.LowPerformers)
	}
	if data.Enrichment.Matched != 2 || data.Enrichment.SuccessRate != 66.67 {
		t.Errorf("Enrichment got=%+v", data.Enrichment)
	}
}

func TestBuild_TrimsCustomersToTopN(t *testing.T) {
	var valid []types.Transaction
	for _, id := range []string{"C1", "C2", "C3", "C4"} {
		valid = append(valid, types.Transaction{TransactionID: "T1", Date: "2024-01-01", ProductID: "P1", ProductName: "A", Quantity: 1, UnitPrice: 1, CustomerID: id, Region: "North"})
	}

	data := Build(valid, nil, Options{TopN: 2})
	if len(data.TopCustomers) != 2 || len(data.TopProducts) != 1 {
		t.Fatalf("customers=%d products=%d", len(data.TopCustomers), len(data.TopProducts))
	}
	if data.CurrencySymbol != DefaultCurrencySymbol {
		t.Errorf("CurrencySymbol got=%q", data.CurrencySymbol)
	}
}

func TestRender_SectionsInOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleData(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	sections := []string{
		"SALES ANALYTICS REPORT",
		"OVERALL SUMMARY",
		"REGION-WISE PERFORMANCE",
		"TOP 5 PRODUCTS",
		"TOP 5 CUSTOMERS",
		"DAILY SALES TREND",
		"PRODUCT PERFORMANCE ANALYSIS",
		"API ENRICHMENT SUMMARY",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		if idx < 0 {
			t.Fatalf("missing section %q in:\n%s", s, out)
		}
		if idx < last {
			t.Errorf("section %q out of order", s)
		}
		last = idx
	}
}

func TestRender_Content(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleData(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	wants := []string{
		"Generated: 2024-12-05 09:30:00",
		"Records Processed: 3",
		"Run ID: run-123",
		"Total Revenue: $95,451.50",
		"Average Order Value: $31,817.17",
		"Date Range: 2024-12-01 to 2024-12-02",
		"$90,000",
		"94.76%",
		"Best Selling Day: 2024-12-02 | Revenue: $90,000",
		"- Laptop (Qty: 2, Revenue: $90,000)",
		"Total products enriched: 2",
		"Success rate: 66.67%",
		"Products not enriched:\n- Gizmo\n",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in report:\n%s", want, out)
		}
	}
}

func TestRender_EmptyBatch(t *testing.T) {
	data := Build(nil, nil, Options{GeneratedAt: time.Now()})

	var buf bytes.Buffer
	if err := Render(&buf, data); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Total Revenue: ₹0.00",
		"Average Order Value: ₹0.00",
		"Date Range: no data",
		"Best Selling Day: no data",
		"No low performing products found.",
		"Success rate: 0.00%",
		"All products successfully enriched.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in report:\n%s", want, out)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.txt")

	if err := WriteFile(path, sampleData(t)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(body), strings.Repeat("=", 45)+"\nSALES ANALYTICS REPORT\n") {
		t.Errorf("unexpected start:\n%s", body)
	}
}
