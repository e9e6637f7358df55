// =============================================================================
// Sales Analytics - Main Entry Point
// =============================================================================
//
// USAGE:
//   sales-analytics analyze    - Run the full pipeline and write the report
//   sales-analytics validate   - Validate the sales log without reporting
//   sales-analytics version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : parsing, validation, analytics, enrichment, reporting
//   - pkg/       : output directory and file name helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sales-analytics/cmd"
)

func main() {
	cmd.Execute()
}
