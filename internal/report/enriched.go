package report

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/salesparser"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// EnrichedHeader is the first line of the enriched-data file.
const EnrichedHeader = salesparser.Header + "|API_Category|API_Brand|API_Rating|API_Match"

// WriteEnrichedData writes enriched transactions as pipe-delimited UTF-8
// text, one line per record after the header. Missing catalog values are
// written as empty fields. The parent directory is created when needed.
func WriteEnrichedData(path string, enriched []types.EnrichedTransaction) error {
	var buf bytes.Buffer
	buf.WriteString(EnrichedHeader)
	buf.WriteByte('\n')
	for _, tx := range enriched {
		buf.WriteString(FormatEnrichedLine(tx))
		buf.WriteByte('\n')
	}

	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write enriched data: %w", err)
	}
	return nil
}

// FormatEnrichedLine renders one enriched record without a trailing newline.
func FormatEnrichedLine(tx types.EnrichedTransaction) string {
	fields := salesparser.FormatFields(tx.Transaction)

	rating := ""
	if tx.APIRating != nil {
		rating = strconv.FormatFloat(*tx.APIRating, 'f', -1, 64)
	}

	fields = append(fields,
		optional(tx.APICategory),
		optional(tx.APIBrand),
		rating,
		strconv.FormatBool(tx.APIMatch),
	)
	return strings.Join(fields, salesparser.Delimiter)
}

// optional dereferences s. Catalog text cannot contain the delimiter, so any
// pipe is replaced with a space.
func optional(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ReplaceAll(*s, salesparser.Delimiter, " ")
}
