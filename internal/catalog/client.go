// Package catalog fetches product reference data from the external catalog
// service. A failed fetch never stops a run: FetchAllProducts logs a warning
// and returns an empty list, which leaves every transaction unmatched.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/sales-analytics/internal/logging"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// maxBodySize caps the catalog response read into memory.
const maxBodySize = 16 << 20

// Client talks to one catalog endpoint. It makes a single request per call
// and never retries.
type Client struct {
	url    string
	http   *http.Client
	logger zerolog.Logger
}

// NewClient creates a Client for url. A non-positive timeout means no
// client-side timeout.
func NewClient(url string, timeout time.Duration, logger zerolog.Logger) *Client {
	hc := &http.Client{}
	if timeout > 0 {
		hc.Timeout = timeout
	}
	return &Client{url: url, http: hc, logger: logger}
}

// envelope is the paginated shape returned by dummyjson-style services.
type envelope struct {
	Products []types.ProductCatalogEntry `json:"products"`
}

// Fetch retrieves the catalog. The body may be a bare JSON array of products
// or an object with a "products" array.
func (c *Client) Fetch(ctx context.Context) ([]types.ProductCatalogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET catalog: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}

	return decodeProducts(body)
}

func decodeProducts(body []byte) ([]types.ProductCatalogEntry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decode catalog: empty body")
	}

	if trimmed[0] == '[' {
		var products []types.ProductCatalogEntry
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return products, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return env.Products, nil
}

// FetchAllProducts is Fetch with failures degraded to an empty catalog. It
// logs through the context logger when one is present.
func (c *Client) FetchAllProducts(ctx context.Context) []types.ProductCatalogEntry {
	start := time.Now()
	log := logging.FromContext(ctx, c.logger)

	products, err := c.Fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Str("url", c.url).Msg("catalog fetch failed, continuing without enrichment")
		return []types.ProductCatalogEntry{}
	}
	if products == nil {
		products = []types.ProductCatalogEntry{}
	}

	log.Debug().
		Int("products", len(products)).
		Dur("elapsed", time.Since(start)).
		Msg("catalog fetched")
	return products
}
