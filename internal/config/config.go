// =============================================================================
// Sales Analytics - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration from
// a YAML file and filling in defaults for anything left unset.
//
// PRECEDENCE (highest first):
//   1. Command-line flags (applied by the commands)
//   2. SALES_* environment variables, optionally loaded from .env
//   3. config.yaml
//   4. Built-in defaults
//
// CONFIGURATION FILE (config.yaml):
//   input_file:           ./data/sales_data.txt
//   output_dir:           ./output
//   enriched_file:        ./data/enriched_sales_data.txt
//   report_file_format:   sales_report.txt
//   workbook_file_format: ""            # e.g. "sales_{date}_{run_id}.xlsx"
//   encodings:            [UTF-8, ISO-8859-1, Windows-1252]
//   currency_symbol:      "₹"
//   log_level:            info
//   log_format:           console
//   catalog:
//     url:     https://dummyjson.com/products?limit=100
//     timeout: 10s
//     enabled: true
//   analytics:
//     top_n: 5
//     low_performer_threshold: 10
//   filters:
//     region: ""
//     min_amount: 0
//     max_amount: 0
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// InputFile is the pipe-delimited sales log to analyse.
	InputFile string `yaml:"input_file"`

	// OutputDir receives the text report and the optional workbook.
	OutputDir string `yaml:"output_dir"`

	// EnrichedFile is where enriched transactions are written.
	EnrichedFile string `yaml:"enriched_file"`

	// ReportFileFormat names the report file inside OutputDir.
	// Placeholders: {uuid}, {run_id}, {timestamp}, {date}, {time}.
	ReportFileFormat string `yaml:"report_file_format"`

	// WorkbookFileFormat names the Excel workbook. Empty disables it.
	WorkbookFileFormat string `yaml:"workbook_file_format"`

	// Encodings are tried in order when decoding the input file.
	Encodings []string `yaml:"encodings"`

	// CurrencySymbol prefixes money values in the report.
	CurrencySymbol string `yaml:"currency_symbol"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// LogFormat is "console" or "json".
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// COLLABORATORS AND RULES
	// =========================================================================

	Catalog   CatalogConfig   `yaml:"catalog"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Filters   FilterConfig    `yaml:"filters"`
}

// CatalogConfig configures the external product catalog.
type CatalogConfig struct {
	// URL returns either a JSON array of products or an object with a
	// "products" array.
	URL string `yaml:"url"`

	// Timeout is a Go duration string, e.g. "10s".
	Timeout string `yaml:"timeout"`

	// Enabled turns enrichment on. A pointer so an explicit false survives
	// default filling.
	Enabled *bool `yaml:"enabled"`
}

// AnalyticsConfig holds the tunables of the aggregator.
type AnalyticsConfig struct {
	TopN                  int `yaml:"top_n"`
	LowPerformerThreshold int `yaml:"low_performer_threshold"`
}

// FilterConfig holds the optional validator filters.
// A zero amount means "no filter".
type FilterConfig struct {
	Region    string  `yaml:"region"`
	MinAmount float64 `yaml:"min_amount"`
	MaxAmount float64 `yaml:"max_amount"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultInputFile             = "./data/sales_data.txt"
	DefaultOutputDir             = "./output"
	DefaultEnrichedFile          = "./data/enriched_sales_data.txt"
	DefaultReportFileFormat      = "sales_report.txt"
	DefaultCurrencySymbol        = "₹"
	DefaultCatalogURL            = "https://dummyjson.com/products?limit=100"
	DefaultCatalogTimeout        = "10s"
	DefaultTopN                  = 5
	DefaultLowPerformerThreshold = 10
)

// DefaultEncodings mirrors the fallback order of the legacy exports.
var DefaultEncodings = []string{"UTF-8", "ISO-8859-1", "Windows-1252"}

var knownEncodings = map[string]bool{
	"UTF-8":        true,
	"ISO-8859-1":   true,
	"WINDOWS-1252": true,
}

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file, applies
// environment overrides and defaults, and validates the result.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg MainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return finish(&cfg)
}

// LoadOrDefault loads configPath when it exists. A missing file is only an
// error when the caller asked for it explicitly.
func LoadOrDefault(configPath string, explicit bool) (*MainConfig, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) && !explicit {
		return finish(&MainConfig{})
	}
	return LoadMainConfig(configPath)
}

func finish(cfg *MainConfig) (*MainConfig, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	applyMainConfigDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyMainConfigDefaults sets default values for any unset option.
func applyMainConfigDefaults(cfg *MainConfig) {
	if cfg.InputFile == "" {
		cfg.InputFile = DefaultInputFile
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.EnrichedFile == "" {
		cfg.EnrichedFile = DefaultEnrichedFile
	}
	if cfg.ReportFileFormat == "" {
		cfg.ReportFileFormat = DefaultReportFileFormat
	}
	if len(cfg.Encodings) == 0 {
		cfg.Encodings = append([]string(nil), DefaultEncodings...)
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = DefaultCurrencySymbol
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.Catalog.URL == "" {
		cfg.Catalog.URL = DefaultCatalogURL
	}
	if cfg.Catalog.Timeout == "" {
		cfg.Catalog.Timeout = DefaultCatalogTimeout
	}
	if cfg.Catalog.Enabled == nil {
		enabled := true
		cfg.Catalog.Enabled = &enabled
	}
	if cfg.Analytics.TopN == 0 {
		cfg.Analytics.TopN = DefaultTopN
	}
	if cfg.Analytics.LowPerformerThreshold == 0 {
		cfg.Analytics.LowPerformerThreshold = DefaultLowPerformerThreshold
	}
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *MainConfig) Validate() error {
	if c.Analytics.TopN < 1 {
		return fmt.Errorf("analytics.top_n must be at least 1, got %d", c.Analytics.TopN)
	}
	if c.Analytics.LowPerformerThreshold < 0 {
		return fmt.Errorf("analytics.low_performer_threshold must not be negative, got %d", c.Analytics.LowPerformerThreshold)
	}
	if _, err := time.ParseDuration(c.Catalog.Timeout); err != nil {
		return fmt.Errorf("catalog.timeout: %w", err)
	}
	for _, enc := range c.Encodings {
		if !knownEncodings[strings.ToUpper(enc)] {
			return fmt.Errorf("unsupported encoding %q", enc)
		}
	}
	for _, v := range []float64{c.Filters.MinAmount, c.Filters.MaxAmount} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("filter amounts must be finite, got %v", v)
		}
	}
	if c.Filters.MinAmount < 0 || c.Filters.MaxAmount < 0 {
		return fmt.Errorf("filter amounts must not be negative")
	}
	if c.Filters.MinAmount != 0 && c.Filters.MaxAmount != 0 && c.Filters.MinAmount > c.Filters.MaxAmount {
		return fmt.Errorf("filters.min_amount (%.2f) is greater than filters.max_amount (%.2f)",
			c.Filters.MinAmount, c.Filters.MaxAmount)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// CatalogTimeout returns the parsed catalog timeout. Validate guarantees it
// parses; the default is returned otherwise.
func (c *MainConfig) CatalogTimeout() time.Duration {
	d, err := time.ParseDuration(c.Catalog.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultCatalogTimeout)
	}
	return d
}

// CatalogEnabled reports whether enrichment should call the catalog.
func (c *MainConfig) CatalogEnabled() bool {
	return c.Catalog.Enabled == nil || *c.Catalog.Enabled
}
