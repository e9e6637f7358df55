package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// Environment variables that override the YAML file. They are applied after
// the file is read and before defaults, so an unset variable changes nothing.
const (
	EnvInputFile      = "SALES_INPUT_FILE"
	EnvOutputDir      = "SALES_OUTPUT_DIR"
	EnvEnrichedFile   = "SALES_ENRICHED_FILE"
	EnvCurrencySymbol = "SALES_CURRENCY_SYMBOL"
	EnvLogLevel       = "SALES_LOG_LEVEL"
	EnvLogFormat      = "SALES_LOG_FORMAT"
	EnvCatalogURL     = "SALES_CATALOG_URL"
	EnvCatalogTimeout = "SALES_CATALOG_TIMEOUT"
	EnvCatalogEnabled = "SALES_CATALOG_ENABLED"
)

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) into the process environment. Variables already set win. Missing
// files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if utils.FileExists(p) {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// applyEnvOverrides copies SALES_* variables into cfg.
func applyEnvOverrides(cfg *MainConfig) error {
	fields := map[string]*string{
		EnvInputFile:      &cfg.InputFile,
		EnvOutputDir:      &cfg.OutputDir,
		EnvEnrichedFile:   &cfg.EnrichedFile,
		EnvCurrencySymbol: &cfg.CurrencySymbol,
		EnvLogLevel:       &cfg.LogLevel,
		EnvLogFormat:      &cfg.LogFormat,
		EnvCatalogURL:     &cfg.Catalog.URL,
		EnvCatalogTimeout: &cfg.Catalog.Timeout,
	}
	for key, field := range fields {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}

	if v, ok := os.LookupEnv(EnvCatalogEnabled); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCatalogEnabled, err)
		}
		cfg.Catalog.Enabled = &enabled
	}
	return nil
}
