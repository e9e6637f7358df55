package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMainConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "input_file: sales.txt\n")

	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("LoadMainConfig: %v", err)
	}
	if cfg.InputFile != "sales.txt" {
		t.Errorf("InputFile got=%q want=%q", cfg.InputFile, "sales.txt")
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir got=%q want=%q", cfg.OutputDir, DefaultOutputDir)
	}
	if cfg.Analytics.TopN != DefaultTopN {
		t.Errorf("TopN got=%d want=%d", cfg.Analytics.TopN, DefaultTopN)
	}
	if cfg.Analytics.LowPerformerThreshold != DefaultLowPerformerThreshold {
		t.Errorf("threshold got=%d want=%d", cfg.Analytics.LowPerformerThreshold, DefaultLowPerformerThreshold)
	}
	if len(cfg.Encodings) != 3 {
		t.Errorf("Encodings got=%v", cfg.Encodings)
	}
	if !cfg.CatalogEnabled() {
		t.Error("catalog should be enabled by default")
	}
	if cfg.CatalogTimeout() != 10*time.Second {
		t.Errorf("CatalogTimeout got=%s", cfg.CatalogTimeout())
	}
}

func TestLoadMainConfig_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
output_dir: out
catalog:
  url: http://localhost:9999/products
  timeout: 2s
  enabled: false
analytics:
  top_n: 3
  low_performer_threshold: 25
filters:
  region: North
  min_amount: 100
  max_amount: 5000
`)

	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("LoadMainConfig: %v", err)
	}
	if cfg.CatalogEnabled() {
		t.Error("explicit enabled: false must survive defaults")
	}
	if cfg.CatalogTimeout() != 2*time.Second {
		t.Errorf("CatalogTimeout got=%s", cfg.CatalogTimeout())
	}
	if cfg.Analytics.TopN != 3 || cfg.Analytics.LowPerformerThreshold != 25 {
		t.Errorf("analytics got=%+v", cfg.Analytics)
	}
	if cfg.Filters.Region != "North" || cfg.Filters.MinAmount != 100 || cfg.Filters.MaxAmount != 5000 {
		t.Errorf("filters got=%+v", cfg.Filters)
	}
}

func TestLoadMainConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad timeout", "catalog:\n  timeout: soon\n"},
		{"unknown encoding", "encodings: [EBCDIC]\n"},
		{"min above max", "filters:\n  min_amount: 500\n  max_amount: 100\n"},
		{"negative top", "analytics:\n  top_n: -1\n"},
		{"bad log format", "log_format: xml\n"},
		{"broken yaml", "input_file: [\n"},
		{"NaN minimum", "filters:\n  min_amount: .nan\n"},
		{"infinite maximum", "filters:\n  max_amount: .inf\n"},
		{"negative infinite minimum", "filters:\n  min_amount: -.inf\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadMainConfig(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := LoadOrDefault(missing, false)
	if err != nil {
		t.Fatalf("implicit missing config should fall back to defaults: %v", err)
	}
	if cfg.InputFile != DefaultInputFile {
		t.Errorf("InputFile got=%q", cfg.InputFile)
	}

	if _, err := LoadOrDefault(missing, true); err == nil {
		t.Fatal("explicit missing config should fail")
	}
}

func TestValidate_NonFiniteFilterFromFlags(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		cfg := Default()
		cfg.Filters.MaxAmount = v
		if err := cfg.Validate(); err == nil {
			t.Errorf("max_amount %v accepted", v)
		}
	}
}
