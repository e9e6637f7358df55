package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestGenerateOutputFileName(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		params  map[string]string
		ext     string
		pattern string
	}{
		{"plain name keeps extension", "sales_report.txt", nil, ".txt", `^sales_report\.txt$`},
		{"extension appended", "sales_report", nil, ".txt", `^sales_report\.txt$`},
		{"extension case-insensitive", "REPORT.TXT", nil, ".txt", `^REPORT\.TXT$`},
		{"no extension requested", "report", nil, "", `^report$`},
		{"date and time", "r_{date}_{time}", nil, ".txt", `^r_\d{8}_\d{6}\.txt$`},
		{"timestamp", "r_{timestamp}", nil, ".xlsx", `^r_\d{8}_\d{6}\.xlsx$`},
		{"uuid", "{uuid}", nil, ".txt", `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.txt$`},
		{"custom param", "report_{run_id}", map[string]string{"run_id": "abc"}, ".txt", `^report_abc\.txt$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateOutputFileName(tt.format, tt.params, tt.ext)
			if !regexp.MustCompile(tt.pattern).MatchString(got) {
				t.Errorf("got=%q does not match %s", got, tt.pattern)
			}
		})
	}
}

func TestGenerateOutputFileName_UniqueUUIDs(t *testing.T) {
	a := GenerateOutputFileName("{uuid}", nil, "")
	b := GenerateOutputFileName("{uuid}", nil, "")
	if a == b {
		t.Fatalf("expected distinct names, both %q", a)
	}
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	dirs := []string{filepath.Join(root, "a", "b"), filepath.Join(root, "c"), "", "."}

	if err := EnsureDirectories(dirs...); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range dirs[:2] {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", d, err)
		}
	}
}

func TestEnsureParentDirAndFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "data", "file.txt")

	if FileExists(path) {
		t.Fatal("file should not exist yet")
	}
	if err := EnsureParentDir(path); err != nil {
		t.Fatalf("EnsureParentDir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !FileExists(path) {
		t.Error("FileExists should report the new file")
	}
	if FileExists(strings.TrimSuffix(path, "/file.txt")) {
		t.Error("a directory is not a file")
	}
}
