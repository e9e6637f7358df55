// =============================================================================
// Sales Analytics - File Utilities
// =============================================================================
//
// Small helpers shared by the commands and the analyzer:
//   - Directory management for output locations
//   - Output file naming with placeholders
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates every directory that does not exist yet.
// Empty entries and "." are ignored.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	return EnsureDirectories(filepath.Dir(path))
}

// FileExists checks if a regular file exists at path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands the placeholders in format.
//
// Placeholders:
//
//	{uuid}      - a random UUID
//	{timestamp} - current timestamp (YYYYMMDD_HHMMSS)
//	{date}      - current date (YYYYMMDD)
//	{time}      - current time (HHMMSS)
//	{key}       - any key of params, e.g. {run_id}
//
// When ext is not empty and the result does not already end with it, ext is
// appended.
//
// Example: "sales_report_{date}_{run_id}" with params {"run_id": "ab12"} and
// ext ".txt" gives "sales_report_20241205_ab12.txt".
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}
