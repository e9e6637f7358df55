// =============================================================================
// Sales Analytics - Sales Log Reader
// =============================================================================
//
// This module reads the raw sales log from disk. Legacy exports arrive in
// more than one character set, so decoding falls back through a configured
// list of encodings:
//   1. UTF-8 (only when the bytes are valid UTF-8; a BOM is stripped)
//   2. ISO-8859-1 (Latin-1)
//   3. Windows-1252
//
// The first line is the header and is discarded. Blank lines are skipped and
// every remaining line is trimmed.
//
// =============================================================================

package salesparser

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ErrUndecodable is returned when none of the configured encodings can
// decode the input file.
var ErrUndecodable = errors.New("unable to decode file with supported encodings")

// ReadSalesData reads path and returns its data lines without the header
// and without blank lines.
func ReadSalesData(path string, encodings []string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sales data: %w", err)
	}

	text, err := decode(data, encodings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return SplitDataLines(text), nil
}

// SplitDataLines drops the header line, trims every other line and skips
// the ones left empty.
func SplitDataLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return []string{}
	}

	out := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// decode tries each encoding in order and returns the first successful
// decoding.
func decode(data []byte, encodings []string) (string, error) {
	if len(encodings) == 0 {
		encodings = []string{"UTF-8"}
	}

	for _, name := range encodings {
		switch strings.ToUpper(name) {
		case "UTF-8":
			if !utf8.Valid(data) {
				continue
			}
			out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
			if err != nil {
				continue
			}
			return string(out), nil
		case "ISO-8859-1":
			if out, err := decodeWith(charmap.ISO8859_1, data); err == nil {
				return out, nil
			}
		case "WINDOWS-1252":
			if out, err := decodeWith(charmap.Windows1252, data); err == nil {
				return out, nil
			}
		}
	}

	return "", ErrUndecodable
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
