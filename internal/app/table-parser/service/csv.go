package table_parser_service

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var delimiterCandidates = []rune{',', ';', '\t', '|'}

func readCSV(file []byte, filename string) ([][]string, error) {
	text, err := decodeText(file)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.Comma = sniffDelimiter(text, filename)

	return reader.ReadAll()
}

// decodeText converts the buffer to UTF-8. A BOM selects UTF-8 or UTF-16;
// without one, invalid UTF-8 is read as Windows-1252 (Excel's default CSV export).
func decodeText(file []byte) ([]byte, error) {
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if !utf8.Valid(file) {
		fallback = charmap.Windows1252.NewDecoder()
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), file)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// sniffDelimiter picks the candidate occurring most often in the header line,
// ignoring quoted sections.
func sniffDelimiter(text []byte, filename string) rune {
	if strings.EqualFold(filepath.Ext(filename), ".tsv") {
		return '\t'
	}

	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}

	counts := make(map[rune]int, len(delimiterCandidates))
	inQuotes := false
	for _, r := range string(line) {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		counts[r]++
	}

	best, bestCount := ',', 0
	for _, d := range delimiterCandidates {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}
