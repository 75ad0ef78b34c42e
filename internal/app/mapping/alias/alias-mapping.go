package alias_mapping

import (
	"strings"

	"github.com/nebula-marketing/lead-importer/domain/app"
)

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matches(header string, aliases []string) bool {
	for _, alias := range aliases {
		if header == alias || strings.Contains(header, alias) || strings.Contains(alias, header) {
			return true
		}
	}
	return false
}

// MapColumns greedily assigns headers to canonical fields. Fields are visited in
// declaration order and each takes the left-most unclaimed matching header, so
// the result depends on the header list only.
//
// Claims are keyed by header text because rows are: when two columns share a
// header only the left-most one is readable, so the repeat is never claimed.
func MapColumns(headers []string) app.ColumnMappingResult {
	mapping := make(app.ColumnMapping)
	claimed := make(map[string]bool, len(headers))

	for _, field := range app.AllLeadFields() {
		aliases := fieldAliases[field]
		for _, h := range headers {
			if claimed[h] {
				continue
			}
			norm := normalizeHeader(h)
			if norm == "" {
				continue
			}
			if matches(norm, aliases) {
				mapping[field] = h
				claimed[h] = true
				break
			}
		}
	}

	seen := make(map[string]bool, len(headers))
	unmapped := make([]string, 0)
	for _, h := range headers {
		if claimed[h] || seen[h] || strings.TrimSpace(h) == "" || IsIgnored(strings.TrimSpace(h)) {
			continue
		}
		seen[h] = true
		unmapped = append(unmapped, h)
	}

	return app.ColumnMappingResult{
		Mapping:         mapping,
		UnmappedColumns: unmapped,
	}
}
