package header_mapping_service

import (
	"fmt"
	"strings"

	"github.com/nebula-marketing/lead-importer/domain/app"
)

// CollectExamples picks up to perHeader distinct non-empty values per header,
// truncating long ones, so the model can tell ambiguous columns apart.
func CollectExamples(table *app.RawTable, headers []string, perHeader, truncateLen int) map[string][]string {
	if table == nil || perHeader <= 0 {
		return nil
	}

	examples := make(map[string][]string, len(headers))
	for _, header := range headers {
		samples := make([]string, 0, perHeader)
		for _, row := range table.Rows {
			if len(samples) >= perHeader {
				break
			}
			val := strings.TrimSpace(row[header])
			if val == "" {
				continue
			}
			if r := []rune(val); truncateLen > 0 && len(r) > truncateLen {
				val = string(r[:truncateLen]) + fmt.Sprintf("…(+%d)", len(r)-truncateLen)
			}
			dup := false
			for _, ex := range samples {
				if ex == val {
					dup = true
					break
				}
			}
			if !dup {
				samples = append(samples, val)
			}
		}
		if len(samples) > 0 {
			examples[header] = samples
		}
	}
	return examples
}
