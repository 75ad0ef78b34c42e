package app

type Company struct {
	Name     string `json:"name"`
	Website  string `json:"website"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
	Location string `json:"location"`
}

// LeadCandidate is a cleaned, not yet persisted lead produced by one source row.
type LeadCandidate struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Role        string  `json:"role"`
	LinkedinURL string  `json:"linkedinUrl"`
	Source      string  `json:"source"`
	Notes       string  `json:"notes"`
	Company     Company `json:"company"`
}

// ColumnMapping maps a canonical field to the source header feeding it.
type ColumnMapping map[LeadField]string

// Uses reports whether header already feeds some field.
func (m ColumnMapping) Uses(header string) bool {
	for _, h := range m {
		if h == header {
			return true
		}
	}
	return false
}

type ImportStats struct {
	TotalRows  int `json:"totalRows"`
	Imported   int `json:"imported"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Leads          []LeadCandidate `json:"leads"`
	Stats          ImportStats     `json:"stats"`
	ColumnMappings ColumnMapping   `json:"columnMappings"`
	SkippedRows    []SkippedRow    `json:"skippedRows"`
}

type PreviewResult struct {
	Preview        []LeadCandidate `json:"preview"`
	Stats          ImportStats     `json:"stats"`
	ColumnMappings ColumnMapping   `json:"columnMappings"`
	SkippedRows    []SkippedRow    `json:"skippedRows"`
}
