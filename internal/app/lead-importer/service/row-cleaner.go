package lead_importer_service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nebula-marketing/lead-importer/domain/app"
)

var (
	phoneStrip      = regexp.MustCompile(`[^\d+\-\s()]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	placeholderHost = "unknown.com"
)

// CleanRow turns one row into a LeadCandidate, or nil when neither a first
// name nor an email can be established.
func CleanRow(row app.Row, mapping app.ColumnMapping) *app.LeadCandidate {
	lead := &app.LeadCandidate{}

	for field, header := range mapping {
		val := strings.TrimSpace(row[header])
		if val == "" {
			continue
		}

		switch field {
		case app.LeadFieldFirstName:
			lead.FirstName = val
		case app.LeadFieldLastName:
			lead.LastName = val
		case app.LeadFieldEmail:
			if email := strings.ToLower(val); strings.Contains(email, "@") {
				lead.Email = email
			}
		case app.LeadFieldPhone:
			lead.Phone = strings.TrimSpace(phoneStrip.ReplaceAllString(val, ""))
		case app.LeadFieldCompanyName:
			lead.Company.Name = val
		case app.LeadFieldCompanyWebsite:
			lead.Company.Website = withScheme(val, "https://")
		case app.LeadFieldCompanyIndustry:
			lead.Company.Industry = val
		case app.LeadFieldCompanySize:
			lead.Company.Size = val
		case app.LeadFieldRole:
			lead.Role = val
		case app.LeadFieldLocation:
			lead.Company.Location = val
		case app.LeadFieldLinkedinURL:
			lead.LinkedinURL = withScheme(val, "https://linkedin.com/in/")
		case app.LeadFieldSource:
			lead.Source = whitespaceRun.ReplaceAllString(strings.ToLower(val), "_")
		case app.LeadFieldNotes:
			lead.Notes = val
		}
	}

	if lead.LastName == "" {
		if parts := strings.Fields(lead.FirstName); len(parts) > 1 {
			lead.FirstName = parts[0]
			lead.LastName = strings.Join(parts[1:], " ")
		}
	}

	if lead.FirstName == "" && lead.Email != "" {
		lead.FirstName = capitalize(lead.Email[:strings.Index(lead.Email, "@")])
	}

	if lead.Email == "" && lead.FirstName != "" {
		lead.Email = strings.ToLower(strings.Join(strings.Fields(lead.FirstName), "")) + "@" + placeholderHost
	}

	if lead.FirstName == "" && lead.Email == "" {
		return nil
	}
	return lead
}

func withScheme(val, prefix string) string {
	if strings.HasPrefix(strings.ToLower(val), "http") {
		return val
	}
	return prefix + val
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
