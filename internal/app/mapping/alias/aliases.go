package alias_mapping

import (
	"regexp"

	"github.com/nebula-marketing/lead-importer/domain/app"
)

// fieldAliases lists lower-cased header synonyms per canonical field.
// A header matches when it equals, contains or is contained by an alias, so
// bare generic words ("name", "url", "id") are left out on purpose.
var fieldAliases = map[app.LeadField][]string{
	app.LeadFieldFirstName: {
		"first name", "firstname", "first_name", "fname", "given name",
		"full name", "fullname", "full_name", "contact name",
	},
	app.LeadFieldLastName: {
		"last name", "lastname", "last_name", "lname", "surname", "family name",
	},
	app.LeadFieldEmail: {
		"email", "e-mail", "mail", "work email", "business email",
	},
	app.LeadFieldPhone: {
		"phone", "mobile", "telephone", "tel", "cell", "whatsapp",
	},
	app.LeadFieldCompanyName: {
		"company", "company name", "organization", "organisation", "business name",
		"employer", "account name", "firm",
	},
	app.LeadFieldCompanyWebsite: {
		"website", "company website", "web site", "homepage", "company url", "domain",
	},
	app.LeadFieldCompanyIndustry: {
		"industry", "company industry", "sector", "vertical",
	},
	app.LeadFieldCompanySize: {
		"company size", "size", "employees", "employee count", "headcount", "team size",
		"number of employees", "no. of employees",
	},
	app.LeadFieldRole: {
		"role", "job title", "title", "position", "designation", "job role", "occupation",
	},
	app.LeadFieldLocation: {
		"location", "city", "country", "region", "address", "state", "geo",
	},
	app.LeadFieldLinkedinURL: {
		"linkedin", "linkedin url", "linkedin profile", "linkedin_url", "li profile",
	},
	app.LeadFieldSource: {
		"source", "lead source", "origin", "channel", "utm source",
	},
	app.LeadFieldNotes: {
		"notes", "note", "comments", "comment", "remarks", "memo", "description",
	},
}

// ignorePatterns recognise headers that never carry lead signal.
var ignorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^_?id$`),
	regexp.MustCompile(`(?i)^__v$`),
	regexp.MustCompile(`(?i)^timestamp$`),
	regexp.MustCompile(`(?i)^(created|updated|modified)[ _]?(at|on|date)?$`),
	regexp.MustCompile(`(?i)password`),
	regexp.MustCompile(`(?i)^unnamed:?`),
	regexp.MustCompile(`(?i)^(row|s\.?\s?no\.?|sr\.?\s?no\.?|#)$`),
}

// Aliases returns a copy of the alias list for field.
func Aliases(field app.LeadField) []string {
	return append([]string(nil), fieldAliases[field]...)
}

func IsIgnored(header string) bool {
	for _, re := range ignorePatterns {
		if re.MatchString(header) {
			return true
		}
	}
	return false
}
