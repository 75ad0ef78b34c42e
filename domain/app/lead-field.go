package app

import "strings"

// LeadField is a canonical lead attribute every import normalizes toward.
type LeadField string

const (
	LeadFieldFirstName       LeadField = "firstName"
	LeadFieldLastName        LeadField = "lastName"
	LeadFieldEmail           LeadField = "email"
	LeadFieldPhone           LeadField = "phone"
	LeadFieldCompanyName     LeadField = "companyName"
	LeadFieldCompanyWebsite  LeadField = "companyWebsite"
	LeadFieldCompanyIndustry LeadField = "companyIndustry"
	LeadFieldCompanySize     LeadField = "companySize"
	LeadFieldRole            LeadField = "role"
	LeadFieldLocation        LeadField = "location"
	LeadFieldLinkedinURL     LeadField = "linkedinUrl"
	LeadFieldSource          LeadField = "source"
	LeadFieldNotes           LeadField = "notes"
)

// LeadFieldIgnore is what the classifier answers for columns without lead signal.
const LeadFieldIgnore = "IGNORE"

func (f LeadField) String() string {
	return string(f)
}

func (f LeadField) IsValid() bool {
	_, ok := allLeadFieldMap[f]
	return ok
}

// declaration order decides ties during alias matching
var allLeadFields = []LeadField{
	LeadFieldFirstName,
	LeadFieldLastName,
	LeadFieldEmail,
	LeadFieldPhone,
	LeadFieldCompanyName,
	LeadFieldCompanyWebsite,
	LeadFieldCompanyIndustry,
	LeadFieldCompanySize,
	LeadFieldRole,
	LeadFieldLocation,
	LeadFieldLinkedinURL,
	LeadFieldSource,
	LeadFieldNotes,
}

func AllLeadFields() []LeadField {
	out := make([]LeadField, len(allLeadFields))
	copy(out, allLeadFields)
	return out
}

var allLeadFieldMap = func() map[LeadField]struct{} {
	m := make(map[LeadField]struct{}, len(allLeadFields))
	for _, f := range allLeadFields {
		m[f] = struct{}{}
	}
	return m
}()

// ParseLeadField resolves a field name case-insensitively. IGNORE and unknown
// names are rejected.
func ParseLeadField(s string) (LeadField, bool) {
	s = strings.TrimSpace(s)
	for _, f := range allLeadFields {
		if strings.EqualFold(s, string(f)) {
			return f, true
		}
	}
	return "", false
}
