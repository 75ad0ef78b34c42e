package lead_importer_service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nebula-marketing/lead-importer/domain/app"
	mapping_service "github.com/nebula-marketing/lead-importer/internal/app/mapping/general"
	header_mapping_service "github.com/nebula-marketing/lead-importer/internal/app/mapping/header"
	table_parser_service "github.com/nebula-marketing/lead-importer/internal/app/table-parser/service"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticClassifier map[string]string

func (c staticClassifier) Classify(context.Context, app.ClassificationRequest) (map[string]string, error) {
	return c, nil
}

type countingClassifier struct {
	calls int
	out   map[string]string
}

func (c *countingClassifier) Classify(context.Context, app.ClassificationRequest) (map[string]string, error) {
	c.calls++
	return c.out, nil
}

func newImporter(classifier app.ColumnClassifier) *LeadImporterService {
	return newImporterUseAI(classifier, true)
}

func newImporterUseAI(classifier app.ColumnClassifier, useAI bool) *LeadImporterService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.Importer.UseAI = useAI
	cfg.Importer.MaxSkippedRows = 10
	cfg.Importer.PreviewSize = 5
	cfg.Importer.ExamplesPerHeader = 2

	parser := table_parser_service.New(log)
	mapper := mapping_service.New(classifier, log, cfg)
	return New(parser, mapper, log, cfg)
}

func csvFile(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

func TestImportLeads_FullNameEmailCompany(t *testing.T) {
	svc := newImporter(header_mapping_service.NoopClassifier{})

	res, err := svc.ImportLeads(context.Background(),
		csvFile("Full Name,Email Address,Company", "Jane Doe,jane@x.com,Acme"),
		"leads.csv", app.DefaultImportOptions())
	require.NoError(t, err)

	assert.Equal(t, app.ColumnMapping{
		app.LeadFieldFirstName:   "Full Name",
		app.LeadFieldEmail:       "Email Address",
		app.LeadFieldCompanyName: "Company",
	}, res.ColumnMappings)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, "Jane", res.Leads[0].FirstName)
	assert.Equal(t, "Doe", res.Leads[0].LastName)
	assert.Equal(t, app.ImportStats{TotalRows: 1, Imported: 1}, res.Stats)
	assert.Empty(t, res.SkippedRows)
}

func TestImportLeads_RepeatedHeaderFeedsOneField(t *testing.T) {
	svc := newImporter(header_mapping_service.NoopClassifier{})

	res, err := svc.ImportLeads(context.Background(),
		csvFile("Name,Name,Email", "Jane,Smith,jane@x.com"),
		"leads.csv", app.DefaultImportOptions())
	require.NoError(t, err)

	assert.Equal(t, app.ColumnMapping{
		app.LeadFieldFirstName: "Name",
		app.LeadFieldEmail:     "Email",
	}, res.ColumnMappings)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, "Jane", res.Leads[0].FirstName)
	assert.Empty(t, res.Leads[0].LastName)
	assert.Equal(t, "jane@x.com", res.Leads[0].Email)
}

func TestImportLeads_DuplicateEmail(t *testing.T) {
	svc := newImporter(header_mapping_service.NoopClassifier{})

	res, err := svc.ImportLeads(context.Background(),
		csvFile("First Name,Email", "Ann,a@b.com", "Bob,A@B.com "),
		"leads.csv", app.DefaultImportOptions())
	require.NoError(t, err)

	require.Len(t, res.Leads, 1)
	assert.Equal(t, "Ann", res.Leads[0].FirstName)
	assert.Equal(t, []app.SkippedRow{{Row: 3, Reason: ReasonDuplicateEmail}}, res.SkippedRows)
	assert.Equal(t, app.ImportStats{TotalRows: 2, Imported: 1, Skipped: 1, Duplicates: 1}, res.Stats)
}

func TestImportLeads_MissingRequiredData(t *testing.T) {
	svc := newImporter(header_mapping_service.NoopClassifier{})

	res, err := svc.ImportLeads(context.Background(),
		csvFile("Phone", "555-1234"),
		"leads.csv", app.DefaultImportOptions())
	require.NoError(t, err)

	assert.Empty(t, res.Leads)
	assert.Equal(t, []app.SkippedRow{{Row: 2, Reason: ReasonMissingData}}, res.SkippedRows)
	assert.Equal(t, app.ImportStats{TotalRows: 1, Skipped: 1}, res.Stats)
}

func TestImportLeads_IgnoredColumnFromClassifier(t *testing.T) {
	svc := newImporter(staticClassifier{"Record ID": "IGNORE"})

	res, err := svc.ImportLeads(context.Background(),
		csvFile("Record ID,First Name,Email", "17,Ann,ann@x.co"),
		"leads.csv", app.DefaultImportOptions())
	require.NoError(t, err)

	assert.False(t, res.ColumnMappings.Uses("Record ID"))
	assert.Len(t, res.ColumnMappings, 2)
	assert.Equal(t, 1, res.Stats.Imported)
}

func TestImportLeads_ClassifierAddsField(t *testing.T) {
	csv := csvFile("Vorname,Arbeitgeber", "Ann,Acme")

	withAI, err := newImporter(staticClassifier{"Arbeitgeber": "companyName", "Vorname": "firstName"}).
		ImportLeads(context.Background(), csv, "leads.csv", app.ImportOptions{UseAI: true})
	require.NoError(t, err)
	require.Len(t, withAI.Leads, 1)
	assert.Equal(t, "Acme", withAI.Leads[0].Company.Name)
	assert.Equal(t, "ann@unknown.com", withAI.Leads[0].Email)

	withoutAI, err := newImporter(staticClassifier{"Arbeitgeber": "companyName", "Vorname": "firstName"}).
		ImportLeads(context.Background(), csv, "leads.csv", app.ImportOptions{UseAI: false})
	require.NoError(t, err)
	assert.Empty(t, withoutAI.Leads)
	assert.Equal(t, 1, withoutAI.Stats.Skipped)
}

func TestImportLeads_HeaderOnlyFails(t *testing.T) {
	svc := newImporter(header_mapping_service.NoopClassifier{})

	res, err := svc.ImportLeads(context.Background(), csvFile("First Name,Email"), "leads.csv", app.DefaultImportOptions())

	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, app.IsParseError(err))
}

func TestImportLeads_NormalizesEmail(t *testing.T) {
	svc := newImporter(header_mapping_service.NoopClassifier{})

	res, err := svc.ImportLeads(context.Background(),
		csvFile("Email", "John.Smith@EXAMPLE.com"),
		"leads.csv", app.DefaultImportOptions())
	require.NoError(t, err)

	require.Len(t, res.Leads, 1)
	assert.Equal(t, "john.smith@example.com", res.Leads[0].Email)
	assert.Equal(t, "John.smith", res.Leads[0].FirstName)
}

func TestImportLeads_SkippedRowsTruncated(t *testing.T) {
	lines := []string{"First Name,Email,Company"}
	for i := 0; i < 15; i++ {
		lines = append(lines, fmt.Sprintf(",,Company %d", i))
	}
	lines = append(lines, "Ann,ann@x.co,Acme")

	res, err := newImporter(header_mapping_service.NoopClassifier{}).
		ImportLeads(context.Background(), csvFile(lines...), "leads.csv", app.DefaultImportOptions())
	require.NoError(t, err)

	assert.Equal(t, 15, res.Stats.Skipped)
	assert.Equal(t, 1, res.Stats.Imported)
	require.Len(t, res.SkippedRows, 10)
	assert.Equal(t, 2, res.SkippedRows[0].Row)
	assert.Equal(t, 11, res.SkippedRows[9].Row)
}

func TestImportLeads_StatsAndDedupInvariants(t *testing.T) {
	lines := []string{"Name,Email,Phone"}
	for i := 0; i < 40; i++ {
		switch i % 4 {
		case 0:
			lines = append(lines, fmt.Sprintf("Lead %d,lead%d@x.co,", i, i%7))
		case 1:
			lines = append(lines, fmt.Sprintf(",LEAD%d@X.CO,", i%5))
		case 2:
			lines = append(lines, fmt.Sprintf(",,555-%04d", i))
		default:
			lines = append(lines, fmt.Sprintf("Solo%d,,", i%3))
		}
	}

	res, err := newImporter(header_mapping_service.NoopClassifier{}).
		ImportLeads(context.Background(), csvFile(lines...), "leads.csv", app.DefaultImportOptions())
	require.NoError(t, err)

	assert.Equal(t, res.Stats.TotalRows, res.Stats.Imported+res.Stats.Skipped)
	assert.Equal(t, len(res.Leads), res.Stats.Imported)

	seen := map[string]bool{}
	for _, lead := range res.Leads {
		assert.True(t, lead.FirstName != "" || lead.Email != "")
		if lead.Email != "" {
			assert.Falsef(t, seen[lead.Email], "email %s imported twice", lead.Email)
			seen[lead.Email] = true
		}
	}
}

func TestPreviewImport_FirstLeads(t *testing.T) {
	lines := []string{"First Name,Email"}
	for i := 0; i < 8; i++ {
		lines = append(lines, fmt.Sprintf("Lead%d,lead%d@x.co", i, i))
	}

	res, err := newImporter(header_mapping_service.NoopClassifier{}).
		PreviewImport(context.Background(), csvFile(lines...), "leads.csv")
	require.NoError(t, err)

	require.Len(t, res.Preview, 5)
	assert.Equal(t, "Lead0", res.Preview[0].FirstName)
	assert.Equal(t, "Lead4", res.Preview[4].FirstName)
	assert.Equal(t, 8, res.Stats.Imported)
}

func TestPreviewImport_FollowsConfiguredAISetting(t *testing.T) {
	file := csvFile("Vorname,Email", "Jana,jana@x.de")

	tests := []struct {
		name      string
		useAI     bool
		wantCalls int
		wantFirst string
	}{
		{name: "enabled", useAI: true, wantCalls: 1, wantFirst: "Jana"},
		{name: "disabled", useAI: false, wantCalls: 0, wantFirst: "Jana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := &countingClassifier{out: map[string]string{"Vorname": "firstName"}}

			res, err := newImporterUseAI(classifier, tt.useAI).PreviewImport(context.Background(), file, "leads.csv")
			require.NoError(t, err)

			assert.Equal(t, tt.wantCalls, classifier.calls)
			_, mapped := res.ColumnMappings[app.LeadFieldFirstName]
			assert.Equal(t, tt.useAI, mapped)
			require.Len(t, res.Preview, 1)
			assert.Equal(t, tt.wantFirst, res.Preview[0].FirstName)
		})
	}
}
