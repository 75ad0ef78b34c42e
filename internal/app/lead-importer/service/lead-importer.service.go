package lead_importer_service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/internal/config"
)

const (
	ReasonMissingData    = "Missing required data (name, email, or company)"
	ReasonDuplicateEmail = "Duplicate email"

	// first data row sits below the header on spreadsheet row 2
	firstDataRowNumber = 2
)

type LeadImporterService struct {
	parser         app.TableParserService
	mapper         app.ColumnMapperService
	log            *slog.Logger
	maxSkippedRows int
	previewSize    int
	// preview has no per-call options, so it follows the configured default
	useAI bool
}

var _ app.LeadImporterService = &LeadImporterService{}

func New(parser app.TableParserService, mapper app.ColumnMapperService, log *slog.Logger, cfg *config.Config) *LeadImporterService {
	maxSkipped := cfg.Importer.MaxSkippedRows
	if maxSkipped <= 0 {
		maxSkipped = 10
	}
	previewSize := cfg.Importer.PreviewSize
	if previewSize <= 0 {
		previewSize = 5
	}
	return &LeadImporterService{
		parser:         parser,
		mapper:         mapper,
		log:            log,
		maxSkippedRows: maxSkipped,
		previewSize:    previewSize,
		useAI:          cfg.Importer.UseAI,
	}
}

func (s *LeadImporterService) ImportLeads(ctx context.Context, file []byte, filename string, opts app.ImportOptions) (*app.ImportResult, error) {
	started := time.Now()

	table, err := s.parser.Parse(ctx, file, filename)
	if err != nil {
		return nil, err
	}

	mapping := s.mapper.BuildMapping(ctx, table, opts.UseAI)

	leads := make([]app.LeadCandidate, 0, len(table.Rows))
	skipped := make([]app.SkippedRow, 0)
	seen := make(map[string]struct{})

	for i, row := range table.Rows {
		rowNumber := i + firstDataRowNumber

		lead := CleanRow(row, mapping)
		if lead == nil {
			skipped = append(skipped, app.SkippedRow{Row: rowNumber, Reason: ReasonMissingData})
			continue
		}

		if lead.Email != "" {
			if _, dup := seen[lead.Email]; dup {
				skipped = append(skipped, app.SkippedRow{Row: rowNumber, Reason: ReasonDuplicateEmail})
				continue
			}
			seen[lead.Email] = struct{}{}
		}

		leads = append(leads, *lead)
	}

	stats := app.ImportStats{
		TotalRows:  table.TotalRows,
		Imported:   len(leads),
		Skipped:    len(skipped),
		Duplicates: countDuplicates(skipped),
	}

	if len(skipped) > s.maxSkippedRows {
		skipped = skipped[:s.maxSkippedRows]
	}

	s.log.Info("leads imported",
		"filename", filename,
		"total_rows", stats.TotalRows,
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"duplicates", stats.Duplicates,
		"mapped_fields", len(mapping),
		"use_ai", opts.UseAI,
		"elapsed", time.Since(started))

	return &app.ImportResult{
		Leads:          leads,
		Stats:          stats,
		ColumnMappings: mapping,
		SkippedRows:    skipped,
	}, nil
}

// PreviewImport runs a full import with the configured AI setting and keeps
// only the first few leads.
func (s *LeadImporterService) PreviewImport(ctx context.Context, file []byte, filename string) (*app.PreviewResult, error) {
	res, err := s.ImportLeads(ctx, file, filename, app.ImportOptions{UseAI: s.useAI})
	if err != nil {
		return nil, err
	}

	preview := res.Leads
	if len(preview) > s.previewSize {
		preview = preview[:s.previewSize]
	}

	return &app.PreviewResult{
		Preview:        preview,
		Stats:          res.Stats,
		ColumnMappings: res.ColumnMappings,
		SkippedRows:    res.SkippedRows,
	}, nil
}

func countDuplicates(skipped []app.SkippedRow) int {
	n := 0
	for _, r := range skipped {
		if strings.Contains(strings.ToLower(r.Reason), "duplicate") {
			n++
		}
	}
	return n
}
