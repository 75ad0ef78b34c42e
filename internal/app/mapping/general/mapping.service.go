package mapping_service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nebula-marketing/lead-importer/domain/app"
	alias_mapping "github.com/nebula-marketing/lead-importer/internal/app/mapping/alias"
	header_mapping_service "github.com/nebula-marketing/lead-importer/internal/app/mapping/header"
	"github.com/nebula-marketing/lead-importer/internal/config"
)

type Service struct {
	classifier           app.ColumnClassifier
	log                  *slog.Logger
	maxExamplesPerHeader int
	exampleTruncateLen   int
}

var _ app.ColumnMapperService = &Service{}

func New(classifier app.ColumnClassifier, log *slog.Logger, cfg *config.Config) *Service {
	return &Service{
		classifier:           classifier,
		log:                  log,
		maxExamplesPerHeader: cfg.Importer.ExamplesPerHeader,
		exampleTruncateLen:   cfg.Importer.ExampleTruncateLen,
	}
}

// BuildMapping maps headers with the alias table first, then, when useAI is
// set and columns are left over, merges the classifier's proposals. A failing
// classifier only costs the extra mappings.
func (this *Service) BuildMapping(ctx context.Context, table *app.RawTable, useAI bool) app.ColumnMapping {
	res := alias_mapping.MapColumns(table.Header)
	mapping := res.Mapping

	if !useAI || len(res.UnmappedColumns) == 0 {
		return mapping
	}

	examples := header_mapping_service.CollectExamples(
		table, res.UnmappedColumns, this.maxExamplesPerHeader, this.exampleTruncateLen,
	)
	proposals, err := this.classifier.Classify(ctx, app.ClassificationRequest{
		Headers:  res.UnmappedColumns,
		Examples: examples,
	})
	if err != nil {
		this.log.Warn("column classification failed, using alias mapping only",
			"unmapped", res.UnmappedColumns,
			"error", err)
		return mapping
	}

	return MergeClassification(mapping, res.UnmappedColumns, proposals, this.log)
}

// MergeClassification adds classifier proposals for the headers in asked, in
// their order. A proposal is applied only for a known field that is still
// unmapped and a header no other field uses; IGNORE is dropped.
func MergeClassification(mapping app.ColumnMapping, asked []string, proposals map[string]string, log *slog.Logger) app.ColumnMapping {
	byNorm := make(map[string]string, len(proposals))
	for h, f := range proposals {
		byNorm[normalize(h)] = f
	}

	askedNorm := make(map[string]struct{}, len(asked))
	for _, header := range asked {
		askedNorm[normalize(header)] = struct{}{}

		raw, ok := proposals[header]
		if !ok {
			raw, ok = byNorm[normalize(header)]
		}
		if !ok || raw == "" || strings.EqualFold(raw, app.LeadFieldIgnore) {
			continue
		}

		field, valid := app.ParseLeadField(raw)
		if !valid {
			log.Warn("classifier proposed unknown field, dropped", "header", header, "field", raw)
			continue
		}
		if _, taken := mapping[field]; taken {
			continue
		}
		if mapping.Uses(header) {
			continue
		}
		mapping[field] = header
	}

	for h := range proposals {
		if _, ok := askedNorm[normalize(h)]; !ok {
			log.Debug("classifier answered for a header it was not asked about", "header", h)
		}
	}

	return mapping
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
