package app

import "context"

// ClassificationRequest carries the headers the alias table could not place,
// with a few sample values per header to disambiguate them.
type ClassificationRequest struct {
	Headers  []string            `json:"headers"`
	Examples map[string][]string `json:"example_values,omitempty"`
}

// ColumnClassifier maps header -> canonical field name or LeadFieldIgnore.
// Entries are untrusted and must be validated before use.
type ColumnClassifier interface {
	Classify(ctx context.Context, req ClassificationRequest) (map[string]string, error)
}

type GenerateRequest struct {
	System string
	Prompt string
	// Optional JSON schema for providers with structured output support.
	SchemaName string
	Schema     any
}

// TextGenerator is an opaque text-generation service.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type ClassificationCache interface {
	Get(ctx context.Context, key string) (map[string]string, bool)
	Set(ctx context.Context, key string, value map[string]string)
}

type ColumnMappingResult struct {
	Mapping         ColumnMapping `json:"mapping"`
	UnmappedColumns []string      `json:"unmapped_columns"`
}

type ColumnMapperService interface {
	BuildMapping(ctx context.Context, table *RawTable, useAI bool) ColumnMapping
}
