package app

import "context"

type ImportOptions struct {
	UseAI bool
}

func DefaultImportOptions() ImportOptions {
	return ImportOptions{UseAI: true}
}

type LeadImporterService interface {
	ImportLeads(ctx context.Context, file []byte, filename string, opts ImportOptions) (*ImportResult, error)
	PreviewImport(ctx context.Context, file []byte, filename string) (*PreviewResult, error)
}
