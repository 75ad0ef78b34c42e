package dtos

import "github.com/nebula-marketing/lead-importer/domain/app"

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// ImportLeadsResponse mirrors app.ImportResult for the API docs.
type ImportLeadsResponse = app.ImportResult

type PreviewImportResponse = app.PreviewResult

type EnqueueImportJobRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
	UseAI    bool   `json:"use_ai"`
	Owner    string `json:"owner" validate:"omitempty,max=128"`
}

type EnqueueImportJobResponse struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Filename string `json:"filename"`
}

type SearchLeadsQuery struct {
	Q     string `query:"q" validate:"required,min=2,max=256"`
	Limit int    `query:"limit" validate:"gte=1,lte=100"`
}

type SearchLeadsResponse struct {
	Total int             `json:"total"`
	Hits  []LeadSearchHit `json:"hits"`
}

type LeadSearchHit struct {
	ID    string            `json:"id"`
	Score float64           `json:"score"`
	Lead  app.LeadCandidate `json:"lead"`
}

type ImportRunResponse struct {
	JobID          string            `json:"job_id"`
	Filename       string            `json:"filename"`
	Owner          string            `json:"owner,omitempty"`
	Status         string            `json:"status"`
	Stats          app.ImportStats   `json:"stats"`
	ColumnMappings app.ColumnMapping `json:"column_mappings,omitempty"`
	Error          string            `json:"error,omitempty"`
	StartedAt      string            `json:"started_at"`
	FinishedAt     string            `json:"finished_at,omitempty"`
}
