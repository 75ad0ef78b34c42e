package app

import "context"

type LeadHit struct {
	ID    string
	Score float64
	Lead  LeadCandidate
}

type LeadIndex interface {
	IndexLeads(ctx context.Context, runID string, leads []LeadCandidate) error
	Search(ctx context.Context, query string, limit int) ([]LeadHit, int, error)
}

type LeadSearchService interface {
	Search(ctx context.Context, query string, limit int) ([]LeadHit, int, error)
}
