package lead_search_service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type LeadSearchService struct {
	index app.LeadIndex
	log   *slog.Logger
}

var _ app.LeadSearchService = &LeadSearchService{}

func New(index app.LeadIndex, log *slog.Logger) *LeadSearchService {
	return &LeadSearchService{index: index, log: log}
}

// Search runs a full-text query over imported leads. Limits outside 1..100
// fall back to the default or the cap.
func (s *LeadSearchService) Search(ctx context.Context, query string, limit int) ([]app.LeadHit, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []app.LeadHit{}, 0, nil
	}

	switch {
	case limit <= 0:
		limit = defaultLimit
	case limit > maxLimit:
		limit = maxLimit
	}

	started := time.Now()
	hits, total, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, 0, err
	}

	s.log.Debug("lead search", "query", query, "limit", limit, "total", total, "elapsed", time.Since(started))
	return hits, total, nil
}
