package lead_search_http_handler

import (
	"strconv"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/domain/dtos"
	http_transport "github.com/nebula-marketing/lead-importer/internal/transports/http"

	"github.com/gofiber/fiber/v3"
)

type LeadSearchHttpHandler struct {
	service app.LeadSearchService
}

func New(service app.LeadSearchService) *LeadSearchHttpHandler {
	return &LeadSearchHttpHandler{service}
}

func (this *LeadSearchHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/leads")

	app.Get("/search", this.search)
}

// search godoc
//
//	@Summary	Full-text search over imported leads
//	@Tags		leads
//	@Produce	json
//	@Param		q		query		string	true	"Search text"
//	@Param		limit	query		int		false	"Max hits (1-100)"	default(10)
//	@Success	200		{object}	dtos.SearchLeadsResponse
//	@Failure	400		{object}	dtos.ErrorResponse
//	@Router		/leads/search [get]
func (this *LeadSearchHttpHandler) search(c fiber.Ctx) error {
	query := dtos.SearchLeadsQuery{Q: c.Query("q"), Limit: 10}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be an integer")
		}
		query.Limit = limit
	}
	if err := http_transport.Validate(query); err != nil {
		return err
	}

	hits, total, err := this.service.Search(c.Context(), query.Q, query.Limit)
	if err != nil {
		return err
	}

	resp := dtos.SearchLeadsResponse{Total: total, Hits: make([]dtos.LeadSearchHit, len(hits))}
	for i, h := range hits {
		resp.Hits[i] = dtos.LeadSearchHit{ID: h.ID, Score: h.Score, Lead: h.Lead}
	}
	return c.JSON(resp)
}
