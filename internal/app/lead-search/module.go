package lead_search_module

import (
	"context"

	"github.com/nebula-marketing/lead-importer/domain/app"
	lead_index "github.com/nebula-marketing/lead-importer/internal/app/lead-search/index"
	lead_search_service "github.com/nebula-marketing/lead-importer/internal/app/lead-search/service"
	lead_search_http_handler "github.com/nebula-marketing/lead-importer/internal/app/lead-search/transports/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Options(
		fx.Provide(
			lead_index.New,
			func(idx *lead_index.OpenSearchLeadIndex) app.LeadIndex { return idx },
			fx.Annotate(lead_search_service.New, fx.As(new(app.LeadSearchService))),
			lead_search_http_handler.New,
		),
		fx.Invoke(func(lc fx.Lifecycle, idx *lead_index.OpenSearchLeadIndex) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return idx.EnsureIndex(ctx)
				},
			})
		}),
		fx.Invoke(func(h *lead_search_http_handler.LeadSearchHttpHandler, fiberApp *fiber.App) {
			h.Register(fiberApp)
		}),
	)
}
