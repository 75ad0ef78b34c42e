package lead_importer_module

import (
	"github.com/nebula-marketing/lead-importer/domain/app"
	lead_importer_service "github.com/nebula-marketing/lead-importer/internal/app/lead-importer/service"
	lead_importer_http_handler "github.com/nebula-marketing/lead-importer/internal/app/lead-importer/transports/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(lead_importer_service.New, fx.As(new(app.LeadImporterService))),
			lead_importer_http_handler.New,
		),
		fx.Invoke(func(h *lead_importer_http_handler.LeadImporterHttpHandler, fiberApp *fiber.App) {
			h.Register(fiberApp)
		}),
	)
}
