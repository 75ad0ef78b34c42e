package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/nebula-marketing/lead-importer/docs"
	"github.com/nebula-marketing/lead-importer/internal/config"
	"github.com/nebula-marketing/lead-importer/internal/logger"
	http_transport "github.com/nebula-marketing/lead-importer/internal/transports/http"

	swagger "github.com/Flussen/swagger-fiber-v3"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func coreOptions(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			logger.New,
			newFiberApp,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),
		fx.Invoke(registerSystemRoutes),
		fx.Invoke(startHttpServer),
	)
}

func newFiberApp(cfg *config.Config, log *slog.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimit,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		ErrorHandler: http_transport.ErrorHandler(log),
	})
}

func registerSystemRoutes(app *fiber.App) {
	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/swagger/*", swagger.HandlerDefault)
}

func startHttpServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *slog.Logger) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Error("http server stopped", "error", err)
				}
			}()
			log.Info("http server listening", "addr", addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}
