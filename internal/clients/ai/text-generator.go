package ai_client

import (
	"context"
	"log/slog"

	"github.com/nebula-marketing/lead-importer/domain/app"
	gemini_client "github.com/nebula-marketing/lead-importer/internal/clients/gemini"
	openai_client "github.com/nebula-marketing/lead-importer/internal/clients/openai"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/rotisserie/eris"
)

// NewTextGenerator picks the configured provider. A nil generator with a nil
// error means AI classification is off.
func NewTextGenerator(ctx context.Context, cfg *config.Config, log *slog.Logger) (app.TextGenerator, error) {
	switch cfg.Importer.Provider {
	case "gemini":
		if cfg.Clients.Gemini.ApiKey == "" {
			log.Warn("GEMINI_API_KEY is empty, AI column classification disabled")
			return nil, nil
		}
		gen, err := gemini_client.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case "openai":
		if cfg.Clients.OpenAI.ApiKey == "" {
			log.Warn("OPENAI_API_KEY is empty, AI column classification disabled")
			return nil, nil
		}
		return openai_client.NewTextGenerator(openai_client.New(cfg), cfg), nil
	case "none", "":
		return nil, nil
	default:
		return nil, eris.Errorf("unknown AI provider %q", cfg.Importer.Provider)
	}
}
