package mapping_module

import (
	"log/slog"

	"github.com/nebula-marketing/lead-importer/domain/app"
	mapping_service "github.com/nebula-marketing/lead-importer/internal/app/mapping/general"
	header_mapping_service "github.com/nebula-marketing/lead-importer/internal/app/mapping/header"
	redis_client "github.com/nebula-marketing/lead-importer/internal/clients/redis"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		newClassificationCache,
		newColumnClassifier,
		fx.Annotate(mapping_service.New, fx.As(new(app.ColumnMapperService))),
	)
}

type cacheParams struct {
	fx.In

	Cfg   *config.Config
	Redis *redis.Client `optional:"true"`
	Log   *slog.Logger
}

func newClassificationCache(p cacheParams) app.ClassificationCache {
	if p.Cfg.Importer.CacheBackend == "redis" && p.Redis != nil {
		p.Log.Info("column classification cache: redis", "ttl", p.Cfg.Importer.CacheTTL)
		return redis_client.NewClassificationCache(p.Redis, p.Cfg.Importer.CacheTTL, p.Log)
	}
	return header_mapping_service.NewMemoryCache(p.Cfg.Importer.CacheTTL)
}

type classifierParams struct {
	fx.In

	Cfg       *config.Config
	Generator app.TextGenerator `optional:"true"`
	Cache     app.ClassificationCache
	Log       *slog.Logger
}

func newColumnClassifier(p classifierParams) app.ColumnClassifier {
	if p.Generator == nil {
		p.Log.Info("no text generator configured, AI column classification disabled")
		return header_mapping_service.NoopClassifier{}
	}
	return header_mapping_service.New(p.Generator, p.Cache, p.Log, p.Cfg)
}
