package bootstrap

import (
	"context"
	"log/slog"

	"github.com/nebula-marketing/lead-importer/domain/app"
	ai_client "github.com/nebula-marketing/lead-importer/internal/clients/ai"
	crm_client "github.com/nebula-marketing/lead-importer/internal/clients/crm"
	database_client "github.com/nebula-marketing/lead-importer/internal/clients/database"
	minio_client "github.com/nebula-marketing/lead-importer/internal/clients/minio"
	opensearch_client "github.com/nebula-marketing/lead-importer/internal/clients/opensearch"
	rabbitmq_client "github.com/nebula-marketing/lead-importer/internal/clients/rabbitmq"
	redis_client "github.com/nebula-marketing/lead-importer/internal/clients/redis"
	"github.com/nebula-marketing/lead-importer/internal/config"
	"github.com/nebula-marketing/lead-importer/internal/repositories"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func clientsOptions(cfg *config.Config) fx.Option {
	opts := []fx.Option{
		fx.Provide(func(cfg *config.Config, log *slog.Logger) (app.TextGenerator, error) {
			return ai_client.NewTextGenerator(context.Background(), cfg, log)
		}),
	}

	if cfg.Importer.CacheBackend == "redis" {
		opts = append(opts,
			fx.Provide(redis_client.New),
			fx.Invoke(func(lc fx.Lifecycle, rdb *redis.Client) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
					OnStop:  func(context.Context) error { return rdb.Close() },
				})
			}),
		)
	}

	if cfg.Jobs.Enabled {
		opts = append(opts, jobClientsOptions())
	}

	return fx.Options(opts...)
}

func jobClientsOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			rabbitmq_client.New,
			func(c *rabbitmq_client.RabbitMQClient) app.JobQueue { return c },
			minio_client.New,
			func(s *minio_client.MinioStorage) app.FileStorage { return s },
			database_client.New,
			fx.Annotate(repositories.NewImportRunRepository, fx.As(new(app.ImportRunRepository))),
			opensearch_client.New,
			crm_client.New,
		),
		fx.Invoke(func(lc fx.Lifecycle, rmq *rabbitmq_client.RabbitMQClient, storage *minio_client.MinioStorage) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					if err := storage.EnsureBucket(ctx); err != nil {
						return err
					}
					return rmq.Connect(ctx)
				},
				OnStop: func(context.Context) error { return rmq.Close() },
			})
		}),
	)
}
