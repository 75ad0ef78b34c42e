package import_job_module

import (
	"log/slog"

	"github.com/nebula-marketing/lead-importer/domain/app"
	import_job_service "github.com/nebula-marketing/lead-importer/internal/app/import-job/service"
	import_job_amqp_consumer "github.com/nebula-marketing/lead-importer/internal/app/import-job/transports/amqp"
	import_job_http_handler "github.com/nebula-marketing/lead-importer/internal/app/import-job/transports/http"
	crm_client "github.com/nebula-marketing/lead-importer/internal/clients/crm"
	rabbitmq_client "github.com/nebula-marketing/lead-importer/internal/clients/rabbitmq"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Options(
		fx.Provide(
			newImportJobService,
			func(s *import_job_service.ImportJobService) app.ImportJobService { return s },
			func(rmq *rabbitmq_client.RabbitMQClient) import_job_amqp_consumer.JobSource { return rmq },
			import_job_amqp_consumer.New,
			import_job_http_handler.New,
		),
		fx.Invoke(func(lc fx.Lifecycle, consumer *import_job_amqp_consumer.ImportJobConsumer) {
			lc.Append(fx.Hook{
				OnStart: consumer.Start,
				OnStop:  consumer.Stop,
			})
		}),
		fx.Invoke(func(h *import_job_http_handler.ImportJobHttpHandler, fiberApp *fiber.App) {
			h.Register(fiberApp)
		}),
	)
}

type serviceParams struct {
	fx.In

	Cfg      *config.Config
	Importer app.LeadImporterService
	Storage  app.FileStorage
	Queue    app.JobQueue
	Runs     app.ImportRunRepository
	Index    app.LeadIndex `optional:"true"`
	Crm      *crm_client.CrmClient
	Log      *slog.Logger
}

func newImportJobService(p serviceParams) *import_job_service.ImportJobService {
	var crm app.CrmClient
	if p.Cfg.Clients.Crm.Url != "" {
		crm = p.Crm
	} else {
		p.Log.Info("crm url not configured, imported leads stay local")
	}
	return import_job_service.New(p.Importer, p.Storage, p.Queue, p.Runs, p.Index, crm, p.Log)
}
