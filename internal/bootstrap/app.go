package bootstrap

import (
	import_job_module "github.com/nebula-marketing/lead-importer/internal/app/import-job"
	lead_importer_module "github.com/nebula-marketing/lead-importer/internal/app/lead-importer"
	lead_search_module "github.com/nebula-marketing/lead-importer/internal/app/lead-search"
	mapping_module "github.com/nebula-marketing/lead-importer/internal/app/mapping"
	table_parser_module "github.com/nebula-marketing/lead-importer/internal/app/table-parser"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"go.uber.org/fx"
)

func appOptions(cfg *config.Config) fx.Option {
	opts := []fx.Option{
		table_parser_module.Register(),
		mapping_module.Register(),
		lead_importer_module.Register(),
	}

	if cfg.Jobs.Enabled {
		opts = append(opts,
			lead_search_module.Register(),
			import_job_module.Register(),
		)
	}

	return fx.Options(opts...)
}
