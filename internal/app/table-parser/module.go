package table_parser_module

import (
	"github.com/nebula-marketing/lead-importer/domain/app"
	table_parser_service "github.com/nebula-marketing/lead-importer/internal/app/table-parser/service"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(table_parser_service.New, fx.As(new(app.TableParserService))),
	)
}
