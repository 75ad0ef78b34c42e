package bootstrap

import (
	"github.com/nebula-marketing/lead-importer/internal/config"

	"go.uber.org/fx"
)

func Run() {
	cfg := config.MustLoad()

	app := fx.New(
		coreOptions(cfg),
		clientsOptions(cfg),
		appOptions(cfg),
	)

	app.Run()
}
