package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/nebula-marketing/lead-importer/internal/config"
	"github.com/nebula-marketing/lead-importer/migrations"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, false))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply database migrations for background imports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		gooseCmd("up", "Apply all pending migrations", goose.UpContext),
		gooseCmd("down", "Roll back the latest migration", goose.DownContext),
		gooseCmd("status", "Print migration status", goose.StatusContext),
	)
	return root
}

func gooseCmd(use, short string, run func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := open(cfg.Infrastructure.Db)
			if err != nil {
				return err
			}
			defer db.Close()

			return eris.Wrapf(run(cmd.Context(), db, "."), "migrate %s", use)
		},
	}
}

func open(cfg config.DbConfig) (*sql.DB, error) {
	goose.SetBaseFS(migrations.FS)

	var driver string
	switch cfg.Driver {
	case "postgres", "":
		driver = "postgres"
	case "mysql":
		driver = "mysql"
	default:
		return nil, eris.Errorf("unsupported db driver %q", cfg.Driver)
	}

	if err := goose.SetDialect(driver); err != nil {
		return nil, eris.Wrap(err, "set goose dialect")
	}

	db, err := sql.Open(driver, cfg.Dsn)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", driver)
	}
	return db, nil
}
