package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nebula-marketing/lead-importer/domain/app"
	lead_importer_service "github.com/nebula-marketing/lead-importer/internal/app/lead-importer/service"
	mapping_service "github.com/nebula-marketing/lead-importer/internal/app/mapping/general"
	header_mapping_service "github.com/nebula-marketing/lead-importer/internal/app/mapping/header"
	table_parser_service "github.com/nebula-marketing/lead-importer/internal/app/table-parser/service"
	ai_client "github.com/nebula-marketing/lead-importer/internal/clients/ai"
	"github.com/nebula-marketing/lead-importer/internal/config"
	"github.com/nebula-marketing/lead-importer/internal/logger"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "leadimport",
		Short:         "Turn spreadsheets into lead records from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newImportCmd(), newPreviewCmd())
	return root
}

type importOptions struct {
	noAI   bool
	outDir string
	force  bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import one or more XLSX/CSV files",
		Long: "Import one or more XLSX/CSV files. Without --out the result is printed as JSON. " +
			"With --out every file gets <name>.json in that directory and files that already have a result are skipped unless --force is set.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importer, log, err := newPipeline(cmd.Context())
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), importer, log, cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noAI, "no-ai", false, "Only use the alias dictionary for column mapping")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "Directory for per-file JSON results")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite results that already exist in --out")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview FILE",
		Short: "Show the first leads and the column mapping of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importer, _, err := newPipeline(cmd.Context())
			if err != nil {
				return err
			}

			file, err := os.ReadFile(args[0])
			if err != nil {
				return eris.Wrapf(err, "read %s", args[0])
			}

			res, err := importer.PreviewImport(cmd.Context(), file, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

// newPipeline assembles the importer by hand. The server does the same through fx.
func newPipeline(ctx context.Context) (app.LeadImporterService, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewWithWriter(cfg, os.Stderr)

	generator, err := ai_client.NewTextGenerator(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	var classifier app.ColumnClassifier = header_mapping_service.NoopClassifier{}
	if generator != nil {
		cache := header_mapping_service.NewMemoryCache(cfg.Importer.CacheTTL)
		classifier = header_mapping_service.New(generator, cache, log, cfg)
	}

	parser := table_parser_service.New(log)
	mapper := mapping_service.New(classifier, log, cfg)
	return lead_importer_service.New(parser, mapper, log, cfg), log, nil
}

func runImport(ctx context.Context, importer app.LeadImporterService, log *slog.Logger, stdout io.Writer, paths []string, opts importOptions) error {
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return eris.Wrapf(err, "create %s", opts.outDir)
		}
	}

	for _, path := range paths {
		var dest string
		if opts.outDir != "" {
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			dest = filepath.Join(opts.outDir, name+".json")
			if _, err := os.Stat(dest); err == nil && !opts.force {
				log.Info("result exists, skipping", "file", path, "dest", dest)
				continue
			}
		}

		file, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "read %s", path)
		}

		res, err := importer.ImportLeads(ctx, file, filepath.Base(path), app.ImportOptions{UseAI: !opts.noAI})
		if err != nil {
			return eris.Wrapf(err, "import %s", path)
		}

		if dest == "" {
			if err := writeJSON(stdout, res); err != nil {
				return err
			}
			continue
		}

		f, err := os.Create(dest)
		if err != nil {
			return eris.Wrapf(err, "create %s", dest)
		}
		err = writeJSON(f, res)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return eris.Wrapf(err, "write %s", dest)
		}
		log.Info("import written", "file", path, "dest", dest, "imported", res.Stats.Imported, "skipped", res.Stats.Skipped)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode result")
}
