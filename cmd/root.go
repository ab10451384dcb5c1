package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/okian/salesboard/internal/adapters/repository"
	service "github.com/okian/salesboard/internal/app"
	"github.com/okian/salesboard/internal/config"
	"github.com/okian/salesboard/internal/seed"
	"github.com/okian/salesboard/pkg/logger"
)

// cli carries state shared by the subcommands once the root has loaded config.
type cli struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "salesboard",
		Short:         "Role-based sales performance dashboards over a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd.Context())
		},
	}

	root.AddCommand(
		newServeCmd(c),
		newViewCmd(c),
		newAnnounceCmd(c),
		newSeedCmd(c),
	)
	return root
}

// load reads configuration (defaults -> optional file -> env) and applies the log level.
func (c *cli) load(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return eris.Wrap(err, "failed to load config")
	}
	c.cfg = cfg
	c.log = logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		c.log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// source builds the configured tabular source. The memory source is filled
// with a generated demo dataset so that a bare `serve` has something to show.
func (c *cli) source(ctx context.Context) (repository.Source, error) {
	cfg := c.cfg
	var (
		src repository.Source
		err error
	)
	switch cfg.Source {
	case config.SourceSheets:
		opts := []repository.SheetsOption{repository.WithRatePerMinute(cfg.SourceRatePerMinute)}
		if cfg.CredentialsFile != "" {
			opts = append(opts, repository.WithCredentialsFile(cfg.CredentialsFile))
		}
		if cfg.CredentialsJSON != "" {
			opts = append(opts, repository.WithCredentialsJSON(cfg.CredentialsJSON))
		}
		src, err = repository.NewSheetsSource(ctx, cfg.SpreadsheetID, opts...)
	case config.SourceWorkbook:
		src, err = repository.NewWorkbookSource(cfg.WorkbookPath)
	case config.SourceCSV:
		src, err = repository.NewCSVSource(cfg.CSVDir)
	default:
		loc, lerr := cfg.Location()
		if lerr != nil {
			return nil, lerr
		}
		ds, _, gerr := seed.Generate(ctx, seed.Config{Now: time.Now().In(loc), Seed: 1})
		if gerr != nil {
			return nil, eris.Wrap(gerr, "failed to generate demo data")
		}
		src = ds.Memory()
	}
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open %s source", cfg.Source)
	}
	c.log.Info(ctx, "data source ready", logger.String("source", src.Name()))
	return repository.Instrument(src), nil
}

// service builds the dashboard service over src with the configured view settings.
func (c *cli) service(src repository.Source, opts ...service.Option) (*service.Service, error) {
	loc, err := c.cfg.Location()
	if err != nil {
		return nil, err
	}
	base := []service.Option{
		service.WithSource(src),
		service.WithLogger(c.log),
		service.WithLocation(loc),
		service.WithHistoryLimit(c.cfg.HistoryLimit),
		service.WithTopPerformers(c.cfg.TopPerformers),
		service.WithTrendMonths(c.cfg.TrendMonths),
		service.WithDefaultAudience(c.cfg.DefaultAudience),
	}
	return service.New(append(base, opts...)...), nil
}
