package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/config"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/importer"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/database"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/logging"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/storage"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/repository/postgresql"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	lookupsFile string
	batchSize   int
	dump        bool
	migrate     bool
}

// app holds what every subcommand needs once config and the pool are up.
type app struct {
	cfg     *config.Config
	db      *database.DB
	logger  *slog.Logger
	stores  importer.Stores
	out     io.Writer
	options rootOptions
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Import legacy HR and payroll exports and recompute payroll summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.lookupsFile, "lookups", "", "YAML file overriding the designation, section and bank lookups (default: IMPORT_LOOKUPS_FILE)")
	cmd.PersistentFlags().IntVar(&opts.batchSize, "batch-size", 0, "Records written concurrently per batch (default: IMPORT_BATCH_SIZE)")
	cmd.PersistentFlags().BoolVar(&opts.dump, "dump", false, "Write accepted records as JSON under IMPORT_OUTPUT_DIR")
	cmd.PersistentFlags().BoolVar(&opts.migrate, "migrate", false, "Apply the database schema before running")

	for _, def := range importCommands {
		cmd.AddCommand(newImportCmd(&opts, def))
	}
	cmd.AddCommand(newPayrollSummariesCmd(&opts))
	cmd.AddCommand(newRecomputeCmd(&opts))

	return cmd
}

// setup loads config, opens the pool and builds the repositories.
func setup(ctx context.Context, opts rootOptions, out io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.App.LogLevel, slog.String("app", "bak-timesheet-seed"))

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolSize{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if opts.migrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &app{
		cfg:    cfg,
		db:     db,
		logger: logger,
		stores: importer.Stores{
			Employees:  postgresql.NewEmployeeRepository(db),
			Loans:      postgresql.NewLoanRepository(db),
			Challans:   postgresql.NewChallanRepository(db),
			Timesheets: postgresql.NewTimesheetRepository(db),
			Payroll:    postgresql.NewPayrollRepository(db),
			Tx:         postgresql.NewTransactor(db),
		},
		out:     out,
		options: opts,
	}, nil
}

func (a *app) Close() {
	a.db.Close()
}

func (a *app) importer() (*importer.Importer, error) {
	lookupsFile := a.options.lookupsFile
	if lookupsFile == "" {
		lookupsFile = a.cfg.Import.LookupsFile
	}
	lookups, err := importer.LoadLookups(lookupsFile)
	if err != nil {
		return nil, err
	}

	batchSize := a.options.batchSize
	if batchSize <= 0 {
		batchSize = a.cfg.Import.BatchSize
	}

	opts := importer.Options{
		BatchSize: batchSize,
		Logger:    a.logger,
	}
	if a.options.dump {
		output, err := storage.NewLocalStorage(a.cfg.Import.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("initializing output directory: %w", err)
		}
		opts.Output = output
	}
	return importer.New(a.stores, lookups, opts), nil
}
