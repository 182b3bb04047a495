package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/MasterList/internal/config"
	"github.com/JonMunkholm/MasterList/internal/core"
	"github.com/JonMunkholm/MasterList/internal/logging"
	"github.com/JonMunkholm/MasterList/internal/publish"
	"github.com/JonMunkholm/MasterList/internal/web"
)

// app carries configuration from the root command to its subcommands.
type app struct {
	cfg *config.Config

	inputDir  string
	output    string
	logLevel  string
	noPublish bool
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "masterlist",
		Short: "Reconcile member extracts into one master list",
		Long: `masterlist joins the jobs, positions, work address, contact, people and
mailing address extracts into one row per member, applies privacy
preferences, and writes the result as master_list.csv.

Settings come from the environment (and a .env file when present);
flags override them.`,
		PersistentPreRunE: a.setup,
		RunE:              a.runOnce,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.inputDir, "input-dir", "", "directory holding the input extracts (overrides MASTERLIST_INPUT_DIR)")
	flags.StringVarP(&a.output, "output", "o", "", "output CSV path (overrides MASTERLIST_OUTPUT_FILE)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flags.BoolVar(&a.noPublish, "no-publish", false, "skip publishing even when DATABASE_URL is set")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Build the master list once and exit",
		RunE:  a.runOnce,
	})
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the run API and report pages",
		RunE:  a.serve,
	})
	return root
}

// setup loads configuration and logging before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// Overload lets .env win over the inherited environment
	if err := godotenv.Overload(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.inputDir != "" {
		cfg.Input.Dir = a.inputDir
	}
	if a.output != "" {
		cfg.Output.File = a.output
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.noPublish {
		cfg.Database.URL = ""
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())
	a.cfg = cfg
	return nil
}

// newService builds the run service, connecting the publisher when enabled.
// The returned func releases the database pool.
func (a *app) newService(ctx context.Context) (*core.Service, func(), error) {
	svcCfg := core.ServiceConfig{
		Files:        core.Files{Dir: a.cfg.Input.Dir, Names: a.cfg.Input.Names()},
		OutputPath:   a.cfg.Output.File,
		HistoryLimit: a.cfg.Run.HistoryLimit,
		RunWait:      a.cfg.Run.Wait,
		RunTimeout:   a.cfg.Run.Timeout,
	}
	if !a.cfg.Database.Enabled() {
		return core.NewService(svcCfg), func() {}, nil
	}

	pool, err := publish.NewPool(ctx, a.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("publishing enabled", "table", a.cfg.Database.Table)
	svcCfg.Publisher = publish.NewPostgres(pool, a.cfg.Database.Table)
	return core.NewService(svcCfg), pool.Close, nil
}

func (a *app) runOnce(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	svc, closeFn, err := a.newService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	run, err := svc.Execute(ctx)
	if err != nil {
		if run.ID == "" {
			return err
		}
		return fmt.Errorf("run %s: %w", run.ID, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "wrote %d members to %s\n", run.Rows, run.OutputPath)
	if run.Published > 0 {
		fmt.Fprintf(out, "published %d rows to %s\n", run.Published, a.cfg.Database.Table)
	}
	for _, u := range run.DuplicateUnits {
		fmt.Fprintf(out, "warning: bargaining unit %s listed more than once in contract codes\n", u)
	}
	return nil
}

func (a *app) serve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	svc, closeFn, err := a.newService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	server := web.NewServer(svc, a.cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	go svc.StartScheduler(jobCtx, a.cfg.Run.Interval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	cancelJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if status := svc.Limiter().Status(); status.Active > 0 {
		slog.Info("waiting for run to complete", "active", status.Active)
		if err := svc.Limiter().WaitForDrain(shutdownCtx); err != nil {
			slog.Warn("run did not complete in time", "error", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
