package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dastanaron/echohive/internal/config"
	"github.com/dastanaron/echohive/internal/logger"
	"github.com/dastanaron/echohive/internal/metrics"
	"github.com/dastanaron/echohive/internal/repository"
	"github.com/dastanaron/echohive/internal/service"
	"github.com/dastanaron/echohive/internal/ui"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type flags struct {
	cfgFile     string
	profile     string
	dbPath      string
	driver      string
	debug       bool
	metricsAddr string
}

// runtimeDeps is what every command needs once config is loaded
type runtimeDeps struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Metrics
	repo    repository.KeyValue
	svc     *service.ContentService
}

func (d *runtimeDeps) close() {
	if d.repo != nil {
		if err := d.repo.Close(); err != nil {
			d.log.Warn("Close storage failed", logger.Error(err))
		}
	}
	if d.log != nil {
		_ = d.log.Sync()
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	deps := &runtimeDeps{}

	root := &cobra.Command{
		Use:   "echohive",
		Short: "Browse and curate a small content collection in the terminal",
		Long: `echohive keeps a collection of destination, food blog or journal entries
in a local key-value store and lets you search, filter, page, like and share
them from a terminal UI with a rotating slideshow.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return deps.init(cmd.Context(), cmd, f)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			deps.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), deps)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.cfgFile, "config", "", "config file (default is ./config.yaml or ~/.echohive/config.yaml)")
	pf.StringVar(&f.profile, "profile", "", "content profile: destinations, food or journal")
	pf.StringVar(&f.dbPath, "db", "", "database path or DSN (default: ~/.echohive/echohive.db)")
	pf.StringVar(&f.driver, "driver", "", "storage driver: sqlite3, sqlite, libsql, redis or memory")
	pf.BoolVar(&f.debug, "debug", false, "enable debug logging")
	root.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the UI runs")

	root.AddCommand(
		newImportCommand(deps),
		newExportCommand(deps),
		newClearDoublesCommand(deps),
		newResetCommand(deps),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "echohive version %s\n", version)
			},
		},
	)
	return root
}

func (d *runtimeDeps) init(ctx context.Context, cmd *cobra.Command, f *flags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(f.cfgFile)
	if err != nil {
		return err
	}
	// explicit flags win over file and environment
	if cmd.Flags().Changed("profile") {
		cfg.WithProfile(f.profile)
	}
	if cmd.Flags().Changed("db") {
		cfg.WithDBPath(f.dbPath)
	}
	if cmd.Flags().Changed("driver") {
		cfg.WithDriver(f.driver)
	}
	if f.debug {
		cfg.WithDebug()
	}
	if f.metricsAddr != "" {
		cfg.WithMetricsAddr(f.metricsAddr)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	profile, err := cfg.ContentProfile()
	if err != nil {
		return err
	}

	repo, err := repository.Open(ctx, cfg.RepositoryOptions())
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	d.cfg = cfg
	d.log = log
	d.repo = repo
	d.metrics = metrics.New(prometheus.NewRegistry())
	d.svc = service.NewContentService(repo, service.Options{
		Profile: profile,
		Period:  cfg.Rotation.Period,
		Logger:  log,
		Metrics: d.metrics,
	})
	d.svc.Open(ctx)

	log.Debug("Runtime ready",
		logger.String("driver", cfg.Storage.Driver),
		logger.String("profile", profile.Name),
		logger.Duration("rotation", cfg.Rotation.Period))
	return nil
}

func runTUI(ctx context.Context, d *runtimeDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if addr := d.cfg.Metrics.Addr; addr != "" {
		stop := serveMetrics(addr, d)
		defer stop()
	}
	return ui.NewApp(d.svc, d.log).Run(ctx)
}

// serveMetrics exposes the registry over HTTP and returns a shutdown func
func serveMetrics(addr string, d *runtimeDeps) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", d.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.log.Error("Metrics server stopped", logger.Error(err))
		}
	}()
	d.log.Info("Serving metrics", logger.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
