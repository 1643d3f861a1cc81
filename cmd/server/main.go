// Package main implements the entry point for the CareHire API server, which
// serves job seekers and healthcare employers over a JSON HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/carehire/carehire-api/internal/config"
	"github.com/carehire/carehire-api/internal/platform/logger"
	"github.com/carehire/carehire-api/internal/platform/postgres"
	"github.com/carehire/carehire-api/internal/platform/storage"
)

// options are the command-line flags.
type options struct {
	configPath string
	migrate    string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file (default: ./config.yaml if present)")
	fs.StringVar(&opts.migrate, "migrate", "",
		fmt.Sprintf("run a migration command and exit, one of %v", postgres.MigrationCommands))
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file named by path, or the default sources
// when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// run loads configuration, connects to the database and either runs the
// requested migration command or serves HTTP until ctx is cancelled.
func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)
	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"environment", cfg.Server.Environment)

	client, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer client.Close()

	if opts.migrate != "" {
		db := client.DB()
		defer func() { _ = db.Close() }()
		return postgres.Migrate(ctx, db, opts.migrate, log)
	}

	objects, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to configure document storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := newApplication(cfg, log, client, objects, reg)
	defer app.cleanup()

	return app.serve(ctx)
}
