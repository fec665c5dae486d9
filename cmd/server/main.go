// Package main implements the entry point for the Damu API server, which
// records water intake, reports progress and stats, computes reminder
// schedules and advances daily streaks.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/damu-app/damu-api/internal/config"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/damu-app/damu-api/internal/platform/postgres"
	"github.com/joho/godotenv"
)

func main() {
	migrate := flag.String("migrate", "", fmt.Sprintf("run a migration command and exit (%v)", postgres.MigrationCommands))
	flag.Parse()

	if err := run(*migrate); err != nil {
		log.Fatalf("damu-api: %v", err)
	}
}

func run(migrateCommand string) error {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("default_timezone", cfg.Hydration.DefaultTimezone),
		slog.Bool("batch_enabled", cfg.Batch.Enabled))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg.Database, appLogger)
	if err != nil {
		return err
	}

	if migrateCommand != "" {
		defer func() { _ = db.Close() }()
		return postgres.Migrate(ctx, db, migrateCommand, appLogger)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.run(ctx)
}
