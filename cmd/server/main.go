// Package main implements the entry point for the TaskTrack API server,
// a multi-user task tracker with JWT authentication and a periodic
// task report job.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/tasktrackhq/tasktrack-api/internal/config"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := context.Background()
	if err := runMigrations(ctx, app.db, appLogger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app.reporter.Start(ctx)

	return app.startHTTPServer(ctx, app.setupRouter())
}
