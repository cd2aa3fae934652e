// Package infrastructure assembles the shared systems every domain needs:
// lifecycle coordination, logging, the PostgreSQL pool and blob storage.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/perito-hub/internal/config"
	"github.com/JaimeStill/perito-hub/pkg/database"
	"github.com/JaimeStill/perito-hub/pkg/lifecycle"
	"github.com/JaimeStill/perito-hub/pkg/logging"
	"github.com/JaimeStill/perito-hub/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New builds every system from cfg without starting them.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging).With("service", "perito-hub", "version", cfg.Version)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}, nil
}

// Start registers the database and storage with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

// Ready reports whether startup finished and the database still answers.
func (i *Infrastructure) Ready(ctx context.Context) error {
	if !i.Lifecycle.Ready() {
		return fmt.Errorf("startup in progress")
	}
	if err := i.Database.Ping(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}
