// Package storage opens the configured repository backend.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/cabin-manager/internal/config"
	"github.com/sakif/cabin-manager/internal/repository"
	"github.com/sakif/cabin-manager/internal/repository/postgres"
	"github.com/sakif/cabin-manager/internal/repository/sqlite"
)

// Open connects to Postgres when cfg.DatabaseURL is set and otherwise
// opens SQLite at cfg.DBPath, creating its directory first.
func Open(ctx context.Context, cfg config.Storage, logger *slog.Logger) (repository.Store, error) {
	if cfg.DatabaseURL != "" {
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected", slog.String("backend", "postgres"))
		return db, nil
	}

	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: creating %s: %w", dir, err)
		}
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Info("database opened", slog.String("backend", "sqlite"), slog.String("path", cfg.DBPath))
	return db, nil
}
