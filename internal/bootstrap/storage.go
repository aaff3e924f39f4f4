package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/QuPot_Go/internal/config"
	"github.com/osse101/QuPot_Go/internal/database"
	"github.com/osse101/QuPot_Go/internal/database/memory"
	"github.com/osse101/QuPot_Go/internal/database/postgres"
	"github.com/osse101/QuPot_Go/internal/repository"
)

// Storage holds the draw repository and, for postgres, the pool behind it
type Storage struct {
	Draws repository.Draw
	Pool  *pgxpool.Pool // nil for the memory backend
}

// Close releases the connection pool, if any
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// InitializeStorage opens the configured backend. For postgres it connects,
// optionally applies the embedded migrations, and returns a pool-backed repository.
func InitializeStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendMemory:
		slog.Info(LogMsgStorageInitialized, "backend", cfg.StorageBackend)
		return &Storage{Draws: memory.NewDrawStore()}, nil

	case config.StorageBackendPostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDatabase, err)
		}
		if cfg.DBAutoMigrate {
			if err := database.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrateDatabase, err)
			}
		}
		slog.Info(LogMsgStorageInitialized,
			"backend", cfg.StorageBackend,
			"auto_migrate", cfg.DBAutoMigrate)
		return &Storage{Draws: postgres.NewDrawRepository(pool), Pool: pool}, nil

	default:
		return nil, fmt.Errorf("%s %q", ErrMsgUnknownStorage, cfg.StorageBackend)
	}
}
