package docstore

import (
	"context"
	"fmt"

	"cafe-site/internal/config"
	"cafe-site/internal/database"

	"github.com/rs/zerolog"
)

// Open builds the driver selected by cfg.Adapter. The returned function
// releases everything Open acquired.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Adapter, func(), error) {
	switch cfg.Adapter.Driver {
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory document store, content is lost on exit")
		return NewMemoryAdapter(), func() {}, nil

	case config.DriverFile:
		a, err := NewFileAdapter(cfg.Adapter.DataDir, logger)
		if err != nil {
			return nil, nil, err
		}
		return a, func() { _ = a.Close() }, nil

	case config.DriverPostgres:
		pool, err := database.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}

		a := NewPostgresAdapter(pool, logger)
		if err := a.Start(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return a, func() {
			a.Close()
			pool.Close()
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown adapter %q", cfg.Adapter.Driver)
	}
}
