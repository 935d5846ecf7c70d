package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/biome/internal/config"
	"github.com/cory-johannsen/biome/internal/game/slot"
	"github.com/cory-johannsen/biome/internal/storage/postgres"
	"github.com/cory-johannsen/biome/internal/storage/sqlite"
)

// openStore returns the slot store selected by cfg.Storage.Driver together
// with a function that releases it.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (slot.Store, func(), error) {
	dbStart := time.Now()
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return slot.NewMemoryStore(), func() {}, nil
	case config.DriverSQLite:
		repo, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sqlite opened",
			zap.String("path", cfg.Storage.SQLitePath),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		return repo, func() { _ = repo.Close() }, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		return postgres.NewCreatureRepository(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
