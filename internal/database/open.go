package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mgijax/schemaspy-cleanup/internal/config"
)

// Querier is the access layer the index resolver depends on.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
	Close() error
}

// Open connects with the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger, opts ...Option) (Querier, error) {
	switch cfg.Driver {
	case config.DriverPQ, "":
		db, err := NewDB(ctx, cfg, logger, opts...)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverPGX:
		pool, err := NewPool(ctx, cfg, logger, opts...)
		if err != nil {
			return nil, err
		}
		return pool, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}
