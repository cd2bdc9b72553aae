package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mgijax/schemaspy-cleanup/internal/config"
)

// Pool is the pgx backend, selected with DB_DRIVER=pgx.
type Pool struct {
	pool *pgxpool.Pool
	opts options
}

// NewPool creates a pgx connection pool and checks it with a ping.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger, opts ...Option) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = 1
	poolConfig.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Debug("Connected with pgx",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
	)

	return &Pool{pool: pool, opts: buildOptions(opts)}, nil
}

// Query runs query and returns every row keyed by column name
func (p *Pool) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	result := make([]Row, 0, len(maps))
	for _, m := range maps {
		result = append(result, p.opts.apply(Row(m)))
	}
	return result, nil
}

// Close releases every pooled connection
func (p *Pool) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
