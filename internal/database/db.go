package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zapadapter"
	"go.uber.org/zap"

	"github.com/mgijax/schemaspy-cleanup/internal/config"
)

// DB wraps a lib/pq connection pool
type DB struct {
	*sql.DB
	opts options
}

// NewDB opens a database/sql connection through lib/pq and checks it with a ping.
// When cfg.QueryLog is set every statement is logged through logger.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger, opts ...Option) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.QueryLog {
		db = withQueryLogger(db, dsn, logger)
	}

	// One query per run
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, opts: buildOptions(opts)}, nil
}

// withQueryLogger re-opens the driver behind db so each statement is logged.
// db is closed and must not be used afterwards.
func withQueryLogger(db *sql.DB, dsn string, logger *zap.Logger) *sql.DB {
	defer db.Close()

	adapter := zapadapter.New(logger.With(zap.String("driver", "postgres")))
	return sqldblogger.OpenDriver(dsn, db.Driver(), adapter,
		sqldblogger.WithWrapResult(false),
		sqldblogger.WithDurationFieldname("dur_ms"),
		sqldblogger.WithDurationUnit(sqldblogger.DurationMillisecond),
		sqldblogger.WithSQLQueryAsMessage(true),
		sqldblogger.WithSQLQueryFieldname("sql_query"),
	)
}

// Query runs query and returns every row keyed by column name
func (db *DB) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		row := make(Row, len(columns))
		for i, name := range columns {
			row[name] = values[i]
		}
		result = append(result, db.opts.apply(row))
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iteration failed: %w", err)
	}

	return result, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}
