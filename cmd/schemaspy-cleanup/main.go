package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mgijax/schemaspy-cleanup/internal/cleanup"
	"github.com/mgijax/schemaspy-cleanup/internal/config"
	"github.com/mgijax/schemaspy-cleanup/internal/database"
	"github.com/mgijax/schemaspy-cleanup/internal/indexes"
	"github.com/mgijax/schemaspy-cleanup/internal/logging"
	"github.com/mgijax/schemaspy-cleanup/internal/metrics"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	os.Exit(run(os.Args, os.Stderr))
}

// run performs one cleanup and returns the process exit status. Usage and
// startup failures are reported on stderr.
func run(args []string, stderr io.Writer) int {
	cfg, err := config.Parse(args[0], args[1:], io.Discard)
	if err != nil {
		if errors.Is(err, config.ErrUsage) {
			fmt.Fprintf(stderr, config.Usage, args[0])
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	m := metrics.NewMetrics()
	registry := prometheus.NewRegistry()
	m.MustRegister(registry)

	ctx := context.Background()
	err = cleanupPage(ctx, cfg, logger, m)

	if perr := metrics.Publish(ctx, registry, cfg.Metrics.Textfile, cfg.Metrics.PushgatewayURL); perr != nil {
		logger.Warn("Failed to publish metrics", zap.Error(perr))
	}

	if err != nil {
		logger.Error("Cleanup failed",
			zap.String("file", cfg.TargetPath),
			zap.Error(err),
		)
		return 1
	}
	return 0
}

func cleanupPage(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) error {
	fs := afero.NewOsFs()

	template, err := indexes.LoadTemplate(fs, cfg.IndexSQLFile)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database, logger, database.WithNormalizedValues())
	if err != nil {
		return fmt.Errorf("failed to connect to %s/%s: %w", cfg.Database.Host, cfg.Database.DBName, err)
	}
	defer db.Close()

	resolver := indexes.NewResolver(db,
		indexes.WithTemplate(template),
		indexes.WithLogger(logger),
		indexes.WithMetrics(m),
	)

	return cleanup.NewRunner(cfg, fs, resolver, logger, m).Run(ctx)
}
