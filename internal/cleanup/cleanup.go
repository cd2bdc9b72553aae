// Package cleanup applies the MGI edits to one schemaSpy table page.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mgijax/schemaspy-cleanup/internal/config"
	"github.com/mgijax/schemaspy-cleanup/internal/indexes"
	"github.com/mgijax/schemaspy-cleanup/internal/metrics"
	"github.com/mgijax/schemaspy-cleanup/internal/rewrite"
)

var (
	// ErrNoIndexData means the database reported no usable indexes for the table.
	ErrNoIndexData = errors.New("no index data found in the database")

	// ErrNoIndexesSection means the page has no Indexes table to replace.
	ErrNoIndexesSection = errors.New("no Indexes section found in the page")
)

// IndexResolver supplies the indexes of a table.
type IndexResolver interface {
	Resolve(ctx context.Context, table string) ([]indexes.Descriptor, error)
}

// Runner performs one cleanup of cfg.TargetPath.
type Runner struct {
	cfg      *config.Config
	fs       afero.Fs
	resolver IndexResolver
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewRunner creates a Runner. m may be nil.
func NewRunner(cfg *config.Config, fs afero.Fs, resolver IndexResolver, logger *zap.Logger, m *metrics.Metrics) *Runner {
	return &Runner{
		cfg:      cfg,
		fs:       fs,
		resolver: resolver,
		logger:   logger,
		metrics:  m,
	}
}

// Run resolves the table's indexes, rewrites the page in memory and then
// overwrites the file. Nothing is written when any step fails. Both
// ErrNoIndexData and ErrNoIndexesSection are ignored when SkipIndexes is set.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()

	descriptors, err := r.resolver.Resolve(ctx, r.cfg.Table)
	if err != nil {
		return err
	}
	if len(descriptors) == 0 {
		if !r.cfg.SkipIndexes {
			return fmt.Errorf("%s: %w", r.cfg.Table, ErrNoIndexData)
		}
		r.logger.Info("No index data found, continuing", zap.String("table", r.cfg.Table))
	}

	info, err := r.fs.Stat(r.cfg.TargetPath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", r.cfg.TargetPath, err)
	}
	content, err := afero.ReadFile(r.fs, r.cfg.TargetPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", r.cfg.TargetPath, err)
	}

	rw := rewrite.New(descriptors,
		rewrite.WithTabs(r.tabs()...),
		rewrite.WithLogger(r.logger),
		rewrite.WithMetrics(r.metrics),
	)
	output := rw.RewriteString(string(content))

	if !rw.ReachedIndexes() {
		if !r.cfg.SkipIndexes {
			return fmt.Errorf("%s: %w (stopped %s)", r.cfg.TargetPath, ErrNoIndexesSection, rw.State())
		}
		r.logger.Info("Page has no Indexes section, applying other edits only",
			zap.String("file", r.cfg.TargetPath),
			zap.Stringer("state", rw.State()),
		)
	}

	// TODO: write to a temporary file and rename so a crash cannot truncate the page.
	if err := afero.WriteFile(r.fs, r.cfg.TargetPath, []byte(output), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.cfg.TargetPath, err)
	}

	elapsed := time.Since(start)
	if r.metrics != nil {
		r.metrics.RunDuration.Set(elapsed.Seconds())
		r.metrics.LastSuccess.SetToCurrentTime()
	}
	r.logger.Info("Cleaned up page",
		zap.String("file", r.cfg.TargetPath),
		zap.String("table", r.cfg.Table),
		zap.Int("indexes", len(descriptors)),
		zap.Duration("elapsed", elapsed),
	)

	return nil
}

func (r *Runner) tabs() []rewrite.Tab {
	var tabs []rewrite.Tab
	if r.cfg.Tabs.StripAnomalies {
		tabs = append(tabs, rewrite.AnomaliesTab)
	}
	if r.cfg.Tabs.StripDonate {
		tabs = append(tabs, rewrite.DonateTab)
	}
	return tabs
}
