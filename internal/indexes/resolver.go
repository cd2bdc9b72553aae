package indexes

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mgijax/schemaspy-cleanup/internal/database"
	"github.com/mgijax/schemaspy-cleanup/internal/metrics"
)

// Columns returned by the index query
const (
	colName       = "relname"
	colPrimary    = "indisprimary"
	colUnique     = "indisunique"
	colClustered  = "indisclustered"
	colDefinition = "indexSql"
	colConstraint = "indexConstraint"
)

// Resolver looks up the indexes of a table in the live database.
type Resolver struct {
	db       database.Querier
	template string
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// ResolverOption is a functional option for configuring Resolver.
type ResolverOption func(*Resolver)

// WithTemplate replaces the built-in query template.
func WithTemplate(template string) ResolverOption {
	return func(r *Resolver) {
		r.template = template
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMetrics records resolved and skipped index counts.
func WithMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// NewResolver creates a resolver reading from db.
func NewResolver(db database.Querier, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		db:       db,
		template: defaultTemplate,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the indexes of table in the order the database lists
// them. Indexes whose definition has no trailing column list are left out,
// and an index listed more than once keeps only its first row.
func (r *Resolver) Resolve(ctx context.Context, table string) ([]Descriptor, error) {
	rows, err := r.db.Query(ctx, RenderQuery(r.template, table))
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes of %s: %w", table, err)
	}

	descriptors := make([]Descriptor, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if name := row.Text(colName); seen[name] {
			r.logger.Debug("Skipping repeated index row",
				zap.String("table", table),
				zap.String("index", name),
				zap.String("constraint", row.Text(colConstraint)),
			)
			continue
		}

		d, ok := describe(row)
		if !ok {
			r.logger.Debug("Skipping index without a column list",
				zap.String("table", table),
				zap.String("index", row.Text(colName)),
				zap.String("definition", row.Text(colDefinition)),
			)
			if r.metrics != nil {
				r.metrics.IndexesSkipped.Inc()
			}
			continue
		}
		seen[d.Name] = true
		descriptors = append(descriptors, d)
	}

	if r.metrics != nil {
		r.metrics.IndexesResolved.Add(float64(len(descriptors)))
	}
	r.logger.Debug("Resolved indexes",
		zap.String("table", table),
		zap.Int("rows", len(rows)),
		zap.Int("indexes", len(descriptors)),
	)

	return descriptors, nil
}

// describe turns one catalog row into a Descriptor.
func describe(row database.Row) (Descriptor, bool) {
	columns, directions, ok := ParseDefinition(strings.ToLower(row.Text(colDefinition)))
	if !ok {
		return Descriptor{}, false
	}

	return Descriptor{
		Name:       row.Text(colName),
		Attributes: classify(row.Bool(colPrimary), row.Bool(colUnique), row.Bool(colClustered)),
		Columns:    columns,
		Directions: directions,
		Constraint: row.Text(colConstraint),
	}, true
}
