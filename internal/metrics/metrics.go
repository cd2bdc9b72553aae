package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName identifies this tool on a Pushgateway.
const JobName = "schemaspy_cleanup"

// Metrics holds all Prometheus metrics for one cleanup run
type Metrics struct {
	IndexesResolved  prometheus.Counter
	IndexesSkipped   prometheus.Counter
	RowsRendered     prometheus.Counter
	LinesDropped     *prometheus.CounterVec
	BrandingInserted prometheus.Counter
	RunDuration      prometheus.Gauge
	LastSuccess      prometheus.Gauge
}

// NewMetrics creates and returns a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		IndexesResolved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "schemaspy_cleanup_indexes_resolved_total",
				Help: "Indexes read from the database and rendered",
			},
		),
		IndexesSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "schemaspy_cleanup_indexes_skipped_total",
				Help: "Indexes whose definition had no parsable column list",
			},
		),
		RowsRendered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "schemaspy_cleanup_rows_rendered_total",
				Help: "Rows written into the Indexes table",
			},
		),
		LinesDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schemaspy_cleanup_tab_lines_dropped_total",
				Help: "Navigation tab lines removed from the page",
			},
			[]string{"tab"},
		),
		BrandingInserted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "schemaspy_cleanup_branding_inserted_total",
				Help: "Branding blocks inserted into the page",
			},
		),
		RunDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "schemaspy_cleanup_run_duration_seconds",
				Help: "Wall time of the last run",
			},
		),
		LastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "schemaspy_cleanup_last_success_timestamp_seconds",
				Help: "Unix time of the last successful run",
			},
		),
	}
}

// Register registers all metrics with the given registry
func (m *Metrics) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		m.IndexesResolved,
		m.IndexesSkipped,
		m.RowsRendered,
		m.LinesDropped,
		m.BrandingInserted,
		m.RunDuration,
		m.LastSuccess,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// MustRegister registers all metrics and panics on error
func (m *Metrics) MustRegister(registry *prometheus.Registry) {
	if err := m.Register(registry); err != nil {
		panic(err)
	}
}

// Publish writes the gathered metrics to a node_exporter textfile and/or a
// Pushgateway. Empty destinations are skipped.
func Publish(ctx context.Context, registry *prometheus.Registry, textfile, pushgatewayURL string) error {
	if textfile != "" {
		if err := prometheus.WriteToTextfile(textfile, registry); err != nil {
			return fmt.Errorf("failed to write metrics textfile: %w", err)
		}
	}

	if pushgatewayURL != "" {
		if err := push.New(pushgatewayURL, JobName).Gatherer(registry).PushContext(ctx); err != nil {
			return fmt.Errorf("failed to push metrics: %w", err)
		}
	}

	return nil
}
