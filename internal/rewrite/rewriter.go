package rewrite

import (
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/mgijax/schemaspy-cleanup/internal/indexes"
	"github.com/mgijax/schemaspy-cleanup/internal/metrics"
)

// Rewriter edits one schemaSpy table page in a single forward pass: it
// drops the selected navigation tabs, inserts the branding block and
// replaces the rows of the Indexes table with rows built from indexes.
//
// A Rewriter is single use. Its State after the output sequence has been
// drained tells the caller how far the page got.
type Rewriter struct {
	indexes []indexes.Descriptor
	tabs    []Tab
	state   State
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option is a functional option for configuring Rewriter.
type Option func(*Rewriter)

// WithTabs removes the lines of each given navigation tab.
func WithTabs(tabs ...Tab) Option {
	return func(r *Rewriter) {
		r.tabs = append(r.tabs, tabs...)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Rewriter) {
		r.logger = logger
	}
}

// WithMetrics records dropped lines, branding and rendered rows.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Rewriter) {
		r.metrics = m
	}
}

// New creates a Rewriter that renders the given indexes in order.
func New(descriptors []indexes.Descriptor, opts ...Option) *Rewriter {
	r := &Rewriter{
		indexes: descriptors,
		state:   BeforeBranding,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current position in the page.
func (r *Rewriter) State() State {
	return r.state
}

// ReachedIndexes reports whether the Indexes rows were replaced.
func (r *Rewriter) ReachedIndexes() bool {
	return r.state == AfterIndexes
}

// Rewrite returns the edited page lazily. Lines keep their terminators.
func (r *Rewriter) Rewrite(lines iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range lines {
			if r.dropTab(line) {
				continue
			}
			if !r.step(line, yield) {
				return
			}
		}
	}
}

// RewriteString is Rewrite over a whole document held in memory.
func (r *Rewriter) RewriteString(doc string) string {
	var b strings.Builder
	b.Grow(len(doc) + len(brandingBlock))
	for line := range r.Rewrite(strings.Lines(doc)) {
		b.WriteString(line)
	}
	return b.String()
}

func (r *Rewriter) dropTab(line string) bool {
	for _, tab := range r.tabs {
		if tab.Matches(line) {
			r.logger.Debug("Dropping navigation tab", zap.String("tab", tab.Name))
			if r.metrics != nil {
				r.metrics.LinesDropped.WithLabelValues(tab.Name).Inc()
			}
			return true
		}
	}
	return false
}

// step feeds one line to the handler of the current state. It returns
// false once the consumer stops pulling.
func (r *Rewriter) step(line string, yield func(string) bool) bool {
	switch r.state {
	case BeforeBranding:
		return r.beforeBranding(line, yield)
	case BeforeIndexesSection:
		return r.beforeIndexesSection(line, yield)
	case BeforeDataRows:
		return r.beforeDataRows(line, yield)
	case InDataRows:
		return r.inDataRows(line, yield)
	default:
		return yield(line)
	}
}

func (r *Rewriter) beforeBranding(line string, yield func(string) bool) bool {
	if !yield(line) {
		return false
	}
	if !strings.Contains(line, headerMarker) {
		return true
	}

	r.transition(BeforeIndexesSection)
	if r.metrics != nil {
		r.metrics.BrandingInserted.Inc()
	}
	if !strings.HasSuffix(line, "\n") && !yield("\n") {
		return false
	}
	for l := range strings.Lines(brandingBlock) {
		if !yield(l) {
			return false
		}
	}
	return true
}

func (r *Rewriter) beforeIndexesSection(line string, yield func(string) bool) bool {
	if strings.Contains(line, indexesMarker) {
		r.transition(BeforeDataRows)
	}
	return yield(line)
}

func (r *Rewriter) beforeDataRows(line string, yield func(string) bool) bool {
	if strings.Contains(line, tableBodyMarker) {
		r.transition(InDataRows)
	}
	return yield(line)
}

// inDataRows discards the generated rows until the table closes, then
// emits the replacement rows followed by the closing line.
func (r *Rewriter) inDataRows(line string, yield func(string) bool) bool {
	if !strings.Contains(line, tableCloseMarker) {
		return true
	}

	for _, d := range r.indexes {
		for _, l := range RenderRow(d) {
			if !yield(l) {
				return false
			}
		}
	}
	if r.metrics != nil {
		r.metrics.RowsRendered.Add(float64(len(r.indexes)))
	}

	r.transition(AfterIndexes)
	return yield(line)
}

func (r *Rewriter) transition(next State) {
	r.logger.Debug("Rewriter state change",
		zap.Stringer("from", r.state),
		zap.Stringer("to", next),
	)
	r.state = next
}
