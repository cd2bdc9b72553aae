package indexes

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mgijax/schemaspy-cleanup/internal/database"
	"github.com/mgijax/schemaspy-cleanup/internal/metrics"
)

// fakeQuerier returns canned rows and records the last query.
type fakeQuerier struct {
	rows      []database.Row
	err       error
	lastQuery string
}

func (f *fakeQuerier) Query(_ context.Context, query string, _ ...any) ([]database.Row, error) {
	f.lastQuery = query
	return f.rows, f.err
}

func (f *fakeQuerier) Close() error { return nil }

func markerRows() []database.Row {
	return []database.Row{
		{
			"relname":         "mrk_marker_pkey",
			"indisprimary":    true,
			"indisunique":     true,
			"indisclustered":  false,
			"indexSql":        "CREATE UNIQUE INDEX mrk_marker_pkey ON mgd.mrk_marker USING btree (_marker_key)",
			"indexConstraint": "mrk_marker_pkey",
		},
		{
			"relname":         "mrk_marker_idx_symbol",
			"indisprimary":    false,
			"indisunique":     true,
			"indisclustered":  false,
			"indexSql":        "CREATE UNIQUE INDEX mrk_marker_idx_symbol ON mgd.mrk_marker USING btree (lower((symbol)::text), _organism_key DESC)",
			"indexConstraint": nil,
		},
		{
			"relname":         "mrk_marker_idx_partial",
			"indisprimary":    false,
			"indisunique":     false,
			"indisclustered":  false,
			"indexSql":        "CREATE INDEX mrk_marker_idx_partial ON mgd.mrk_marker USING btree",
			"indexConstraint": nil,
		},
		{
			"relname":         "mrk_marker_idx_creation",
			"indisprimary":    []byte("f"),
			"indisunique":     []byte("f"),
			"indisclustered":  []byte("t"),
			"indexSql":        []byte("CREATE INDEX mrk_marker_idx_creation ON mgd.mrk_marker USING btree (creation_date DESC)"),
			"indexConstraint": nil,
		},
	}
}

func TestResolver_Resolve(t *testing.T) {
	db := &fakeQuerier{rows: markerRows()}
	m := metrics.NewMetrics()
	m.MustRegister(prometheus.NewRegistry())

	r := NewResolver(db, WithLogger(zap.NewNop()), WithMetrics(m))
	got, err := r.Resolve(context.Background(), "mrk_marker")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Expected 3 descriptors, got %d: %+v", len(got), got)
	}

	names := []string{got[0].Name, got[1].Name, got[2].Name}
	expectedNames := []string{"mrk_marker_pkey", "mrk_marker_idx_symbol", "mrk_marker_idx_creation"}
	if !slices.Equal(names, expectedNames) {
		t.Errorf("Expected database order %v, got %v", expectedNames, names)
	}

	if !got[0].IsPrimaryKey() {
		t.Error("Expected first index to be the primary key")
	}
	if got[0].Constraint != "mrk_marker_pkey" {
		t.Errorf("Expected constraint mrk_marker_pkey, got %q", got[0].Constraint)
	}

	if !slices.Equal(got[1].Attributes, []Attribute{MustBeUnique}) {
		t.Errorf("Expected unique attributes, got %v", got[1].Attributes)
	}
	if !slices.Equal(got[1].Columns, []string{"lower((symbol))", "_organism_key"}) {
		t.Errorf("Unexpected columns %v", got[1].Columns)
	}
	if !slices.Equal(got[1].Directions, []Direction{Ascending, Descending}) {
		t.Errorf("Unexpected directions %v", got[1].Directions)
	}
	if got[1].Constraint != "" {
		t.Errorf("Expected empty constraint, got %q", got[1].Constraint)
	}

	if !slices.Equal(got[2].Attributes, []Attribute{Performance, Clustered}) {
		t.Errorf("Expected clustered performance attributes, got %v", got[2].Attributes)
	}

	if testutil.ToFloat64(m.IndexesResolved) != 3 {
		t.Errorf("Expected 3 resolved indexes recorded, got %v", testutil.ToFloat64(m.IndexesResolved))
	}
	if testutil.ToFloat64(m.IndexesSkipped) != 1 {
		t.Errorf("Expected 1 skipped index recorded, got %v", testutil.ToFloat64(m.IndexesSkipped))
	}
}

func TestResolver_QuerySubstitutesTable(t *testing.T) {
	db := &fakeQuerier{}
	r := NewResolver(db)

	if _, err := r.Resolve(context.Background(), "gxd_assay"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if strings.Contains(db.lastQuery, TablePlaceholder) {
		t.Errorf("Placeholder left in query: %s", db.lastQuery)
	}
	if !strings.Contains(db.lastQuery, "t.relname = 'gxd_assay'") {
		t.Errorf("Expected table name in query, got: %s", db.lastQuery)
	}
	if strings.Contains(db.lastQuery, "\n") {
		t.Error("Expected query joined onto one line")
	}
}

func TestResolver_NoIndexes(t *testing.T) {
	r := NewResolver(&fakeQuerier{})

	got, err := r.Resolve(context.Background(), "empty_table")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no descriptors, got %d", len(got))
	}
}

func TestResolver_QueryError(t *testing.T) {
	queryErr := errors.New("connection refused")
	r := NewResolver(&fakeQuerier{err: queryErr})

	_, err := r.Resolve(context.Background(), "mrk_marker")
	if err == nil {
		t.Fatal("Expected query error to propagate")
	}
	if !errors.Is(err, queryErr) {
		t.Errorf("Expected wrapped query error, got %v", err)
	}
}

func TestResolver_WithTemplate(t *testing.T) {
	db := &fakeQuerier{}
	r := NewResolver(db, WithTemplate("select *\nfrom pg_indexes\nwhere tablename = 'MY_TABLE_NAME'"))

	if _, err := r.Resolve(context.Background(), "voc_term"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	expected := "select * from pg_indexes where tablename = 'voc_term'"
	if db.lastQuery != expected {
		t.Errorf("Expected %q, got %q", expected, db.lastQuery)
	}
}

func TestRenderQuery(t *testing.T) {
	tests := []struct {
		name     string
		template string
		table    string
		expected string
	}{
		{
			name:     "trailing whitespace trimmed",
			template: "select 1   \r\nfrom t\t\nwhere x = 'MY_TABLE_NAME'\n",
			table:    "acc",
			expected: "select 1 from t where x = 'acc'",
		},
		{
			name:     "every placeholder replaced",
			template: "MY_TABLE_NAME MY_TABLE_NAME",
			table:    "a",
			expected: "a a",
		},
		{
			name:     "quotes escaped",
			template: "'MY_TABLE_NAME'",
			table:    "o'brien",
			expected: "'o''brien'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderQuery(tt.template, tt.table); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestLoadTemplate(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/etc/good.sql", []byte("select * from pg_indexes where tablename = 'MY_TABLE_NAME'\n"), 0644)
	afero.WriteFile(fs, "/etc/bad.sql", []byte("select 1\n"), 0644)

	got, err := LoadTemplate(fs, "")
	if err != nil {
		t.Fatalf("Default template failed: %v", err)
	}
	if got != DefaultTemplate() || !strings.Contains(got, TablePlaceholder) {
		t.Error("Expected the built-in template with a placeholder")
	}

	got, err = LoadTemplate(fs, "/etc/good.sql")
	if err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}
	if !strings.HasPrefix(got, "select * from pg_indexes") {
		t.Errorf("Unexpected template %q", got)
	}

	if _, err := LoadTemplate(fs, "/etc/bad.sql"); err == nil {
		t.Error("Expected error for template without placeholder")
	}
	if _, err := LoadTemplate(fs, "/etc/missing.sql"); err == nil {
		t.Error("Expected error for missing template")
	}
}

func TestResolver_RepeatedIndexRow(t *testing.T) {
	pkey := func(constraint string) database.Row {
		return database.Row{
			"relname":         "voc_term_pkey",
			"indisprimary":    true,
			"indisunique":     true,
			"indisclustered":  false,
			"indexSql":        "CREATE UNIQUE INDEX voc_term_pkey ON mgd.voc_term USING btree (_term_key)",
			"indexConstraint": constraint,
		}
	}
	db := &fakeQuerier{rows: []database.Row{
		pkey("voc_term_pkey"),
		pkey("voc_term__parent_key_fk"),
		{
			"relname":        "voc_term_idx_term",
			"indisprimary":   false,
			"indisunique":    false,
			"indisclustered": false,
			"indexSql":       "CREATE INDEX voc_term_idx_term ON mgd.voc_term USING btree (term)",
		},
	}}

	got, err := NewResolver(db).Resolve(context.Background(), "voc_term")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 descriptors, got %d: %+v", len(got), got)
	}
	if got[0].Name != "voc_term_pkey" || got[1].Name != "voc_term_idx_term" {
		t.Errorf("Unexpected order: %s, %s", got[0].Name, got[1].Name)
	}
	if got[0].Constraint != "voc_term_pkey" {
		t.Errorf("Expected first row to win, got constraint %q", got[0].Constraint)
	}
}

func TestDefaultTemplate_OnlyIndexConstraints(t *testing.T) {
	if !strings.Contains(DefaultTemplate(), "con.contype in ('p', 'u', 'x')") {
		t.Error("Expected the constraint join to exclude foreign keys")
	}
}
