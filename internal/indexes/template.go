package indexes

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// TablePlaceholder is replaced with the table name in the query template.
const TablePlaceholder = "MY_TABLE_NAME"

//go:embed getIndexes.sql
var defaultTemplate string

// DefaultTemplate returns the built-in index introspection query.
func DefaultTemplate() string {
	return defaultTemplate
}

// LoadTemplate reads a query template from fs. An empty path yields the
// built-in template.
func LoadTemplate(fs afero.Fs, path string) (string, error) {
	if path == "" {
		return defaultTemplate, nil
	}
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read index query %s: %w", path, err)
	}
	if !strings.Contains(string(b), TablePlaceholder) {
		return "", fmt.Errorf("index query %s has no %s placeholder", path, TablePlaceholder)
	}
	return string(b), nil
}

// RenderQuery joins the template onto one line and substitutes the table
// name for every placeholder.
func RenderQuery(template, table string) string {
	lines := strings.Split(template, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	query := strings.TrimSpace(strings.Join(lines, " "))
	return strings.ReplaceAll(query, TablePlaceholder, strings.ReplaceAll(table, "'", "''"))
}
