package rewrite

import (
	"fmt"
	"html"
	"strings"

	"github.com/mgijax/schemaspy-cleanup/internal/indexes"
)

// RenderRow returns the Indexes table row for d, one line per element.
func RenderRow(d indexes.Descriptor) []string {
	class := "indexedColumn"
	if d.IsPrimaryKey() {
		class = "primaryKey"
	}

	columns := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		columns[i] = html.EscapeString(c)
	}

	attrs := make([]string, len(d.Attributes))
	for i, a := range d.Attributes {
		attrs[i] = string(a)
	}

	dirs := make([]string, len(d.Directions))
	for i, dir := range d.Directions {
		dirs[i] = fmt.Sprintf("<span title='%s'>%s</span>", dir, dir.Abbrev())
	}

	return []string{
		" <tr>\n",
		fmt.Sprintf("  <td class='%s'>%s</td>\n", class, strings.Join(columns, " + ")),
		fmt.Sprintf("  <td class='detail'>%s</td>\n", strings.Join(attrs, ", ")),
		fmt.Sprintf("  <td class='detail' style='text-align:left;'>%s</td>\n", strings.Join(dirs, "/")),
		fmt.Sprintf("  <td class='constraint' style='text-align:left;'>%s</td>\n", html.EscapeString(d.Name)),
		" </tr>\n",
	}
}
