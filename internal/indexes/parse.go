package indexes

import (
	"regexp"
	"strings"
)

var (
	// column list closing the statement, e.g. "... using btree (a, b desc)"
	columnListPattern = regexp.MustCompile(`\((.*)\)$`)

	// type casts inside expression columns, e.g. "lower(name::text)"
	castPattern = regexp.MustCompile(`::[^)]+`)
)

// ParseDefinition extracts the key columns and their directions from a
// CREATE INDEX statement. ok is false when the statement does not end in a
// parenthesised column list.
func ParseDefinition(definition string) (columns []string, directions []Direction, ok bool) {
	match := columnListPattern.FindStringSubmatch(strings.TrimSpace(definition))
	if match == nil || strings.TrimSpace(match[1]) == "" {
		return nil, nil, false
	}

	columns, directions = parseColumnList(match[1])
	return columns, directions, true
}

// parseColumnList splits a comma separated key list. An item whose last
// token is DESC is descending and named by the token before it.
func parseColumnList(list string) ([]string, []Direction) {
	items := strings.Split(list, ",")
	columns := make([]string, 0, len(items))
	directions := make([]Direction, 0, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		column, direction := item, Ascending

		fields := strings.Fields(item)
		if n := len(fields); n >= 2 && strings.EqualFold(fields[n-1], "desc") {
			column, direction = fields[n-2], Descending
		}

		columns = append(columns, castPattern.ReplaceAllString(column, ""))
		directions = append(directions, direction)
	}

	return columns, directions
}
