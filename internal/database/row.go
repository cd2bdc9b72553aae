package database

import (
	"fmt"
	"strings"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Option configures how a backend hands rows back.
type Option func(*options)

type options struct {
	normalize bool
}

// WithNormalizedValues converts driver-specific values to plain Go types:
// byte slices become strings and narrower integers and floats widen to
// int64 and float64.
func WithNormalizedValues() Option {
	return func(o *options) {
		o.normalize = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) apply(row Row) Row {
	if !o.normalize {
		return row
	}
	return Normalize(row)
}

// Normalize returns row with its values converted as described by WithNormalizedValues.
func Normalize(row Row) Row {
	for k, v := range row {
		switch val := v.(type) {
		case []byte:
			row[k] = string(val)
		case int:
			row[k] = int64(val)
		case int8:
			row[k] = int64(val)
		case int16:
			row[k] = int64(val)
		case int32:
			row[k] = int64(val)
		case float32:
			row[k] = float64(val)
		}
	}
	return row
}

// Text returns the column as text. NULL and missing columns are empty.
func (r Row) Text(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Bool reports the column as a flag. Postgres text forms ("t", "true", "1")
// are accepted so callers work with or without normalization.
func (r Row) Bool(column string) bool {
	switch v := r[column].(type) {
	case bool:
		return v
	case string:
		return textTrue(v)
	case []byte:
		return textTrue(string(v))
	case int64:
		return v != 0
	case int32:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

func textTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1", "y", "yes":
		return true
	}
	return false
}
