package indexes

import "slices"

// Direction is the sort order of one index key column.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the full word, used as tooltip text.
func (d Direction) String() string {
	if d == Descending {
		return "Descending"
	}
	return "Ascending"
}

// Abbrev returns the short label shown in the Indexes table.
func (d Direction) Abbrev() string {
	if d == Descending {
		return "Desc"
	}
	return "Asc"
}

// Attribute is a qualitative label shown for an index.
type Attribute string

const (
	PrimaryKey   Attribute = "Primary key"
	MustBeUnique Attribute = "Must be unique"
	Performance  Attribute = "Performance"
	Clustered    Attribute = "Used to cluster data"
)

// Descriptor describes one index on a table. Columns and Directions are
// parallel and never empty.
type Descriptor struct {
	Name       string
	Attributes []Attribute
	Columns    []string
	Directions []Direction
	Constraint string // backing constraint, empty for plain indexes
}

// IsPrimaryKey reports whether the index backs the table's primary key.
func (d Descriptor) IsPrimaryKey() bool {
	return slices.Contains(d.Attributes, PrimaryKey)
}

// classify derives the attribute labels from the catalog flags. Exactly one
// of PrimaryKey, MustBeUnique and Performance is returned, optionally
// followed by Clustered.
func classify(primary, unique, clustered bool) []Attribute {
	var attrs []Attribute
	switch {
	case primary:
		attrs = append(attrs, PrimaryKey)
	case unique:
		attrs = append(attrs, MustBeUnique)
	default:
		attrs = append(attrs, Performance)
	}
	if clustered {
		attrs = append(attrs, Clustered)
	}
	return attrs
}
