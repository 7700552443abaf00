package schema

import (
	"strconv"
	"strings"
)

// ============================================================================
// SCHEMA — Describes the shape of a dataset for the loader + dashboard
// ============================================================================
// Auto-discovered from a CSV header and sample rows, or built by hand.
// The loader uses it to decide which columns parse as numbers; the
// dashboard uses Groupable/CardinalityHint to pick dropdown candidates.
// ============================================================================

// Kind is the semantic type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name    string       `json:"name" yaml:"name"`
	Version string       `json:"version,omitempty" yaml:"version,omitempty"`
	Columns []ColumnMeta `json:"columns" yaml:"columns"`

	// Auto-discovery metadata
	RowCount       int    `json:"rowCount,omitempty" yaml:"row_count,omitempty"`
	DiscoveredFrom string `json:"discoveredFrom,omitempty" yaml:"discovered_from,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty" yaml:"discovered_at,omitempty"`
}

// ColumnMeta describes one column, in file order.
type ColumnMeta struct {
	Header          string   `json:"header" yaml:"header"` // exact CSV header
	Key             string   `json:"key" yaml:"key"`
	DisplayName     string   `json:"displayName" yaml:"display_name"`
	Kind            Kind     `json:"kind" yaml:"kind"`
	SampleValues    []string `json:"sampleValues,omitempty" yaml:"sample_values,omitempty"`
	UniqueCount     int      `json:"uniqueCount" yaml:"unique_count"`
	NullCount       int      `json:"nullCount,omitempty" yaml:"null_count,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty" yaml:"cardinality_hint,omitempty"` // "low", "medium", "high"
	Groupable       bool     `json:"groupable" yaml:"groupable"`
	Identifier      bool     `json:"identifier,omitempty" yaml:"identifier,omitempty"` // unique per row
}

// IsNumeric reports whether the column parses as numbers.
func (c ColumnMeta) IsNumeric() bool { return c.Kind == KindNumeric }

// ColumnKeys returns all column keys.
func (c Config) ColumnKeys() []string {
	keys := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		keys[i] = col.Key
	}
	return keys
}

// Headers returns the exact CSV headers in file order.
func (c Config) Headers() []string {
	headers := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		headers[i] = col.Header
	}
	return headers
}

// NumericKeys returns the keys of numeric columns.
func (c Config) NumericKeys() []string {
	return c.keysOf(KindNumeric)
}

// CategoricalKeys returns the keys of categorical columns.
func (c Config) CategoricalKeys() []string {
	return c.keysOf(KindCategorical)
}

func (c Config) keysOf(kind Kind) []string {
	var keys []string
	for _, col := range c.Columns {
		if col.Kind == kind {
			keys = append(keys, col.Key)
		}
	}
	return keys
}

// Lookup finds a column by header, key or display name.
func (c Config) Lookup(name string) (ColumnMeta, bool) {
	key := toSnakeCase(name)
	for _, col := range c.Columns {
		if col.Header == name || col.Key == name || col.Key == key ||
			strings.EqualFold(col.DisplayName, name) {
			return col, true
		}
	}
	return ColumnMeta{}, false
}

// ============================================================================
// CELL PARSING — shared by discovery and the loader
// ============================================================================

// IsNull reports whether a cell counts as missing.
func IsNull(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "null", "NULL", "N/A", "n/a", "NaN", "nan":
		return true
	}
	return false
}

// ParseNumber parses a numeric cell, tolerating thousands separators and a
// leading currency symbol ("1,234.56", "$45").
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}
