package engine

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ============================================================================
// TABLE — Immutable columnar dataset
// ============================================================================
// A Table is built once (by helpers.ParseCSV or a TableAdapter) and never
// mutated afterwards. Every engine function takes the table explicitly, so
// one Table can be shared read-only by any number of goroutines.
// ============================================================================

// Kind is the semantic type of a column.
type Kind int

const (
	// Categorical columns hold strings (names, types, flags).
	Categorical Kind = iota
	// Numeric columns hold float64 stats.
	Numeric
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	}
	return "unknown"
}

// Column is a single named, typed column of a Table.
type Column struct {
	name    string
	key     string
	kind    Kind
	numbers []float64
	strs    []string
}

// NewNumericColumn creates a numeric column. The values are copied.
func NewNumericColumn(name string, values []float64) *Column {
	return &Column{
		name:    name,
		key:     NormalizeKey(name),
		kind:    Numeric,
		numbers: append([]float64(nil), values...),
	}
}

// NewCategoricalColumn creates a categorical column. The values are copied.
func NewCategoricalColumn(name string, values []string) *Column {
	return &Column{
		name: name,
		key:  NormalizeKey(name),
		kind: Categorical,
		strs: append([]string(nil), values...),
	}
}

func (c *Column) Name() string    { return c.name }
func (c *Column) Key() string     { return c.key }
func (c *Column) Kind() Kind      { return c.kind }
func (c *Column) IsNumeric() bool { return c.kind == Numeric }

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.kind == Numeric {
		return len(c.numbers)
	}
	return len(c.strs)
}

// Number returns the numeric value at row i, NaN for categorical columns.
func (c *Column) Number(i int) float64 {
	if c.kind != Numeric || i < 0 || i >= len(c.numbers) {
		return math.NaN()
	}
	return c.numbers[i]
}

// Text returns the display form of the value at row i.
func (c *Column) Text(i int) string {
	if i < 0 || i >= c.Len() {
		return ""
	}
	if c.kind == Numeric {
		return FormatNumber(c.numbers[i])
	}
	return c.strs[i]
}

// Table is an ordered collection of equal-length columns.
type Table struct {
	name    string
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable validates the columns and assembles them into a Table.
// All columns must share one positive row count and have distinct names.
func NewTable(name string, columns ...*Column) (*Table, error) {
	if len(columns) == 0 {
		return nil, errors.New("table has no columns")
	}

	t := &Table{
		name:    name,
		columns: columns,
		index:   make(map[string]int, 2*len(columns)),
		rows:    columns[0].Len(),
	}
	if t.rows == 0 {
		return nil, errors.New("table has no rows")
	}

	for i, c := range columns {
		if c.Len() != t.rows {
			return nil, errors.Errorf("column %q has %d rows, expected %d",
				c.name, c.Len(), t.rows)
		}
		if _, dup := t.index[c.name]; dup {
			return nil, errors.Errorf("duplicate column %q", c.name)
		}
		t.index[c.name] = i
	}

	// Normalised keys are a convenience; an exact name always wins.
	for i, c := range columns {
		if c.key == "" {
			continue
		}
		if _, taken := t.index[c.key]; !taken {
			t.index[c.key] = i
		}
	}

	return t, nil
}

func (t *Table) Name() string { return t.name }
func (t *Table) Len() int     { return t.rows }

// Columns returns the table's columns in file order.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// Column looks a column up by exact name or normalised key.
func (t *Table) Column(name string) (*Column, error) {
	if i, ok := t.index[name]; ok {
		return t.columns[i], nil
	}
	if i, ok := t.index[NormalizeKey(name)]; ok {
		return t.columns[i], nil
	}
	return nil, errors.Wrapf(ErrInvalidSelection, "unknown column %q", name)
}

// NumericColumn is Column plus a numeric kind check.
func (t *Table) NumericColumn(name string) (*Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if !c.IsNumeric() {
		return nil, errors.Wrapf(ErrInvalidSelection, "column %q is not numeric", c.name)
	}
	return c, nil
}

// ColumnNames lists the column names in file order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// All returns a view over every row.
func (t *Table) All() View {
	rows := make([]int, t.rows)
	for i := range rows {
		rows[i] = i
	}
	return View{table: t, rows: rows}
}

// NormalizeKey converts "Sp. Atk" → "sp_atk".
func NormalizeKey(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// FormatNumber renders whole numbers without decimals ("45", not "45.00").
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
