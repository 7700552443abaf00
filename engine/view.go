package engine

import "math"

// ============================================================================
// VIEW — Zero-Copy Row Selection
// ============================================================================
// The engine never copies table data. Filters, groups and outlier splits
// all return Views: an ordered list of row indices into the parent Table.
//
// Implementations:
//   View          — row index list (Table.All, filters, groups, splits)
//   TableAdapter  — builds a Table from typed structs via accessor functions
// ============================================================================

// View is an ordered selection of rows of a Table.
type View struct {
	table *Table
	rows  []int
}

// newSubView selects positions of parent (not table rows) into a new view.
func newSubView(parent View, positions []int) View {
	rows := make([]int, len(positions))
	for i, p := range positions {
		rows[i] = parent.rows[p]
	}
	return View{table: parent.table, rows: rows}
}

func (v View) Table() *Table { return v.table }
func (v View) Len() int      { return len(v.rows) }

// Row returns the table row index at position i.
func (v View) Row(i int) int { return v.rows[i] }

// Rows returns a copy of the table row indices.
func (v View) Rows() []int {
	return append([]int(nil), v.rows...)
}

// Numbers collects the column's values for the rows of the view.
// NaN cells (empty numeric cells in the source file) are skipped.
func (v View) Numbers(c *Column) []float64 {
	out := make([]float64, 0, len(v.rows))
	for _, r := range v.rows {
		n := c.Number(r)
		if math.IsNaN(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ============================================================================
// TABLE ADAPTER — Typed structs → Table
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewTableAdapter[Pokemon]().
//	    Categorical("Legendary", func(p Pokemon) string { return p.Legendary }).
//	    Numeric("Total", func(p Pokemon) float64 { return p.Total })
//
//	table, err := adapter.Build("pokemon", pokemons)
//
// ============================================================================

// TableAdapter builds a Table from typed structs.
// Declare once, build many times.
type TableAdapter[T any] struct {
	order []string
	kinds map[string]Kind
	nums  map[string]func(T) float64
	strs  map[string]func(T) string
}

// NewTableAdapter creates a new adapter for type T.
func NewTableAdapter[T any]() *TableAdapter[T] {
	return &TableAdapter[T]{
		kinds: make(map[string]Kind),
		nums:  make(map[string]func(T) float64),
		strs:  make(map[string]func(T) string),
	}
}

// Numeric registers a numeric column accessor.
func (a *TableAdapter[T]) Numeric(name string, fn func(T) float64) *TableAdapter[T] {
	a.register(name, Numeric)
	a.nums[name] = fn
	return a
}

// Categorical registers a categorical column accessor.
func (a *TableAdapter[T]) Categorical(name string, fn func(T) string) *TableAdapter[T] {
	a.register(name, Categorical)
	a.strs[name] = fn
	return a
}

func (a *TableAdapter[T]) register(name string, kind Kind) {
	if _, exists := a.kinds[name]; !exists {
		a.order = append(a.order, name)
	}
	a.kinds[name] = kind
}

// Build materialises the registered columns over data.
func (a *TableAdapter[T]) Build(name string, data []T) (*Table, error) {
	columns := make([]*Column, 0, len(a.order))
	for _, col := range a.order {
		switch a.kinds[col] {
		case Numeric:
			values := make([]float64, len(data))
			for i, d := range data {
				values[i] = a.nums[col](d)
			}
			columns = append(columns, NewNumericColumn(col, values))
		case Categorical:
			values := make([]string, len(data))
			for i, d := range data {
				values[i] = a.strs[col](d)
			}
			columns = append(columns, NewCategoricalColumn(col, values))
		}
	}
	return NewTable(name, columns...)
}
