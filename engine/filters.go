package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Categorical Column Filtering via View
// ============================================================================
// Single-pass filter: checks ALL column constraints per row in one loop.
// Returns a sub-view (row indices) — zero data copy.
// ============================================================================

// ApplyFilters returns the rows of view matching all column filters.
// Columns are AND-combined; values within a column are OR-combined and
// compared case-insensitively against the cell's display text.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view View, filters Filters) (View, error) {
	if filters.IsEmpty() {
		return view, nil
	}

	type constraint struct {
		column *Column
		set    map[string]bool
	}

	var constraints []constraint
	for name, allowed := range filters.Columns {
		if len(allowed) == 0 {
			continue
		}
		c, err := view.table.Column(name)
		if err != nil {
			return View{}, err
		}
		constraints = append(constraints, constraint{column: c, set: toLowerSet(allowed)})
	}

	positions := make([]int, 0, view.Len())
	for i, row := range view.rows {
		pass := true
		for _, con := range constraints {
			if !con.set[strings.ToLower(con.column.Text(row))] {
				pass = false
				break
			}
		}
		if pass {
			positions = append(positions, i)
		}
	}

	return newSubView(view, positions), nil
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
