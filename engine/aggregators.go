package engine

import (
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ============================================================================
// AGGREGATORS — Grouping and Aggregation via View
// ============================================================================
// All functions operate on Views — zero-copy access to the shared Table.
// Grouping produces sub-views (row index lists into the table).
// ============================================================================

// AggregateBy groups the table's rows by the distinct values of
// groupColumn (sorted ascending) and reduces valueColumn with the estimator
// per group. valueColumn may be empty when the estimator is Count.
func AggregateBy(t *Table, groupColumn, valueColumn string, est Estimator) ([]Aggregate, error) {
	return AggregateView(t.All(), groupColumn, valueColumn, est)
}

// AggregateView is AggregateBy over a pre-filtered view.
func AggregateView(view View, groupColumn, valueColumn string, est Estimator) ([]Aggregate, error) {
	group, err := view.table.Column(groupColumn)
	if err != nil {
		return nil, err
	}

	var value *Column
	if est.NeedsColumn() || valueColumn != "" {
		value, err = view.table.Column(valueColumn)
		if err != nil {
			return nil, err
		}
		if est.NeedsColumn() && !value.IsNumeric() {
			return nil, errors.Wrapf(ErrInvalidSelection,
				"%s needs a numeric column, %q is %s", est, value.Name(), value.Kind())
		}
	}

	groups := GroupBy(view, group)
	out := make([]Aggregate, 0, len(groups))
	for _, g := range groups {
		out = append(out, Aggregate{
			Key:   g.Key,
			Value: reduce(g.View, value, est),
			Count: g.View.Len(),
		})
	}
	return out, nil
}

func reduce(view View, value *Column, est Estimator) float64 {
	if est == Count {
		return float64(view.Len())
	}
	return est.Apply(view.Numbers(value))
}

// ============================================================================
// GROUPING
// ============================================================================

// GroupBy partitions a view by the distinct values of column. Groups are
// sorted by key; rows inside a group keep view order.
func GroupBy(view View, column *Column) []Group {
	positions := make(map[string][]int)
	keys := make(map[string]GroupKey)

	for i, row := range view.rows {
		key := keyOf(column, row)
		if _, exists := positions[key.Label]; !exists {
			keys[key.Label] = key
		}
		positions[key.Label] = append(positions[key.Label], i)
	}

	groups := make([]Group, 0, len(keys))
	for label, key := range keys {
		groups = append(groups, Group{
			Key:  key,
			View: newSubView(view, positions[label]),
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key.Less(groups[j].Key) })
	return groups
}

func keyOf(column *Column, row int) GroupKey {
	if column.IsNumeric() {
		n := column.Number(row)
		return GroupKey{Label: FormatNumber(n), Number: n, Numeric: true}
	}
	return GroupKey{Label: column.Text(row)}
}

// UniqueValues returns the sorted distinct keys of a column across a view.
func UniqueValues(view View, column *Column) []GroupKey {
	groups := GroupBy(view, column)
	keys := make([]GroupKey, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// Capitalize turns a dropdown value into its label ("bar" → "Bar").
func Capitalize(s string) string {
	// Casers are stateful and must not be shared between goroutines.
	return cases.Title(language.English).String(s)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	return humanize.Comma(int64(n))
}

// LabelForEstimator names the y axis of an aggregated chart.
func LabelForEstimator(est Estimator, column string) string {
	if est == Count || column == "" {
		return est.String()
	}
	return est.String() + " of " + column
}
