package engine

import (
	"encoding/json"
	"math"
)

// ============================================================================
// OUTLIERS — ±2σ band split
// ============================================================================
// The band is always computed from the full table's column, never from a
// subset. SplitOutliersByGroup applies that one global band to each group;
// a group's own mean/σ is never consulted.
// ============================================================================

// BandWidth is the half-width of the outlier band in standard deviations.
const BandWidth = 2.0

// Band is the closed interval [Mean − 2σ, Mean + 2σ].
type Band struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Mean   Number `json:"mean"`
		StdDev Number `json:"stdDev"`
		Lower  Number `json:"lower"`
		Upper  Number `json:"upper"`
	}{Number(b.Mean), Number(b.StdDev), Number(b.Lower), Number(b.Upper)})
}

// Contains reports whether v is a normal (non-outlier) value.
func (b Band) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// ComputeBand derives the band from values using the sample standard
// deviation.
func ComputeBand(values []float64) Band {
	w := welfordOf(values)
	mean, sd := w.Mean(), w.SampleSD()
	return Band{
		Mean:   mean,
		StdDev: sd,
		Lower:  mean - BandWidth*sd,
		Upper:  mean + BandWidth*sd,
	}
}

// Split is a partition of rows into normal and outlier views.
type Split struct {
	Band     Band `json:"band"`
	Normal   View `json:"-"`
	Outliers View `json:"-"`
}

// GroupSplit is the normal/outlier partition of one group.
type GroupSplit struct {
	Key      GroupKey
	Normal   View
	Outliers View
}

// SplitOutliers partitions every row of the table by the band of
// valueColumn. The two views are disjoint, their union is every row, and
// both keep table order.
func SplitOutliers(t *Table, valueColumn string) (Split, error) {
	value, err := t.NumericColumn(valueColumn)
	if err != nil {
		return Split{}, err
	}

	all := t.All()
	band := ComputeBand(all.Numbers(value))
	normal, outliers := splitView(all, value, band)
	return Split{Band: band, Normal: normal, Outliers: outliers}, nil
}

// SplitOutliersByGroup partitions rows by groupColumn, then splits each
// group with the band computed over the whole table.
//
// TODO: groups probably want their own band; the dashboard has always used
// the global one, so changing it changes every histogram by category.
func SplitOutliersByGroup(t *Table, groupColumn, valueColumn string) (Band, []GroupSplit, error) {
	group, err := t.Column(groupColumn)
	if err != nil {
		return Band{}, nil, err
	}
	value, err := t.NumericColumn(valueColumn)
	if err != nil {
		return Band{}, nil, err
	}

	all := t.All()
	band := ComputeBand(all.Numbers(value))

	groups := GroupBy(all, group)
	out := make([]GroupSplit, 0, len(groups))
	for _, g := range groups {
		normal, outliers := splitView(g.View, value, band)
		out = append(out, GroupSplit{Key: g.Key, Normal: normal, Outliers: outliers})
	}
	return band, out, nil
}

// splitView sends NaN cells to the normal side; they have no position
// relative to the band and must not be dropped from the union.
func splitView(view View, value *Column, band Band) (View, View) {
	normal := make([]int, 0, view.Len())
	var outliers []int
	for i, row := range view.rows {
		v := value.Number(row)
		if math.IsNaN(v) || band.Contains(v) {
			normal = append(normal, i)
		} else {
			outliers = append(outliers, i)
		}
	}
	return newSubView(view, normal), newSubView(view, outliers)
}
