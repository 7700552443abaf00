package engine

// ============================================================================
// DESCRIBE — Per-column summary statistics
// ============================================================================
// Numeric columns only. std is the sample standard deviation; quartiles
// use linear interpolation.
// ============================================================================

// ColumnSummary describes one numeric column.
type ColumnSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Number `json:"mean"`
	Std    Number `json:"std"`
	Min    Number `json:"min"`
	Q25    Number `json:"25%"`
	Q50    Number `json:"50%"`
	Q75    Number `json:"75%"`
	Max    Number `json:"max"`
}

// Describe summarises every numeric column of view, in column order.
func Describe(view View) []ColumnSummary {
	var out []ColumnSummary
	for _, c := range view.table.columns {
		if !c.IsNumeric() {
			continue
		}
		out = append(out, describeValues(c.Name(), view.Numbers(c)))
	}
	return out
}

func describeValues(name string, values []float64) ColumnSummary {
	w := welfordOf(values)
	sorted := sortedCopy(values)

	s := ColumnSummary{
		Column: name,
		Count:  len(values),
		Mean:   Number(w.Mean()),
		Std:    Number(w.SampleSD()),
		Q25:    Number(quantile(sorted, 0.25)),
		Q50:    Number(quantile(sorted, 0.5)),
		Q75:    Number(quantile(sorted, 0.75)),
	}
	if len(sorted) > 0 {
		s.Min = Number(sorted[0])
		s.Max = Number(sorted[len(sorted)-1])
	} else {
		s.Min, s.Max = s.Mean, s.Mean
	}
	return s
}
