package engine

// ============================================================================
// CONTROLS — Dropdown choices and dependent widget state
// ============================================================================

// Choice is one dropdown entry.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Dropdowns lists every selectable enum of the dashboard.
type Dropdowns struct {
	Views               []Choice `json:"views"`
	PlotKinds           []Choice `json:"plotKinds"`
	Categories          []Choice `json:"categories"`
	Estimators          []Choice `json:"estimators"`
	ValueColumns        []Choice `json:"valueColumns"`
	ScatterColumns      []Choice `json:"scatterColumns"`
	HistogramCategories []Choice `json:"histogramCategories"`
	Defaults            Defaults `json:"defaults"`
}

// ControlsFor returns the dependent widget state for an estimator: the
// value column is irrelevant to Count.
func ControlsFor(est Estimator) Controls {
	return Controls{ColumnDisabled: !est.NeedsColumn()}
}

// BuildDropdowns derives the dropdown choices from the dataset.
func BuildDropdowns(ds *Dataset) Dropdowns {
	d := Dropdowns{Defaults: ds.Defaults}

	for _, v := range ViewKinds() {
		d.Views = append(d.Views, Choice{Label: Capitalize(string(v)), Value: string(v)})
	}
	for _, k := range []string{PlotBar, PlotBox, PlotViolin} {
		d.PlotKinds = append(d.PlotKinds, Choice{Label: Capitalize(k), Value: k})
	}
	for _, e := range Estimators() {
		d.Estimators = append(d.Estimators, Choice{Label: e.String(), Value: e.String()})
	}

	d.HistogramCategories = append(d.HistogramCategories, Choice{Label: CategoryAll, Value: CategoryAll})
	for _, name := range uniqueNonEmpty(ds.Defaults.Group, ds.Defaults.Hue) {
		c := Choice{Label: Capitalize(name), Value: name}
		d.Categories = append(d.Categories, c)
		d.HistogramCategories = append(d.HistogramCategories, c)
	}

	excluded := make(map[string]bool, len(ds.Defaults.Excluded))
	for _, name := range ds.Defaults.Excluded {
		excluded[name] = true
	}
	for _, c := range ds.Table.columns {
		if !c.IsNumeric() {
			continue
		}
		choice := Choice{Label: c.Name(), Value: c.Name()}
		d.ScatterColumns = append(d.ScatterColumns, choice)
		if !excluded[c.Name()] {
			d.ValueColumns = append(d.ValueColumns, choice)
		}
	}

	return d
}

func uniqueNonEmpty(items ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
