package engine

import (
	"encoding/json"
	"math"

	"github.com/Velocidex/ordereddict"
	"github.com/pkg/errors"
)

// ============================================================================
// DEXBOARD ENGINE TYPES
// ============================================================================
// The engine is pure: every function takes the Table (or a Dataset wrapping
// it) explicitly and returns fresh values. Nothing here is global or cached.
// ============================================================================

// ErrInvalidSelection marks a request that names an unknown column, view,
// plot kind or estimator. Callers test for it with errors.Is.
var ErrInvalidSelection = errors.New("invalid selection")

// ============================================================================
// DATASET — Read-only context injected into executor and server
// ============================================================================

// Dataset is the loaded table plus the column roles the dashboard uses by
// default. It is created once at startup and never mutated.
type Dataset struct {
	Name     string
	Table    *Table
	Defaults Defaults
}

// Defaults names the columns each view starts from.
type Defaults struct {
	X        string   `json:"x" yaml:"x"`
	Y        string   `json:"y" yaml:"y"`
	Hue      string   `json:"hue" yaml:"hue"`
	Group    string   `json:"group" yaml:"group"`
	Measure  string   `json:"measure" yaml:"measure"`
	Excluded []string `json:"excluded" yaml:"excluded"` // numeric columns hidden from pie/histogram dropdowns
}

// PokemonDefaults mirrors the original dashboard layout.
func PokemonDefaults() Defaults {
	return Defaults{
		X:        "Attack",
		Y:        "Defense",
		Hue:      "Legendary",
		Group:    "Generation",
		Measure:  "Total",
		Excluded: []string{"#", "Generation"},
	}
}

// NewDataset binds a table to defaults. Default columns the table does not
// have are replaced by the first suitable column so generic CSVs still work.
func NewDataset(name string, table *Table, defaults Defaults) *Dataset {
	ds := &Dataset{Name: name, Table: table, Defaults: defaults}
	ds.Defaults.X = fallbackColumn(table, defaults.X, Numeric, 0)
	ds.Defaults.Y = fallbackColumn(table, defaults.Y, Numeric, 1)
	ds.Defaults.Measure = fallbackColumn(table, defaults.Measure, Numeric, 0)
	ds.Defaults.Hue = fallbackColumn(table, defaults.Hue, Categorical, 0)
	ds.Defaults.Group = fallbackAnyColumn(table, defaults.Group)
	return ds
}

func fallbackColumn(t *Table, name string, kind Kind, nth int) string {
	if c, err := t.Column(name); err == nil && c.Kind() == kind {
		return c.Name()
	}
	var matches []string
	for _, c := range t.columns {
		if c.kind == kind {
			matches = append(matches, c.name)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	if nth < len(matches) {
		return matches[nth]
	}
	return matches[0]
}

func fallbackAnyColumn(t *Table, name string) string {
	if c, err := t.Column(name); err == nil {
		return c.Name()
	}
	return fallbackColumn(t, "", Categorical, 0)
}

// ============================================================================
// GROUPS & AGGREGATES
// ============================================================================

// GroupKey is one distinct value of a grouping column.
type GroupKey struct {
	Label   string  `json:"label"`
	Number  float64 `json:"-"`
	Numeric bool    `json:"-"`
}

// Less orders numeric keys numerically and categorical keys lexically.
// NaN sorts after every number.
func (k GroupKey) Less(other GroupKey) bool {
	if k.Numeric && other.Numeric {
		if kn, on := math.IsNaN(k.Number), math.IsNaN(other.Number); kn || on {
			return !kn && on
		}
		return k.Number < other.Number
	}
	return k.Label < other.Label
}

// Group is the rows of a view sharing one key.
type Group struct {
	Key  GroupKey
	View View
}

// Aggregate is one (group key, scalar) pair of AggregateBy.
type Aggregate struct {
	Key   GroupKey `json:"key"`
	Value float64  `json:"value"`
	Count int      `json:"count"`
}

func (a Aggregate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key   string `json:"key"`
		Value Number `json:"value"`
		Count int    `json:"count"`
	}{a.Key.Label, Number(a.Value), a.Count})
}

// Number is a float64 that encodes NaN and ±Inf as JSON null so an empty
// partition never breaks chart serialisation.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// Filters restrict categorical column values.
// OR within a column, AND across columns. Empty = all.
type Filters struct {
	Columns map[string][]string `json:"columns"`
}

// HasFilter returns true if a specific column filter is set.
func (f Filters) HasFilter(column string) bool {
	if f.Columns == nil {
		return false
	}
	vals, ok := f.Columns[column]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Columns {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// VIEW SPEC — One dashboard interaction
// ============================================================================

// ViewKind names a dashboard tab.
type ViewKind string

const (
	ViewTable       ViewKind = "table"
	ViewScatter     ViewKind = "scatter"
	ViewCategorical ViewKind = "categorical"
	ViewPie         ViewKind = "pie"
	ViewHistogram   ViewKind = "histogram"
)

// ViewKinds lists the tabs in dashboard order.
func ViewKinds() []ViewKind {
	return []ViewKind{ViewTable, ViewScatter, ViewCategorical, ViewPie, ViewHistogram}
}

// Categorical plot kinds.
const (
	PlotBar    = "bar"
	PlotBox    = "box"
	PlotViolin = "violin"
)

// CategoryAll disables grouping in the histogram view.
const CategoryAll = "All"

// ViewSpec is the full set of dropdown selections for one view.
type ViewSpec struct {
	View      ViewKind `json:"view"`
	PlotKind  string   `json:"plotKind,omitempty"`  // bar, box, violin
	Category  string   `json:"category,omitempty"`  // pie / histogram grouping column
	Estimator string   `json:"estimator,omitempty"` // pie estimator label
	Column    string   `json:"column,omitempty"`    // pie / histogram value column
	X         string   `json:"x,omitempty"`
	Y         string   `json:"y,omitempty"`
	Hue       string   `json:"hue,omitempty"`
	Filters   Filters  `json:"filters"`
	Title     string   `json:"title,omitempty"`
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output.
type Result struct {
	Success bool     `json:"success"`
	Type    string   `json:"type"` // "chart", "table"
	Title   string   `json:"title"`
	Spec    ViewSpec `json:"spec"`

	// Exactly one of these is populated based on Type:
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
	TableData   *TableData   `json:"tableData,omitempty"`

	Controls *Controls `json:"controls,omitempty"`
	Errors   []string  `json:"errors,omitempty"`
}

// Controls is the enabled/disabled state of dependent dropdowns.
type Controls struct {
	ColumnDisabled bool `json:"columnDisabled"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig describes a chart for an external plotting collaborator.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
	Layout     Layout        `json:"layout"`

	// Histogram only.
	BinEdges []float64 `json:"binEdges,omitempty"`
	Band     *Band     `json:"band,omitempty"`
}

// Layout carries display hints that do not change the data.
type Layout struct {
	HoverMode  string `json:"hoverMode,omitempty"`
	BoxMode    string `json:"boxMode,omitempty"`
	ViolinMode string `json:"violinMode,omitempty"`
	BarMode    string `json:"barMode,omitempty"`
	TextInfo   string `json:"textInfo,omitempty"`
	HoverInfo  string `json:"hoverInfo,omitempty"`
	Sort       bool   `json:"sort"`
	Margin     Margin `json:"margin"`
}

// Margin in pixels.
type Margin struct {
	L int `json:"l"`
	B int `json:"b"`
	T int `json:"t"`
	R int `json:"r"`
}

// ChartSeries is one trace. Which payload is set depends on ChartType:
// Data for bar/pie/histogram, Points for scatter, Distributions for box/violin.
type ChartSeries struct {
	Name          string         `json:"name"`
	Group         string         `json:"group,omitempty"`
	Color         string         `json:"color,omitempty"`
	Marker        *Marker        `json:"marker,omitempty"`
	Data          []ChartPoint   `json:"data,omitempty"`
	Points        []XYPoint      `json:"points,omitempty"`
	Distributions []Distribution `json:"distributions,omitempty"`
}

// Marker styles scatter points and pie slices.
type Marker struct {
	Size      int     `json:"size,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`
	LineColor string  `json:"lineColor,omitempty"`
}

// ChartPoint represents a single labelled value.
type ChartPoint struct {
	Label string `json:"label"`
	Value Number `json:"value"`
}

// XYPoint is one scatter marker.
type XYPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// Distribution is the raw values of one box/violin plus their summary.
type Distribution struct {
	Label   string         `json:"label"`
	Values  []float64      `json:"values"`
	Box     BoxStats       `json:"box"`
	Density []DensityPoint `json:"density,omitempty"`
}

// BoxStats are the components of a box-and-whisker plot.
type BoxStats struct {
	Q1           Number    `json:"q1"`
	Median       Number    `json:"median"`
	Q3           Number    `json:"q3"`
	LowerWhisker Number    `json:"lowerWhisker"`
	UpperWhisker Number    `json:"upperWhisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// DensityPoint is one sample of a kernel density estimate.
type DensityPoint struct {
	Y       float64 `json:"y"`
	Density float64 `json:"density"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title     string        `json:"title"`
	Columns   []TableColumn `json:"columns"`
	Rows      [][]string    `json:"rows"`
	TotalRows int           `json:"totalRows"`

	// Records repeats Rows keyed by column name, in column order.
	Records []*ordereddict.Dict `json:"records,omitempty"`
}

// TableColumn defines a table column.
type TableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}
