package engine

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a View + selected columns
// ============================================================================
// One builder per dashboard tab. Builders never touch the browser: they
// emit series a plotting collaborator can draw as-is.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Scatter colours per hue value, in sorted hue order.
var defaultHueColors = []string{"#000000", "#FCE63D"}

const outlierColor = "#EF4444"

var defaultMargin = Margin{L: 40, B: 40, T: 10, R: 10}

// ============================================================================
// SCATTER
// ============================================================================

// BuildScatter plots y against x with one series per hue value. label,
// when non-nil, names each marker (e.g. the Pokémon's name).
func BuildScatter(view View, x, y, hue, label *Column, opts ...Option) *ChartConfig {
	cfg := applyOptions(opts)
	groups := GroupBy(view, hue)

	series := make([]ChartSeries, 0, len(groups))
	for i, g := range groups {
		points := make([]XYPoint, 0, g.View.Len())
		for _, row := range g.View.rows {
			p := XYPoint{X: x.Number(row), Y: y.Number(row)}
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				continue
			}
			if label != nil {
				p.Label = label.Text(row)
			}
			points = append(points, p)
		}
		series = append(series, ChartSeries{
			Name:   g.Key.Label,
			Color:  cfg.HueColors[i%len(cfg.HueColors)],
			Marker: &Marker{Size: 10, LineWidth: 0.5, LineColor: "white"},
			Points: points,
		})
	}

	return &ChartConfig{
		ChartType:  "scatter",
		XAxis:      x.Name(),
		YAxis:      y.Name(),
		Series:     series,
		Colors:     seriesColors(series),
		ShowLegend: true,
		ShowGrid:   true,
		Layout:     Layout{HoverMode: "closest", Margin: defaultMargin},
	}
}

// ============================================================================
// CATEGORICAL — bar / box / violin
// ============================================================================

// BuildCategorical plots y per x group, one series per hue value. bar
// shows the average; box and violin carry the full distribution.
func BuildCategorical(view View, kind string, x, y, hue *Column, opts ...Option) (*ChartConfig, error) {
	cfg := applyOptions(opts)
	switch kind {
	case PlotBar, PlotBox, PlotViolin:
	default:
		return nil, errors.Wrapf(ErrInvalidSelection, "unknown plot kind %q", kind)
	}
	if !y.IsNumeric() {
		return nil, errors.Wrapf(ErrInvalidSelection, "column %q is not numeric", y.Name())
	}

	xKeys := UniqueValues(view, x)
	hueGroups := GroupBy(view, hue)

	series := make([]ChartSeries, 0, len(hueGroups))
	for i, hg := range hueGroups {
		byX := make(map[string]View)
		for _, g := range GroupBy(hg.View, x) {
			byX[g.Key.Label] = g.View
		}

		s := ChartSeries{
			Name:  hg.Key.Label,
			Color: cfg.Palette[i%len(cfg.Palette)],
		}
		for _, key := range xKeys {
			sub, ok := byX[key.Label]
			var values []float64
			if ok {
				values = sub.Numbers(y)
			}
			if kind == PlotBar {
				s.Data = append(s.Data, ChartPoint{Label: key.Label, Value: Number(Average.Apply(values))})
				continue
			}
			d := Distribution{Label: key.Label, Values: values, Box: BoxPlot(values)}
			if kind == PlotViolin {
				d.Density = KernelDensity(values, DensitySamples)
			}
			s.Distributions = append(s.Distributions, d)
		}
		series = append(series, s)
	}

	return &ChartConfig{
		ChartType:  kind,
		XAxis:      x.Name(),
		YAxis:      y.Name() + " Stat",
		Series:     series,
		Colors:     seriesColors(series),
		ShowLegend: true,
		ShowGrid:   true,
		Layout: Layout{
			HoverMode:  "closest",
			BoxMode:    "group",
			ViolinMode: "group",
			BarMode:    "group",
			Margin:     defaultMargin,
		},
	}, nil
}

// ============================================================================
// PIE
// ============================================================================

// BuildPie reduces value per category with the estimator. Slices keep
// sorted key order.
func BuildPie(view View, category, value string, est Estimator, opts ...Option) (*ChartConfig, error) {
	cfg := applyOptions(opts)
	aggs, err := AggregateView(view, category, value, est)
	if err != nil {
		return nil, err
	}

	points := make([]ChartPoint, 0, len(aggs))
	for _, a := range aggs {
		points = append(points, ChartPoint{Label: a.Key.Label, Value: Number(a.Value)})
	}

	return &ChartConfig{
		ChartType: "pie",
		Series: []ChartSeries{{
			Name:   LabelForEstimator(est, value),
			Marker: &Marker{LineWidth: 2, LineColor: "black"},
			Data:   points,
		}},
		Colors:     assignColors(len(points), cfg.Palette),
		ShowLegend: true,
		Layout: Layout{
			TextInfo:  "value",
			HoverInfo: "label+percent",
			Sort:      false,
			Margin:    defaultMargin,
		},
	}, nil
}

// ============================================================================
// HISTOGRAM
// ============================================================================

// BuildHistogram bins value into normal and outlier series per category.
// Bin edges and the ±2σ band come from the whole table, so every group is
// drawn on the same axis.
func BuildHistogram(t *Table, category, value string, opts ...Option) (*ChartConfig, error) {
	cfg := applyOptions(opts)
	column, err := t.NumericColumn(value)
	if err != nil {
		return nil, err
	}

	var band Band
	var splits []GroupSplit
	if category == "" || category == CategoryAll {
		split, err := SplitOutliers(t, value)
		if err != nil {
			return nil, err
		}
		band = split.Band
		splits = []GroupSplit{{
			Key:      GroupKey{Label: CategoryAll},
			Normal:   split.Normal,
			Outliers: split.Outliers,
		}}
	} else {
		band, splits, err = SplitOutliersByGroup(t, category, value)
		if err != nil {
			return nil, err
		}
	}

	edges := BinEdges(t.All().Numbers(column), cfg.BinCount)
	labels := binLabels(edges)

	series := make([]ChartSeries, 0, 2*len(splits))
	for i, s := range splits {
		series = append(series,
			histogramSeries("Normal", s.Key.Label, cfg.Palette[i%len(cfg.Palette)],
				BinCounts(s.Normal.Numbers(column), edges), labels),
			histogramSeries("Outlier", s.Key.Label, outlierColor,
				BinCounts(s.Outliers.Numbers(column), edges), labels),
		)
	}

	return &ChartConfig{
		ChartType:  "histogram",
		XAxis:      column.Name(),
		YAxis:      "Count",
		Series:     series,
		Colors:     seriesColors(series),
		ShowLegend: true,
		ShowGrid:   true,
		Layout:     Layout{BarMode: "overlay", HoverMode: "closest", Margin: defaultMargin},
		BinEdges:   edges,
		Band:       &band,
	}, nil
}

func histogramSeries(name, group, color string, counts []int, labels []string) ChartSeries {
	points := make([]ChartPoint, len(counts))
	for i, c := range counts {
		points[i] = ChartPoint{Label: labels[i], Value: Number(c)}
	}
	return ChartSeries{Name: name, Group: group, Color: color, Data: points}
}

func binLabels(edges []float64) []string {
	if len(edges) < 2 {
		return nil
	}
	labels := make([]string, len(edges)-1)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s–%s", FormatNumber(RoundTo2(edges[i])), FormatNumber(RoundTo2(edges[i+1])))
	}
	return labels
}

// ============================================================================
// HELPERS
// ============================================================================

func seriesColors(series []ChartSeries) []string {
	colors := make([]string, len(series))
	for i, s := range series {
		colors[i] = s.Color
	}
	return colors
}

func assignColors(count int, palette []string) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
