// Package render draws engine chart descriptions as PNG images.
package render

import (
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/dexboard/engine"
)

// Size is the output image size in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize fits a dashboard tab.
var DefaultSize = Size{Width: 800, Height: 500}

// ErrUnsupported is returned for chart types with no PNG rendering.
var ErrUnsupported = errors.New("unsupported chart type")

// ErrNoData is returned when a chart has nothing to draw (e.g. every pie
// slice is zero).
var ErrNoData = errors.New("chart has no data to draw")

// PNG renders cfg into w.
func PNG(w io.Writer, cfg *engine.ChartConfig, size Size) error {
	if cfg == nil {
		return ErrNoData
	}
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}

	var r interface {
		Render(rp chart.RendererProvider, w io.Writer) error
	}
	var err error

	switch cfg.ChartType {
	case "scatter":
		r, err = scatter(cfg, size)
	case engine.PlotBar, engine.PlotBox, engine.PlotViolin:
		r, err = categorical(cfg, size)
	case "pie":
		r, err = pie(cfg, size)
	case "histogram":
		r, err = histogram(cfg, size)
	default:
		return errors.Wrapf(ErrUnsupported, "%q", cfg.ChartType)
	}
	if err != nil {
		return err
	}

	if err := r.Render(chart.PNG, w); err != nil {
		return errors.Wrapf(err, "render %s", cfg.ChartType)
	}
	return nil
}

// ============================================================================
// SCATTER
// ============================================================================

func scatter(cfg *engine.ChartConfig, size Size) (*chart.Chart, error) {
	var series []chart.Series
	var xs, ys []float64
	for _, s := range cfg.Series {
		if len(s.Points) == 0 {
			continue
		}
		sx := make([]float64, len(s.Points))
		sy := make([]float64, len(s.Points))
		for i, p := range s.Points {
			sx[i], sy[i] = p.X, p.Y
		}
		xs, ys = append(xs, sx...), append(ys, sy...)
		color := colorOf(s.Color)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: sx,
			YValues: sy,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    dotWidth(s.Marker),
				DotColor:    color,
				StrokeColor: color,
			},
		})
	}
	if len(series) == 0 {
		return nil, ErrNoData
	}

	ch := &chart.Chart{
		Title:      cfg.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: cfg.XAxis, Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: cfg.YAxis, Range: paddedRange(ys)},
		Series:     series,
	}
	if cfg.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(ch)}
	}
	return ch, nil
}

// paddedRange widens the data range by 5% on each side, and by one unit
// when every value is equal (go-chart refuses a zero-width axis).
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func dotWidth(m *engine.Marker) float64 {
	if m == nil || m.Size <= 0 {
		return 4
	}
	return float64(m.Size) / 2
}

// ============================================================================
// BARS — categorical, histogram
// ============================================================================

// categorical flattens grouped bars into one bar per (x, hue). Box and
// violin plots are drawn as their medians.
func categorical(cfg *engine.ChartConfig, size Size) (*chart.BarChart, error) {
	var bars []chart.Value
	for _, s := range cfg.Series {
		style := barStyle(s.Color)
		for _, p := range s.Data {
			bars = appendBar(bars, barLabel(p.Label, s.Name), float64(p.Value), style)
		}
		for _, d := range s.Distributions {
			bars = appendBar(bars, barLabel(d.Label, s.Name), float64(d.Box.Median), style)
		}
	}
	return barChart(cfg, size, bars)
}

// histogram stacks the normal and outlier counts of every group into one
// bar per bin. A bin holding any outlier is drawn in the outlier colour.
func histogram(cfg *engine.ChartConfig, size Size) (*chart.BarChart, error) {
	var labels []string
	totals := map[string]float64{}
	outliers := map[string]bool{}
	outlierColor := ""

	for _, s := range cfg.Series {
		for _, p := range s.Data {
			if _, seen := totals[p.Label]; !seen {
				labels = append(labels, p.Label)
			}
			totals[p.Label] += float64(p.Value)
			if s.Name == "Outlier" && p.Value > 0 {
				outliers[p.Label] = true
				outlierColor = s.Color
			}
		}
	}

	normal := barStyle(firstColor(cfg))
	var bars []chart.Value
	for _, label := range labels {
		style := normal
		if outliers[label] {
			style = barStyle(outlierColor)
		}
		bars = appendBar(bars, label, totals[label], style)
	}
	return barChart(cfg, size, bars)
}

func barChart(cfg *engine.ChartConfig, size Size, bars []chart.Value) (*chart.BarChart, error) {
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	// Fit every bar in the canvas; go-chart's default spacing assumes a
	// handful of bars.
	slot := (size.Width - 120) / len(bars)
	if slot < 3 {
		slot = 3
	}
	barWidth := slot * 2 / 3

	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if lo == hi {
		return nil, ErrNoData
	}

	return &chart.BarChart{
		Title:      cfg.Title,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth,
		BarSpacing: slot - barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Name:  cfg.YAxis,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}, nil
}

// appendBar skips empty partitions (NaN) rather than drawing them as zero.
func appendBar(bars []chart.Value, label string, v float64, style chart.Style) []chart.Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return bars
	}
	return append(bars, chart.Value{Label: label, Value: v, Style: style})
}

func barLabel(x, hue string) string {
	if hue == "" {
		return x
	}
	return x + " " + hue
}

func barStyle(hex string) chart.Style {
	c := colorOf(hex)
	return chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}

// ============================================================================
// PIE
// ============================================================================

func pie(cfg *engine.ChartConfig, size Size) (*chart.PieChart, error) {
	if len(cfg.Series) == 0 {
		return nil, ErrNoData
	}

	var values []chart.Value
	for i, p := range cfg.Series[0].Data {
		v := float64(p.Value)
		if math.IsNaN(v) || v <= 0 {
			continue
		}
		style := chart.Style{}
		if i < len(cfg.Colors) {
			style = barStyle(cfg.Colors[i])
		}
		values = append(values, chart.Value{Label: p.Label, Value: v, Style: style})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	return &chart.PieChart{
		Title:  cfg.Title,
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}, nil
}

// ============================================================================
// COLOURS
// ============================================================================

func colorOf(hex string) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 && len(hex) != 3 {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(hex)
}

func firstColor(cfg *engine.ChartConfig) string {
	for _, s := range cfg.Series {
		if s.Name != "Outlier" && s.Color != "" {
			return s.Color
		}
	}
	return ""
}
