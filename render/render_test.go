package render

import (
	"bytes"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/dexboard/engine"
	"github.com/spektr-org/dexboard/helpers"
	"github.com/spektr-org/dexboard/logging"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleDataset(t *testing.T) *engine.Dataset {
	t.Helper()
	ds, err := helpers.LoadFile("../testdata/pokemon_sample.csv", helpers.WithLogger(logging.Discard()))
	require.NoError(t, err)
	return ds
}

func TestPNGEveryChartView(t *testing.T) {
	ds := sampleDataset(t)

	specs := map[string]engine.ViewSpec{
		"scatter":   {View: engine.ViewScatter, Hue: "Legendary"},
		"bar":       {View: engine.ViewCategorical, PlotKind: engine.PlotBar},
		"box":       {View: engine.ViewCategorical, PlotKind: engine.PlotBox},
		"violin":    {View: engine.ViewCategorical, PlotKind: engine.PlotViolin, Hue: "Legendary"},
		"pie":       {View: engine.ViewPie},
		"pie sum":   {View: engine.ViewPie, Category: "Legendary", Estimator: "Sum", Column: "Speed"},
		"histogram": {View: engine.ViewHistogram, Column: "Defense"},
		"by group":  {View: engine.ViewHistogram, Category: "Legendary", Column: "Defense"},
	}

	for name, spec := range specs {
		result, err := engine.Execute(spec, ds)
		require.NoError(t, err, name)

		var buf bytes.Buffer
		require.NoError(t, PNG(&buf, result.ChartConfig, Size{Width: 640, Height: 400}), name)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), name)
	}
}

func TestPNGDefaultSize(t *testing.T) {
	cfg := &engine.ChartConfig{
		ChartType: engine.PlotBar,
		Series: []engine.ChartSeries{{
			Name: "Total",
			Data: []engine.ChartPoint{{Label: "1", Value: 300}, {Label: "2", Value: engine.Number(math.NaN())}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, cfg, Size{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestPNGErrors(t *testing.T) {
	var buf bytes.Buffer

	assert.ErrorIs(t, PNG(&buf, nil, DefaultSize), ErrNoData)

	err := PNG(&buf, &engine.ChartConfig{ChartType: "sunburst"}, DefaultSize)
	assert.True(t, errors.Is(err, ErrUnsupported))

	empty := &engine.ChartConfig{
		ChartType: "pie",
		Series: []engine.ChartSeries{{
			Data: []engine.ChartPoint{{Label: "A", Value: 0}, {Label: "B", Value: engine.Number(math.NaN())}},
		}},
	}
	assert.ErrorIs(t, PNG(&buf, empty, DefaultSize), ErrNoData)

	assert.ErrorIs(t, PNG(&buf, &engine.ChartConfig{ChartType: "scatter"}, DefaultSize), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestColorOf(t *testing.T) {
	c := colorOf("#FF0000")
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)

	assert.Equal(t, colorOf("bogus"), colorOf(""))
}
