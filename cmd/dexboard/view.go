package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	kingpin "github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"

	"github.com/spektr-org/dexboard/engine"
	"github.com/spektr-org/dexboard/render"
)

var (
	viewCommand = app.Command("view", "Compute one dashboard view and print it.")
	viewFormat  = viewCommand.Flag("format", "Output format: json, pretty or csv.").
			Default("pretty").Enum("json", "pretty", "csv")
	viewOut = viewCommand.Flag("out", "Write output to file instead of stdout.").Short('o').String()

	renderCommand = app.Command("render", "Render one chart view as PNG.")
	renderOut     = renderCommand.Flag("out", "PNG file to write.").Short('o').Required().String()
	renderWidth   = renderCommand.Flag("width", "Image width in pixels.").Default("800").Int()
	renderHeight  = renderCommand.Flag("height", "Image height in pixels.").Default("500").Int()

	viewFlags   = addViewFlags(viewCommand)
	renderFlags = addViewFlags(renderCommand)
)

// viewSpecFlags are the dashboard controls, shared by view and render.
type viewSpecFlags struct {
	view, plotKind, category, estimator, column *string
	x, y, hue, title                            *string
	filters                                     *[]string
}

func addViewFlags(cmd *kingpin.CmdClause) *viewSpecFlags {
	return &viewSpecFlags{
		view:      cmd.Arg("view", "table, scatter, categorical, pie or histogram.").Default("table").String(),
		plotKind:  cmd.Flag("plot-kind", "bar, box or violin (categorical).").String(),
		category:  cmd.Flag("category", "Grouping column (pie, histogram).").String(),
		estimator: cmd.Flag("estimator", "Pie estimator.").Short('e').String(),
		column:    cmd.Flag("column", "Value column (pie, histogram).").String(),
		x:         cmd.Flag("x", "X column.").String(),
		y:         cmd.Flag("y", "Y column.").String(),
		hue:       cmd.Flag("hue", "Colour column.").String(),
		title:     cmd.Flag("title", "Chart title.").String(),
		filters:   cmd.Flag("filter", "Keep rows where COLUMN=VALUE; repeatable.").Short('f').Strings(),
	}
}

func (self *viewSpecFlags) spec() (engine.ViewSpec, error) {
	spec := engine.ViewSpec{
		View:      engine.ViewKind(*self.view),
		PlotKind:  *self.plotKind,
		Category:  *self.category,
		Estimator: *self.estimator,
		Column:    *self.column,
		X:         *self.x,
		Y:         *self.y,
		Hue:       *self.hue,
		Title:     *self.title,
	}
	for _, f := range *self.filters {
		column, value, ok := strings.Cut(f, "=")
		if !ok || column == "" {
			return spec, errors.Errorf("filter %q is not COLUMN=VALUE", f)
		}
		if spec.Filters.Columns == nil {
			spec.Filters.Columns = map[string][]string{}
		}
		spec.Filters.Columns[column] = append(spec.Filters.Columns[column], value)
	}
	return spec, nil
}

func doView(flags *viewSpecFlags) (*engine.Result, error) {
	spec, err := flags.spec()
	if err != nil {
		return nil, err
	}
	c, err := loadConfig()
	if err != nil {
		return nil, err
	}
	ds, logger, err := loadDataset(c)
	if err != nil {
		return nil, err
	}
	return engine.Execute(spec, ds, append(c.EngineOptions(), engine.WithLogger(logger))...)
}

func doRender() error {
	result, err := doView(renderFlags)
	if err != nil {
		return err
	}
	if result.ChartConfig == nil {
		return errors.Wrapf(render.ErrUnsupported, "%s view has no chart", result.Spec.View)
	}

	var buf bytes.Buffer
	size := render.Size{Width: *renderWidth, Height: *renderHeight}
	if err := render.PNG(&buf, result.ChartConfig, size); err != nil {
		return err
	}
	return os.WriteFile(*renderOut, buf.Bytes(), 0o644)
}

// ============================================================================
// CSV OUTPUT — chart and table data ready for a spreadsheet
// ============================================================================

func writeCSV(w io.Writer, result *engine.Result) error {
	cw := csv.NewWriter(w)

	switch {
	case result.TableData != nil:
		writeTableCSV(cw, result.TableData)
	case result.ChartConfig != nil:
		writeChartCSV(cw, result.ChartConfig)
	default:
		cw.Write([]string{"Result", "No data"})
	}

	cw.Flush()
	return cw.Error()
}

func writeTableCSV(cw *csv.Writer, table *engine.TableData) {
	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	cw.Write(headers)
	for _, row := range table.Rows {
		cw.Write(row)
	}
}

func writeChartCSV(cw *csv.Writer, chart *engine.ChartConfig) {
	xLabel := chart.XAxis
	yLabel := chart.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}

	switch {
	case len(chart.Series) > 0 && len(chart.Series[0].Points) > 0:
		cw.Write([]string{"Series", engine.LabelColumn, xLabel, yLabel})
		for _, s := range chart.Series {
			for _, p := range s.Points {
				cw.Write([]string{s.Name, p.Label, fmtNum(p.X), fmtNum(p.Y)})
			}
		}

	case len(chart.Series) > 0 && len(chart.Series[0].Distributions) > 0:
		cw.Write([]string{"Series", xLabel, "Count", "Q1", "Median", "Q3"})
		for _, s := range chart.Series {
			for _, d := range s.Distributions {
				cw.Write([]string{s.Name, d.Label, fmt.Sprint(len(d.Values)),
					fmtNum(float64(d.Box.Q1)), fmtNum(float64(d.Box.Median)), fmtNum(float64(d.Box.Q3))})
			}
		}

	default:
		// Label + one column per series; every series shares the labels.
		headers := []string{xLabel}
		for _, s := range chart.Series {
			name := s.Name
			if s.Group != "" {
				name = s.Group + " " + s.Name
			}
			headers = append(headers, name)
		}
		cw.Write(headers)

		if len(chart.Series) == 0 {
			return
		}
		for i, d := range chart.Series[0].Data {
			row := []string{d.Label}
			for _, s := range chart.Series {
				if i < len(s.Data) {
					row = append(row, fmtNum(float64(s.Data[i].Value)))
				} else {
					row = append(row, "")
				}
			}
			cw.Write(row)
		}
	}
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return errors.Wrap(err, "marshal output")
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// ============================================================================
// HELPERS
// ============================================================================

func fmtNum(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func outputWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create output file")
	}
	return f, f.Close, nil
}

func init() {
	commandHandlers = append(commandHandlers, func(command string) bool {
		switch command {
		case viewCommand.FullCommand():
			result, err := doView(viewFlags)
			kingpin.FatalIfError(err, "view")

			w, closer, err := outputWriter(*viewOut)
			kingpin.FatalIfError(err, "view")
			if *viewFormat == "csv" {
				err = writeCSV(w, result)
			} else {
				err = writeJSON(w, result, *viewFormat)
			}
			kingpin.FatalIfError(err, "view")
			kingpin.FatalIfError(closer(), "view")

		case renderCommand.FullCommand():
			kingpin.FatalIfError(doRender(), "render")

		default:
			return false
		}
		return true
	})
}
