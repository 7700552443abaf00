package main

import (
	"fmt"
	"io"
	"os"

	kingpin "github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/spektr-org/dexboard/engine"
	"github.com/spektr-org/dexboard/schema"
)

var (
	describeCommand = app.Command("describe", "Summary statistics of every numeric column.")

	aggregateCommand   = app.Command("aggregate", "Reduce a column per group.")
	aggregateBy        = aggregateCommand.Flag("by", "Grouping column.").Default("Generation").String()
	aggregateEstimator = aggregateCommand.Flag("estimator", "Count, Sum, Average or Standard Deviation.").
				Short('e').Default("Count").String()
	aggregateColumn = aggregateCommand.Flag("column", "Value column (ignored by Count).").Default("Total").String()

	outliersCommand = app.Command("outliers", "List rows outside the mean ± 2σ band.")
	outliersColumn  = outliersCommand.Flag("column", "Numeric column.").Default("Speed").String()
	outliersBy      = outliersCommand.Flag("by", "Also count outliers per group of this column.").String()

	schemaCommand = app.Command("schema", "Print the column types discovered in the dataset.")
)

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

func doDescribe(w io.Writer, ds *engine.Dataset) {
	table := newTable(w, "column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	for _, s := range engine.Describe(ds.Table.All()) {
		table.Append([]string{
			s.Column,
			humanize.Comma(int64(s.Count)),
			fmtNum(float64(s.Mean)),
			fmtNum(float64(s.Std)),
			fmtNum(float64(s.Min)),
			fmtNum(float64(s.Q25)),
			fmtNum(float64(s.Q50)),
			fmtNum(float64(s.Q75)),
			fmtNum(float64(s.Max)),
		})
	}
	table.Render()
}

func doAggregate(w io.Writer, ds *engine.Dataset) error {
	est, err := engine.ParseEstimator(*aggregateEstimator)
	if err != nil {
		return err
	}
	aggregates, err := engine.AggregateBy(ds.Table, *aggregateBy, *aggregateColumn, est)
	if err != nil {
		return err
	}

	column := *aggregateColumn
	if !est.NeedsColumn() {
		column = ""
	}
	table := newTable(w, *aggregateBy, engine.LabelForEstimator(est, column), "rows")
	for _, a := range aggregates {
		table.Append([]string{a.Key.Label, fmtNum(a.Value), humanize.Comma(int64(a.Count))})
	}
	table.Render()
	return nil
}

func doOutliers(w io.Writer, ds *engine.Dataset) error {
	split, err := engine.SplitOutliers(ds.Table, *outliersColumn)
	if err != nil {
		return err
	}
	band := split.Band
	fmt.Fprintf(w, "%s: mean %s, sd %s, band [%s, %s]\n", *outliersColumn,
		fmtNum(band.Mean), fmtNum(band.StdDev), fmtNum(band.Lower), fmtNum(band.Upper))
	fmt.Fprintf(w, "%s of %s rows are outliers\n\n",
		humanize.Comma(int64(split.Outliers.Len())), humanize.Comma(int64(ds.Table.Len())))

	value, err := ds.Table.NumericColumn(*outliersColumn)
	if err != nil {
		return err
	}
	label, labelErr := ds.Table.Column(engine.LabelColumn)

	table := newTable(w, "row", engine.LabelColumn, value.Name())
	for _, row := range split.Outliers.Rows() {
		name := ""
		if labelErr == nil {
			name = label.Text(row)
		}
		table.Append([]string{humanize.Comma(int64(row + 1)), name, fmtNum(value.Number(row))})
	}
	table.Render()

	if *outliersBy == "" {
		return nil
	}

	// Every group is judged against the band above.
	_, groups, err := engine.SplitOutliersByGroup(ds.Table, *outliersBy, *outliersColumn)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	table = newTable(w, *outliersBy, "normal", "outliers")
	for _, g := range groups {
		table.Append([]string{g.Key.Label,
			humanize.Comma(int64(g.Normal.Len())), humanize.Comma(int64(g.Outliers.Len()))})
	}
	table.Render()
	return nil
}

func doSchema(w io.Writer, c *schema.Config) {
	table := newTable(w, "header", "key", "kind", "unique", "nulls", "cardinality", "groupable", "samples")
	for _, m := range c.Columns {
		table.Append([]string{
			m.Header, m.Key, string(m.Kind),
			humanize.Comma(int64(m.UniqueCount)), humanize.Comma(int64(m.NullCount)),
			m.CardinalityHint, fmt.Sprintf("%v", m.Groupable), fmt.Sprintf("%v", m.SampleValues),
		})
	}
	table.Render()
}

func init() {
	commandHandlers = append(commandHandlers, func(command string) bool {
		switch command {
		case describeCommand.FullCommand():
			c, err := loadConfig()
			kingpin.FatalIfError(err, "config")
			ds, _, err := loadDataset(c)
			kingpin.FatalIfError(err, "load")
			doDescribe(os.Stdout, ds)

		case aggregateCommand.FullCommand():
			c, err := loadConfig()
			kingpin.FatalIfError(err, "config")
			ds, _, err := loadDataset(c)
			kingpin.FatalIfError(err, "load")
			kingpin.FatalIfError(doAggregate(os.Stdout, ds), "aggregate")

		case outliersCommand.FullCommand():
			c, err := loadConfig()
			kingpin.FatalIfError(err, "config")
			ds, _, err := loadDataset(c)
			kingpin.FatalIfError(err, "load")
			kingpin.FatalIfError(doOutliers(os.Stdout, ds), "outliers")

		case schemaCommand.FullCommand():
			c, err := loadConfig()
			kingpin.FatalIfError(err, "config")
			data, err := os.ReadFile(c.Dataset)
			kingpin.FatalIfError(err, "read")
			sch, err := schema.DiscoverFromCSV(data, schema.DiscoverOptions{
				SampleSize:  0,
				Name:        c.Dataset,
				Categorical: c.Categorical,
			})
			kingpin.FatalIfError(err, "discover")
			doSchema(os.Stdout, sch)

		default:
			return false
		}
		return true
	})
}
