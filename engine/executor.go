package engine

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ============================================================================
// EXECUTOR — Dispatcher for one dashboard view
// ============================================================================
// Entry point: Execute(spec, dataset, opts...)
//
// Pipeline:
//   1. Fill unset selections from the dataset defaults
//   2. Apply filters → sub-view (histogram reads the whole table)
//   3. Dispatch to builder (table / scatter / categorical / pie / histogram)
//   4. Return Result
//
// Nothing is cached between calls: every request recomputes from the table.
// ============================================================================

// LabelColumn names the column scatter markers are labelled with, when the
// dataset has it.
const LabelColumn = "Name"

// Execute runs a ViewSpec against a Dataset and returns a render-ready
// Result. Selection errors wrap ErrInvalidSelection.
func Execute(spec ViewSpec, ds *Dataset, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	if ds == nil || ds.Table == nil {
		return nil, errors.New("execute: no dataset loaded")
	}

	spec = NormalizeViewSpec(spec, ds)
	logger := cfg.Logger.WithFields(logrus.Fields{
		"view":    spec.View,
		"dataset": ds.Name,
	})

	view := ds.Table.All()
	if spec.View != ViewHistogram {
		filtered, err := ApplyFilters(view, spec.Filters)
		if err != nil {
			return nil, err
		}
		if filtered.Len() != view.Len() {
			logger.Debugf("%d rows after filtering (from %d)", filtered.Len(), view.Len())
		}
		view = filtered
	}

	result := &Result{Success: true, Type: "chart", Spec: spec}

	switch spec.View {
	case ViewTable:
		result.Type = "table"
		result.Title = spec.Title
		result.TableData = BuildDataTable(view, cfg.MaxRows, spec.Title)

	case ViewScatter:
		x, y, hue, err := lookupColumns(ds.Table, spec.X, spec.Y, spec.Hue)
		if err != nil {
			return nil, err
		}
		if !x.IsNumeric() || !y.IsNumeric() {
			return nil, errors.Wrapf(ErrInvalidSelection,
				"scatter needs numeric axes, got %q (%s) and %q (%s)", x.Name(), x.Kind(), y.Name(), y.Kind())
		}
		var label *Column
		if c, err := ds.Table.Column(LabelColumn); err == nil {
			label = c
		}
		result.ChartConfig = BuildScatter(view, x, y, hue, label, opts...)

	case ViewCategorical:
		x, y, hue, err := lookupColumns(ds.Table, spec.X, spec.Y, spec.Hue)
		if err != nil {
			return nil, err
		}
		chart, err := BuildCategorical(view, spec.PlotKind, x, y, hue, opts...)
		if err != nil {
			return nil, err
		}
		result.ChartConfig = chart

	case ViewPie:
		est, err := ParseEstimator(spec.Estimator)
		if err != nil {
			return nil, err
		}
		column := spec.Column
		if !est.NeedsColumn() {
			column = ""
		}
		chart, err := BuildPie(view, spec.Category, column, est, opts...)
		if err != nil {
			return nil, err
		}
		controls := ControlsFor(est)
		result.Controls = &controls
		result.ChartConfig = chart

	case ViewHistogram:
		chart, err := BuildHistogram(ds.Table, spec.Category, spec.Column, opts...)
		if err != nil {
			return nil, err
		}
		result.ChartConfig = chart

	default:
		return nil, errors.Wrapf(ErrInvalidSelection, "unknown view %q", spec.View)
	}

	if result.ChartConfig != nil {
		result.Title = spec.Title
		result.ChartConfig.Title = spec.Title
	}

	logger.WithField("rows", view.Len()).Debug("view computed")
	return result, nil
}

// ============================================================================
// VIEWSPEC NORMALIZATION
// ============================================================================

// NormalizeViewSpec fills unset selections from the dataset defaults so
// that an empty spec reproduces the dashboard's initial state.
func NormalizeViewSpec(spec ViewSpec, ds *Dataset) ViewSpec {
	d := ds.Defaults
	spec.View = ViewKind(strings.ToLower(strings.TrimSpace(string(spec.View))))
	if spec.View == "" {
		spec.View = ViewTable
	}

	switch spec.View {
	case ViewScatter:
		spec.X = orDefault(spec.X, d.X)
		spec.Y = orDefault(spec.Y, d.Y)
		spec.Hue = orDefault(spec.Hue, d.Hue)

	case ViewCategorical:
		spec.PlotKind = strings.ToLower(orDefault(spec.PlotKind, PlotBar))
		spec.X = orDefault(spec.X, d.Group)
		spec.Y = orDefault(spec.Y, d.Measure)
		spec.Hue = orDefault(spec.Hue, d.Hue)

	case ViewPie:
		spec.Category = orDefault(spec.Category, d.Group)
		spec.Estimator = orDefault(spec.Estimator, Count.String())
		spec.Column = orDefault(spec.Column, d.Measure)

	case ViewHistogram:
		spec.Category = orDefault(spec.Category, CategoryAll)
		spec.Column = orDefault(spec.Column, d.Measure)
	}

	if spec.Title == "" {
		spec.Title = defaultTitle(spec)
	}
	return spec
}

func defaultTitle(spec ViewSpec) string {
	switch spec.View {
	case ViewTable:
		return "Data Table"
	case ViewScatter:
		return fmt.Sprintf("%s vs %s", spec.Y, spec.X)
	case ViewCategorical:
		return fmt.Sprintf("%s by %s (%s)", spec.Y, spec.X, Capitalize(spec.PlotKind))
	case ViewPie:
		est, err := ParseEstimator(spec.Estimator)
		if err != nil || !est.NeedsColumn() {
			return fmt.Sprintf("Count by %s", spec.Category)
		}
		return fmt.Sprintf("%s by %s", LabelForEstimator(est, spec.Column), spec.Category)
	case ViewHistogram:
		if spec.Category == CategoryAll {
			return fmt.Sprintf("%s distribution", spec.Column)
		}
		return fmt.Sprintf("%s distribution by %s", spec.Column, spec.Category)
	}
	return ""
}

// ============================================================================
// INTERNAL HELPERS
// ============================================================================

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func lookupColumns(t *Table, x, y, hue string) (*Column, *Column, *Column, error) {
	xc, err := t.Column(x)
	if err != nil {
		return nil, nil, nil, err
	}
	yc, err := t.Column(y)
	if err != nil {
		return nil, nil, nil, err
	}
	hc, err := t.Column(hue)
	if err != nil {
		return nil, nil, nil, err
	}
	return xc, yc, hc, nil
}
