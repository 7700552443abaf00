package helpers

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/spektr-org/dexboard/engine"
	"github.com/spektr-org/dexboard/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into an engine.Table
// ============================================================================
// The caller reads the CSV from wherever it lives; this helper turns the
// raw bytes into typed columns using the schema. Unlike discovery, loading
// is strict: a ragged row or a non-numeric cell in a numeric column is an
// error naming the row and column.
// ============================================================================

// ParseCSV parses CSV bytes into a Table using sch for column kinds.
// Headers the schema does not describe are skipped.
func ParseCSV(data []byte, sch schema.Config) (*engine.Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV headers")
	}
	reader.FieldsPerRecord = len(headers)

	type colMapping struct {
		index  int
		header string
		meta   schema.ColumnMeta
	}

	var mappings []colMapping
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		var meta schema.ColumnMeta
		if i < len(sch.Columns) && sch.Columns[i].Header == h {
			meta = sch.Columns[i]
		} else if found, ok := sch.Lookup(h); ok {
			meta = found
		} else {
			continue
		}
		mappings = append(mappings, colMapping{index: i, header: h, meta: meta})
	}
	if len(mappings) == 0 {
		return nil, errors.Errorf("no CSV header matches schema %q", sch.Name)
	}

	numbers := make([][]float64, len(mappings))
	texts := make([][]string, len(mappings))

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", line)
		}

		for j, m := range mappings {
			val := strings.TrimSpace(row[m.index])
			if !m.meta.IsNumeric() {
				texts[j] = append(texts[j], val)
				continue
			}
			if schema.IsNull(val) {
				numbers[j] = append(numbers[j], math.NaN())
				continue
			}
			f, ok := schema.ParseNumber(val)
			if !ok {
				return nil, errors.Errorf("row %d, column %q: %q is not a number", line, m.header, val)
			}
			numbers[j] = append(numbers[j], f)
		}
	}

	columns := make([]*engine.Column, len(mappings))
	for j, m := range mappings {
		if m.meta.IsNumeric() {
			columns[j] = engine.NewNumericColumn(m.header, numbers[j])
		} else {
			columns[j] = engine.NewCategoricalColumn(m.header, texts[j])
		}
	}

	table, err := engine.NewTable(sch.Name, columns...)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %q", sch.Name)
	}
	return table, nil
}

// ParseCSVAuto parses CSV without a pre-existing schema. Every row is
// inspected so the discovered kinds match what the loader will see.
func ParseCSVAuto(data []byte, opts ...schema.DiscoverOptions) (*engine.Table, *schema.Config, error) {
	opt := schema.DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	opt.SampleSize = 0

	sch, err := schema.DiscoverFromCSV(data, opt)
	if err != nil {
		return nil, nil, err
	}
	table, err := ParseCSV(data, *sch)
	if err != nil {
		return nil, nil, err
	}
	return table, sch, nil
}

// ============================================================================
// DATASET LOADING
// ============================================================================

// LoadOption configures LoadFile and LoadBytes.
type LoadOption func(*loadConfig)

type loadConfig struct {
	name        string
	defaults    engine.Defaults
	categorical []string
	logger      logrus.FieldLogger
}

// WithName overrides the dataset name (default: file name without extension).
func WithName(name string) LoadOption {
	return func(c *loadConfig) { c.name = name }
}

// WithDefaults sets the columns each view starts from.
func WithDefaults(d engine.Defaults) LoadOption {
	return func(c *loadConfig) { c.defaults = d }
}

// WithCategorical forces columns to be categorical even when they hold numbers.
func WithCategorical(columns ...string) LoadOption {
	return func(c *loadConfig) { c.categorical = append(c.categorical, columns...) }
}

// WithLogger routes load logging to logger.
func WithLogger(logger logrus.FieldLogger) LoadOption {
	return func(c *loadConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// LoadFile reads and parses a CSV file into a Dataset.
func LoadFile(path string, opts ...LoadOption) (*engine.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load dataset")
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadBytes(data, append([]LoadOption{WithName(name)}, opts...)...)
}

// LoadBytes parses CSV bytes into a Dataset.
func LoadBytes(data []byte, opts ...LoadOption) (*engine.Dataset, error) {
	cfg := &loadConfig{
		name:     "dataset",
		defaults: engine.PokemonDefaults(),
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	table, sch, err := ParseCSVAuto(data, schema.DiscoverOptions{
		Name:        cfg.name,
		Categorical: cfg.categorical,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "load dataset %q", cfg.name)
	}

	ds := engine.NewDataset(cfg.name, table, cfg.defaults)
	cfg.logger.WithFields(logrus.Fields{
		"dataset": cfg.name,
		"rows":    table.Len(),
		"numeric": len(sch.NumericKeys()),
		"columns": len(sch.Columns),
	}).Info("Dataset loaded")
	return ds, nil
}
