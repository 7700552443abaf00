package helpers

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/dexboard/engine"
	"github.com/spektr-org/dexboard/schema"
)

const samplePath = "../testdata/pokemon_sample.csv"

func TestLoadFilePokemonSample(t *testing.T) {
	logger, hook := test.NewNullLogger()

	ds, err := LoadFile(samplePath, WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, "pokemon_sample", ds.Name)
	assert.Equal(t, 21, ds.Table.Len())
	assert.Equal(t, engine.PokemonDefaults().X, ds.Defaults.X)
	assert.Equal(t, "Generation", ds.Defaults.Group)

	legendary, err := ds.Table.Column("Legendary")
	require.NoError(t, err)
	assert.Equal(t, engine.Categorical, legendary.Kind())

	spAtk, err := ds.Table.Column("sp_atk")
	require.NoError(t, err)
	assert.Equal(t, "Sp. Atk", spAtk.Name())
	assert.Equal(t, 65.0, spAtk.Number(0))

	type2, err := ds.Table.Column("Type 2")
	require.NoError(t, err)
	assert.Equal(t, "", type2.Text(3))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, 21, entry.Data["rows"])
}

func TestLoadedSampleAggregates(t *testing.T) {
	ds, err := LoadFile(samplePath, WithLogger(nullLogger()))
	require.NoError(t, err)

	aggs, err := engine.AggregateBy(ds.Table, "Legendary", "", engine.Count)
	require.NoError(t, err)
	require.Len(t, aggs, 2)
	assert.Equal(t, "False", aggs[0].Key.Label)
	assert.Equal(t, 14.0, aggs[0].Value)
	assert.Equal(t, 7.0, aggs[1].Value)

	aggs, err = engine.AggregateBy(ds.Table, "Generation", "", engine.Count)
	require.NoError(t, err)
	var counts []float64
	for _, a := range aggs {
		counts = append(counts, a.Value)
	}
	assert.Equal(t, []float64{10, 3, 2, 2, 2, 2}, counts)

	split, err := engine.SplitOutliers(ds.Table, "Defense")
	require.NoError(t, err)
	require.Equal(t, 1, split.Outliers.Len())
	name, _ := ds.Table.Column("Name")
	assert.Equal(t, "Shuckle", name.Text(split.Outliers.Row(0)))
	assert.InDelta(t, 81.81, split.Band.Mean, 0.01)
	assert.InDelta(t, 42.46, split.Band.StdDev, 0.01)
}

func TestParseCSVWithHandBuiltSchema(t *testing.T) {
	data := []byte("Name,Speed,Legendary,Notes\nPikachu,90,False,yellow\nShuckle,,False,slow\n")
	sch := schema.Config{
		Name: "hand",
		Columns: []schema.ColumnMeta{
			{Header: "Name", Key: "name", Kind: schema.KindCategorical},
			{Header: "Speed", Key: "speed", Kind: schema.KindNumeric},
			{Header: "Legendary", Key: "legendary", Kind: schema.KindCategorical},
		},
	}

	table, err := ParseCSV(data, sch)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Speed", "Legendary"}, table.ColumnNames())

	speed, err := table.Column("Speed")
	require.NoError(t, err)
	assert.Equal(t, 90.0, speed.Number(0))
	assert.True(t, math.IsNaN(speed.Number(1)))
}

func TestParseCSVErrors(t *testing.T) {
	sch := schema.Config{
		Name: "strict",
		Columns: []schema.ColumnMeta{
			{Header: "Name", Key: "name", Kind: schema.KindCategorical},
			{Header: "Speed", Key: "speed", Kind: schema.KindNumeric},
		},
	}

	_, err := ParseCSV([]byte("Name,Speed\nPikachu,90\nShuckle,slow\n"), sch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.Contains(t, err.Error(), `"Speed"`)

	_, err = ParseCSV([]byte("Name,Speed\nPikachu,90\nShuckle\n"), sch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")

	_, err = ParseCSV([]byte("Name,Speed\n"), sch)
	assert.Error(t, err, "a table needs at least one row")

	_, err = ParseCSV([]byte("Colour,Weight\nred,1\n"), sch)
	assert.Error(t, err)

	_, err = ParseCSV(nil, sch)
	assert.Error(t, err)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv"), WithLogger(nullLogger()))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "ragged.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n3\n"), 0o644))
	_, err = LoadFile(path, WithLogger(nullLogger()))
	assert.Error(t, err)
}

func TestLoadBytesOptions(t *testing.T) {
	ds, err := LoadBytes([]byte("Gen,Score,Kind\n1,10,a\n2,20,b\n1,30,a\n"),
		WithName("tiny"),
		WithCategorical("Gen"),
		WithDefaults(engine.Defaults{Group: "Gen", Measure: "Score", Hue: "Kind"}),
		WithLogger(nullLogger()))
	require.NoError(t, err)

	assert.Equal(t, "tiny", ds.Name)
	gen, err := ds.Table.Column("Gen")
	require.NoError(t, err)
	assert.Equal(t, engine.Categorical, gen.Kind())
	assert.Equal(t, "Score", ds.Defaults.X, "falls back to the first numeric column")
}

func nullLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}
