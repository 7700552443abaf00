package engine

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableValidation(t *testing.T) {
	_, err := NewTable("empty")
	assert.Error(t, err)

	_, err = NewTable("no rows", NewNumericColumn("A", nil))
	assert.Error(t, err)

	_, err = NewTable("ragged",
		NewNumericColumn("A", []float64{1, 2}),
		NewCategoricalColumn("B", []string{"x"}))
	assert.Error(t, err)

	_, err = NewTable("dup",
		NewNumericColumn("A", []float64{1}),
		NewCategoricalColumn("A", []string{"x"}))
	assert.Error(t, err)
}

func TestTableColumnLookup(t *testing.T) {
	table, err := NewTable("t",
		NewNumericColumn("Sp. Atk", []float64{65, 80}),
		NewCategoricalColumn("Type 1", []string{"Grass", "Fire"}))
	require.NoError(t, err)

	c, err := table.Column("Sp. Atk")
	require.NoError(t, err)
	assert.Equal(t, "sp_atk", c.Key())

	c, err = table.Column("sp_atk")
	require.NoError(t, err)
	assert.Equal(t, "Sp. Atk", c.Name())

	_, err = table.Column("Sp. Def")
	assert.True(t, errors.Is(err, ErrInvalidSelection))

	_, err = table.NumericColumn("Type 1")
	assert.True(t, errors.Is(err, ErrInvalidSelection))

	assert.Equal(t, []string{"Sp. Atk", "Type 1"}, table.ColumnNames())
	assert.Equal(t, 2, table.Len())
}

func TestColumnAccessors(t *testing.T) {
	num := NewNumericColumn("n", []float64{45, 1.5, math.NaN()})
	assert.Equal(t, "45", num.Text(0))
	assert.Equal(t, "1.5", num.Text(1))
	assert.Equal(t, "NaN", num.Text(2))
	assert.True(t, math.IsNaN(num.Number(7)))

	cat := NewCategoricalColumn("c", []string{"True"})
	assert.True(t, math.IsNaN(cat.Number(0)))
	assert.Equal(t, "True", cat.Text(0))
	assert.Equal(t, "", cat.Text(1))
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"Sp. Atk":    "sp_atk",
		"Type 1":     "type_1",
		"#":          "",
		" Legendary": "legendary",
		"HP":         "hp",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeKey(in), in)
	}
}

func TestViewNumbersSkipsMissing(t *testing.T) {
	table, err := NewTable("t", NewNumericColumn("v", []float64{1, math.NaN(), 3}))
	require.NoError(t, err)
	c, _ := table.Column("v")
	assert.Equal(t, []float64{1, 3}, table.All().Numbers(c))
}

func TestFilters(t *testing.T) {
	table := pokemonTable(t)

	legendary, err := ApplyFilters(table.All(), Filters{Columns: map[string][]string{"Legendary": {"true"}}})
	require.NoError(t, err)
	assert.Equal(t, fixtureLegendary, legendary.Len())

	both, err := ApplyFilters(table.All(), Filters{Columns: map[string][]string{
		"Legendary":  {"True"},
		"Generation": {"1", "2"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 28, both.Len())

	all, err := ApplyFilters(table.All(), Filters{Columns: map[string][]string{"Legendary": {}}})
	require.NoError(t, err)
	assert.Equal(t, fixtureRows, all.Len())

	_, err = ApplyFilters(table.All(), Filters{Columns: map[string][]string{"Colour": {"red"}}})
	assert.True(t, errors.Is(err, ErrInvalidSelection))

	assert.True(t, Filters{}.IsEmpty())
	assert.False(t, Filters{}.HasFilter("Legendary"))
}

func TestTableAdapterBuild(t *testing.T) {
	type row struct {
		Name  string
		Speed float64
	}
	table, err := NewTableAdapter[row]().
		Categorical("Name", func(r row) string { return r.Name }).
		Numeric("Speed", func(r row) float64 { return r.Speed }).
		Build("rows", []row{{"Pikachu", 90}, {"Shuckle", 5}})
	require.NoError(t, err)

	speed, err := table.NumericColumn("Speed")
	require.NoError(t, err)
	assert.Equal(t, []float64{90, 5}, table.All().Numbers(speed))
}
