package engine

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// AGGREGATION TESTS
// ============================================================================

func TestAggregateByCountCoversEveryRow(t *testing.T) {
	table := pokemonTable(t)

	for _, column := range []string{"Legendary", "Generation", "Type 1"} {
		aggs, err := AggregateBy(table, column, "", Count)
		require.NoError(t, err, column)

		total := 0.0
		for _, a := range aggs {
			total += a.Value
			assert.Equal(t, float64(a.Count), a.Value, "%s=%s", column, a.Key.Label)
		}
		assert.Equal(t, float64(fixtureRows), total, column)
	}
}

func TestAggregateByLegendaryCounts(t *testing.T) {
	aggs, err := AggregateBy(pokemonTable(t), "Legendary", "", Count)
	require.NoError(t, err)

	got := map[string]float64{}
	var order []string
	for _, a := range aggs {
		got[a.Key.Label] = a.Value
		order = append(order, a.Key.Label)
	}
	assert.Equal(t, []string{"False", "True"}, order)
	assert.Equal(t, map[string]float64{
		"False": fixtureRows - fixtureLegendary,
		"True":  fixtureLegendary,
	}, got)
}

func TestAggregateByNumericKeysSortNumerically(t *testing.T) {
	aggs, err := AggregateBy(smallTable(t), "Rank", "", Count)
	require.NoError(t, err)

	var labels []string
	for _, a := range aggs {
		labels = append(labels, a.Key.Label)
	}
	assert.Equal(t, []string{"1", "2", "9", "10"}, labels)
}

func TestAggregateByNaNKeysSortLast(t *testing.T) {
	nan := math.NaN()
	table, err := NewTable("gens", NewNumericColumn("Generation",
		[]float64{3, nan, 1, 5, nan, 2, 4, 6, 1, 3}))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		aggs, err := AggregateBy(table, "Generation", "", Count)
		require.NoError(t, err)

		var labels []string
		for _, a := range aggs {
			labels = append(labels, a.Key.Label)
		}
		require.Equal(t, []string{"1", "2", "3", "4", "5", "6", "NaN"}, labels)
		assert.Equal(t, 2, aggs[6].Count)
	}
}

func TestAggregateByGenerationKeys(t *testing.T) {
	aggs, err := AggregateBy(pokemonTable(t), "Generation", "Total", Average)
	require.NoError(t, err)

	var labels []string
	for _, a := range aggs {
		labels = append(labels, a.Key.Label)
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, labels)
}

func TestAggregateByEstimators(t *testing.T) {
	table := smallTable(t)

	type row struct {
		Key   string
		Value float64
		Count int
	}
	flatten := func(aggs []Aggregate) []row {
		out := make([]row, len(aggs))
		for i, a := range aggs {
			out[i] = row{a.Key.Label, a.Value, a.Count}
		}
		return out
	}

	tests := []struct {
		est  Estimator
		want []row
	}{
		{Count, []row{{"A", 5, 5}, {"B", 5, 5}}},
		{Sum, []row{{"A", 50, 5}, {"B", 140, 5}}},
		{Average, []row{{"A", 10, 5}, {"B", 28, 5}}},
		{StandardDeviation, []row{{"A", 0, 5}, {"B", 36, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.est.String(), func(t *testing.T) {
			aggs, err := AggregateBy(table, "Group", "Value", tt.est)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, flatten(aggs)); diff != "" {
				t.Errorf("AggregateBy mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAggregateByInvalidSelection(t *testing.T) {
	table := pokemonTable(t)

	_, err := AggregateBy(table, "Colour", "", Count)
	assert.True(t, errors.Is(err, ErrInvalidSelection), "unknown group column: %v", err)

	_, err = AggregateBy(table, "Generation", "Weight", Sum)
	assert.True(t, errors.Is(err, ErrInvalidSelection), "unknown value column: %v", err)

	_, err = AggregateBy(table, "Generation", "Name", Average)
	assert.True(t, errors.Is(err, ErrInvalidSelection), "categorical value column: %v", err)
}

func TestAggregateViewEmptyPartition(t *testing.T) {
	table := smallTable(t)
	view, err := ApplyFilters(table.All(), Filters{Columns: map[string][]string{"Group": {"C"}}})
	require.NoError(t, err)

	aggs, err := AggregateView(view, "Group", "Value", Average)
	require.NoError(t, err)
	assert.Empty(t, aggs)
}

func TestAggregateJSONEncodesNaNAsNull(t *testing.T) {
	a := Aggregate{Key: GroupKey{Label: "A"}, Value: math.NaN(), Count: 0}
	b, err := a.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"A","value":null,"count":0}`, string(b))
}

func TestGroupByKeepsViewOrder(t *testing.T) {
	table := smallTable(t)
	group, err := table.Column("Group")
	require.NoError(t, err)

	groups := GroupBy(table.All(), group)
	require.Len(t, groups, 2)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, groups[0].View.Rows())
	assert.Equal(t, []int{5, 6, 7, 8, 9}, groups[1].View.Rows())
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "Violin", Capitalize("violin"))
	assert.Equal(t, "1,234,567", FormatInt(1234567))
	assert.Equal(t, "Count", LabelForEstimator(Count, "Total"))
	assert.Equal(t, "Average of Total", LabelForEstimator(Average, "Total"))
}
