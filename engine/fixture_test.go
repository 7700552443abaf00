package engine

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST FIXTURES
// ============================================================================

type pokemon struct {
	Number     int
	Name       string
	Type1      string
	Total      float64
	HP         float64
	Attack     float64
	Defense    float64
	Speed      float64
	Generation int
	Legendary  bool
}

const (
	fixtureRows      = 800
	fixtureLegendary = 65
)

// syntheticPokemon generates a deterministic 800-row roster with 65
// legendaries spread over six generations and a handful of very fast rows.
func syntheticPokemon() []pokemon {
	types := []string{"Grass", "Fire", "Water", "Bug", "Normal", "Psychic"}
	out := make([]pokemon, fixtureRows)
	for i := range out {
		p := pokemon{
			Number:     i + 1,
			Name:       fmt.Sprintf("Mon%03d", i+1),
			Type1:      types[(i/3)%len(types)],
			HP:         float64(30 + (i*17)%90),
			Attack:     float64(40 + (i*37)%120),
			Defense:    float64(30 + (i*53)%140),
			Speed:      float64(5 + (i*29)%150),
			Generation: (i/7)%6 + 1,
			Legendary:  i%12 == 7 && i < 780,
		}
		if i%100 == 50 {
			p.Speed = 300
		}
		p.Total = p.HP + p.Attack + p.Defense + p.Speed + 150
		if p.Legendary {
			p.Total += 200
		}
		out[i] = p
	}
	return out
}

var pokemonAdapter = NewTableAdapter[pokemon]().
	Numeric("#", func(p pokemon) float64 { return float64(p.Number) }).
	Categorical("Name", func(p pokemon) string { return p.Name }).
	Categorical("Type 1", func(p pokemon) string { return p.Type1 }).
	Numeric("Total", func(p pokemon) float64 { return p.Total }).
	Numeric("HP", func(p pokemon) float64 { return p.HP }).
	Numeric("Attack", func(p pokemon) float64 { return p.Attack }).
	Numeric("Defense", func(p pokemon) float64 { return p.Defense }).
	Numeric("Speed", func(p pokemon) float64 { return p.Speed }).
	Numeric("Generation", func(p pokemon) float64 { return float64(p.Generation) }).
	Categorical("Legendary", func(p pokemon) string {
		if p.Legendary {
			return "True"
		}
		return "False"
	})

func pokemonTable(t *testing.T) *Table {
	t.Helper()
	table, err := pokemonAdapter.Build("pokemon", syntheticPokemon())
	require.NoError(t, err)
	return table
}

func pokemonDataset(t *testing.T) *Dataset {
	t.Helper()
	return NewDataset("pokemon", pokemonTable(t), PokemonDefaults())
}

// smallTable has one obvious outlier (100) in group B.
func smallTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable("small",
		NewCategoricalColumn("Group", []string{"A", "A", "A", "A", "A", "B", "B", "B", "B", "B"}),
		NewNumericColumn("Value", []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 100}),
		NewNumericColumn("Rank", []float64{10, 9, 2, 10, 9, 2, 10, 9, 2, 1}),
	)
	require.NoError(t, err)
	return table
}

// twoPass is the textbook mean / sample standard deviation, used to check
// the streaming implementation.
func twoPass(values []float64) (mean, sd float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var ss float64
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(ss / float64(len(values)-1))
}
