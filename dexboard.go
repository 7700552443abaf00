// Package dexboard is an interactive dashboard over the Pokémon stats
// dataset.
//
// Usage:
//
//	import "github.com/spektr-org/dexboard/engine"
//
//	ds, err := helpers.LoadFile("Pokemon.csv")
//	result, err := engine.Execute(engine.ViewSpec{
//	    View:      engine.ViewPie,
//	    Category:  "Legendary",
//	    Estimator: "Sum",
//	    Column:    "Speed",
//	}, ds, engine.WithMaxRows(10))
//
// The engine takes a ViewSpec (the dashboard's control state) and a loaded
// dataset, and returns render-ready output (chart config or table data).
// The server package serves views as JSON and PNG; cmd/dexboard wraps both.
package dexboard
