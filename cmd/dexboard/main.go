package main

import (
	"os"

	kingpin "github.com/alecthomas/kingpin/v2"
	"github.com/sirupsen/logrus"

	"github.com/spektr-org/dexboard/config"
	"github.com/spektr-org/dexboard/engine"
	"github.com/spektr-org/dexboard/helpers"
	"github.com/spektr-org/dexboard/logging"
)

// ============================================================================
// DEXBOARD CLI — Pokémon stats dashboard
// ============================================================================

// CommandHandler runs command if it owns it and reports whether it did.
type CommandHandler func(command string) bool

var (
	app = kingpin.New("dexboard",
		"Interactive dashboard over the Pokémon stats dataset.")

	configPath = app.Flag("config", "The configuration file.").Short('c').
			Envar("DEXBOARD_CONFIG").String()

	datasetFlag = app.Flag("dataset", "CSV file to load (overrides the config).").
			Short('d').String()

	verboseFlag = app.Flag("verbose", "Enable debug logging.").Short('v').
			Default("false").Bool()

	commandHandlers []CommandHandler
)

// loadConfig applies the global flags over the configuration file.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *datasetFlag != "" {
		c.Dataset = *datasetFlag
	}
	if *verboseFlag {
		c.Logging.Level = "debug"
	}
	return c, nil
}

// loadDataset reads the configured CSV. Logging goes to stderr so stdout
// stays clean for data.
func loadDataset(c *config.Config) (*engine.Dataset, *logrus.Logger, error) {
	logger, err := logging.New(c.Logging, os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	ds, err := helpers.LoadFile(c.Dataset,
		helpers.WithDefaults(c.Defaults),
		helpers.WithCategorical(c.Categorical...),
		helpers.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return ds, logger, nil
}

func main() {
	app.HelpFlag.Short('h')
	app.UsageTemplate(kingpin.CompactUsageTemplate)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	for _, handler := range commandHandlers {
		if handler(command) {
			break
		}
	}
}
