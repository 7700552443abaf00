// Package config loads the dashboard's YAML configuration.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/dexboard/engine"
)

const (
	DefaultPort    = 1997
	DefaultMaxRows = 10
)

// Config is the on-disk configuration. Every field has a default so an
// empty file (or no file) is valid.
type Config struct {
	Title   string `yaml:"title"`
	Dataset string `yaml:"dataset"`

	Listen    ListenConfig    `yaml:"listen"`
	Table     TableConfig     `yaml:"table"`
	Histogram HistogramConfig `yaml:"histogram"`
	Palette   []string        `yaml:"palette,omitempty"`
	HueColors []string        `yaml:"hue_colors,omitempty"`
	Defaults  engine.Defaults `yaml:"defaults"`

	// Columns forced categorical even when they hold numbers.
	Categorical []string `yaml:"categorical,omitempty"`

	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ListenConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

type TableConfig struct {
	MaxRows int `yaml:"max_rows"`
}

type HistogramConfig struct {
	// 0 picks the bin count with Sturges' rule.
	Bins int `yaml:"bins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Title:   "Pokémon Dashboard",
		Dataset: "Pokemon.csv",
		Listen: ListenConfig{
			Address: "127.0.0.1",
			Port:    DefaultPort,
		},
		Table:    TableConfig{MaxRows: DefaultMaxRows},
		Defaults: engine.PokemonDefaults(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data, config)
}

// Parse decodes YAML over base (usually Default()).
func Parse(data []byte, base *Config) (*Config, error) {
	if base == nil {
		base = Default()
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks ranges and enums.
func (self *Config) Validate() error {
	if self.Dataset == "" {
		return errors.New("config: dataset path is required")
	}
	if self.Listen.Port < 0 || self.Listen.Port > 65535 {
		return errors.Errorf("config: listen.port %d out of range", self.Listen.Port)
	}
	if self.Table.MaxRows < 1 {
		return errors.Errorf("config: table.max_rows must be positive, got %d", self.Table.MaxRows)
	}
	if self.Histogram.Bins < 0 {
		return errors.Errorf("config: histogram.bins must not be negative, got %d", self.Histogram.Bins)
	}
	for _, c := range append(append([]string(nil), self.Palette...), self.HueColors...) {
		if !hexColor.MatchString(c) {
			return errors.Errorf("config: %q is not a #RRGGBB colour", c)
		}
	}
	switch strings.ToLower(self.Logging.Format) {
	case "", "text", "json":
	default:
		return errors.Errorf("config: unknown logging.format %q", self.Logging.Format)
	}
	return nil
}

// ListenAddr is the host:port the server binds.
func (self *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", self.Listen.Address, self.Listen.Port)
}

// EngineOptions translates the config into engine options.
func (self *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithMaxRows(self.Table.MaxRows),
		engine.WithBinCount(self.Histogram.Bins),
		engine.WithPalette(self.Palette),
		engine.WithHueColors(self.HueColors),
	}
}

// Marshal renders the effective configuration as YAML.
func (self *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(self)
}
