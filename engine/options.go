package engine

import (
	"github.com/sirupsen/logrus"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	MaxRows   int      // rows shown by the data table view
	BinCount  int      // histogram bins; 0 = Sturges
	Palette   []string // series colours for multi-series charts
	HueColors []string // scatter colours per hue value
	Logger    logrus.FieldLogger
}

// WithMaxRows sets how many rows the data table view shows.
func WithMaxRows(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.MaxRows = n
		}
	}
}

// WithBinCount fixes the histogram bin count instead of Sturges' rule.
func WithBinCount(n int) Option {
	return func(c *config) {
		c.BinCount = n
	}
}

// WithPalette replaces the default series colours.
func WithPalette(colors []string) Option {
	return func(c *config) {
		if len(colors) > 0 {
			c.Palette = colors
		}
	}
}

// WithHueColors replaces the scatter colours (one per hue value).
func WithHueColors(colors []string) Option {
	return func(c *config) {
		if len(colors) > 0 {
			c.HueColors = colors
		}
	}
}

// WithLogger routes engine logging to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		MaxRows:   10,
		Palette:   defaultColors,
		HueColors: defaultHueColors,
		Logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
