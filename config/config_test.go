package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "127.0.0.1:1997", c.ListenAddr())
	assert.Equal(t, 10, c.Table.MaxRows)
	assert.Equal(t, "Attack", c.Defaults.X)
	assert.Len(t, c.EngineOptions(), 4)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dexboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: Gen 1 only
dataset: /data/pokemon.csv
listen:
  port: 8050
table:
  max_rows: 25
histogram:
  bins: 20
palette: ["#111111", "#222222"]
defaults:
  measure: Speed
logging:
  level: debug
  format: json
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Gen 1 only", c.Title)
	assert.Equal(t, "/data/pokemon.csv", c.Dataset)
	assert.Equal(t, "127.0.0.1:8050", c.ListenAddr())
	assert.Equal(t, 25, c.Table.MaxRows)
	assert.Equal(t, 20, c.Histogram.Bins)
	assert.Equal(t, []string{"#111111", "#222222"}, c.Palette)
	assert.Equal(t, "Speed", c.Defaults.Measure)
	assert.Equal(t, "Attack", c.Defaults.X, "unset keys keep their default")
	assert.Equal(t, "json", c.Logging.Format)
	assert.True(t, c.Metrics.Enabled)
}

func TestLoadEmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	tests := map[string]string{
		"bad yaml":     "listen: [",
		"port":         "listen: {port: 70000}",
		"max rows":     "table: {max_rows: 0}",
		"bins":         "histogram: {bins: -1}",
		"palette":      `palette: ["red"]`,
		"log format":   "logging: {format: xml}",
		"empty source": `dataset: ""`,
	}
	for name, doc := range tests {
		_, err := Parse([]byte(doc), nil)
		assert.Error(t, err, name)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	c, err := Parse(data, nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
