package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/dexboard/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("view", "pie").Debug("view computed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pie", entry["view"])
	assert.Equal(t, "view computed", entry["msg"])
}

func TestNewTextDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewErrors(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud"}, nil)
	assert.Error(t, err)

	_, err = New(config.LoggingConfig{Format: "xml"}, nil)
	assert.Error(t, err)
}
