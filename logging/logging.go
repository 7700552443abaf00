// Package logging builds the process logger from configuration.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/spektr-org/dexboard/config"
)

// New returns a logger writing to out (stderr when nil) at the configured
// level and format.
func New(c config.LoggingConfig, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(out)

	level := c.Level
	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "logging")
	}
	logger.SetLevel(parsed)

	switch strings.ToLower(c.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		return nil, errors.Errorf("logging: unknown format %q", c.Format)
	}
	return logger, nil
}

// Discard is a logger that drops everything, for commands whose output is
// the data itself.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
