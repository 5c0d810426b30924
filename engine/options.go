package engine

import (
	"io"

	"github.com/sirupsen/logrus"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Derive()
// ============================================================================

// Option configures derivation behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger    logrus.FieldLogger
	Overwrite bool // target may replace an existing column
}

// WithLogger sends a debug trace of each derivation to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithoutOverwrite makes Derive fail with ErrColumnExists instead of
// replacing a column that already has the target name.
func WithoutOverwrite() Option {
	return func(c *config) {
		c.Overwrite = false
	}
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}()

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger:    discardLogger,
		Overwrite: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
