package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/spektr-org/derive/internal/config"
)

// NewLogger builds a logrus logger from cfg. Output goes to out, or to
// stderr when out is nil, so stdout stays free for command results.
func NewLogger(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stderr
	}

	log := logrus.New()
	if strings.EqualFold(cfg.Format, "JSON") {
		log.Formatter = &logrus.JSONFormatter{DisableTimestamp: cfg.DisableTimestamp}
	} else {
		log.Formatter = &logrus.TextFormatter{DisableTimestamp: cfg.DisableTimestamp}
	}
	log.Level = level
	log.Out = out
	return log, nil
}
