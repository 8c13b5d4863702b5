package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/ledgerlab/internal/config"
)

// New builds the process logger from config. Output goes to out, which is
// stderr for the CLI so it never mixes with ledger output.
func New(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	var formatter logrus.Formatter
	switch cfg.Format {
	case "json":
		formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		}
	default:
		formatter = &logrus.TextFormatter{DisableTimestamp: true}
	}

	return &logrus.Logger{
		Formatter: formatter,
		Out:       out,
		Hooks:     make(logrus.LevelHooks),
		Level:     level,
	}, nil
}
