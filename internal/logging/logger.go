// Package logging configures the process-wide logger. Console output is
// colored per the configured ColorMode; when a log file is set, a plain-text
// copy of every entry is appended to it via a hook so ANSI sequences never
// reach the file.
package logging

import (
	"os"
	"path/filepath"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	"github.com/blobcast/blobcast/internal/config"
	"github.com/blobcast/blobcast/internal/term"
)

const timestampFormat = "2006-01-02 15:04:05"

// Logger is the pipeline's leveled logger.
type Logger = logrus.Logger

// NewLogger resolves the color mode, builds a logrus logger writing to
// stdout, and attaches a file hook when cfg.LogFile is set. Level is debug
// when verbose.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat:  timestampFormat,
		FullTimestamp:    true,
		ForceColors:      term.Enabled(),
		DisableColors:    !term.Enabled(),
		QuoteEmptyFields: true,
	})

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		// Touch the file up front so a bad path fails at startup, not on
		// the first log line.
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		_ = f.Close()

		plain := &logrus.TextFormatter{
			TimestampFormat:  timestampFormat,
			FullTimestamp:    true,
			DisableColors:    true,
			QuoteEmptyFields: true,
		}
		log.AddHook(lfshook.NewHook(lfshook.PathMap{
			logrus.DebugLevel: cfg.LogFile,
			logrus.InfoLevel:  cfg.LogFile,
			logrus.WarnLevel:  cfg.LogFile,
			logrus.ErrorLevel: cfg.LogFile,
			logrus.FatalLevel: cfg.LogFile,
			logrus.PanicLevel: cfg.LogFile,
		}, plain))
	}

	return log, nil
}
