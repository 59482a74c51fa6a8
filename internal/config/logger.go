package config

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger returns a structured logger writing to stderr with the given
// prefix. The level comes from RASTER_LOG_LEVEL (debug, info, warn, error)
// and defaults to info.
func NewLogger(prefix string) *log.Logger {
	return newLogger(os.Stderr, prefix, GetEnv("RASTER_LOG_LEVEL", "info"))
}

func newLogger(w io.Writer, prefix, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
