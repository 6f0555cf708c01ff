// Package logger builds the zerolog logger shared by every component.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a structured logger writing JSON to stdout, tagged with the
// service name. Set CONSOLE_LOG=1 for human-readable output during local
// development.
func New(service string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var logger zerolog.Logger
	if os.Getenv("CONSOLE_LOG") != "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.With().Timestamp().Str("service", service).Logger()
}
