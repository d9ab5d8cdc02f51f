package internal

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. Production writes JSON lines with
// RFC3339Nano timestamps; development writes human-readable console output.
func NewLogger(w io.Writer, env string, level string) zerolog.Logger {
	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		l = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	switch env {
	case "prod":
		zerolog.TimeFieldFormat = time.RFC3339Nano
		logger = zerolog.New(w)
	default:
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
	}

	logger = logger.Level(l).With().Timestamp().Logger()
	if err != nil {
		logger.Warn().Str("value", level).Msg("Invalid log level. Using default level: info")
	}
	return logger
}
