package commands

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Environment variables providing the defaults of the logging flags.
const (
	EnvLogLevel  = "ENUMDISPATCH_LOG_LEVEL"
	EnvLogFormat = "ENUMDISPATCH_LOG_FORMAT"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newLogger builds the logger of the command line tool. Logs go to w, never
// to the stream carrying generated code. An unknown level falls back to
// info.
func newLogger(w io.Writer, levelStr, format string) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if format == "console" {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(w).With().Timestamp().Logger()
	}
	logger = logger.Level(level)

	if err != nil {
		logger.Warn().Str("level", levelStr).Msg("unknown log level, using info")
	}
	return logger
}
