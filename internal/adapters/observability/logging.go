package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the service logger: console writer when APP_ENV is
// dev/development, JSON otherwise. LOG_LEVEL=debug|warn|error overrides
// the default info level.
func NewLogger(env string) zerolog.Logger {
	out := zerolog.New(os.Stdout)
	if env == "dev" || env == "development" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return out.Level(logLevel()).With().
		Str("service", "tripscout").
		Timestamp().
		Logger()
}

func logLevel() zerolog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
