package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.New(os.Stdout).With().Timestamp().Str("service", "socialty-api").Logger()

// Init configures the global logger. Development gets pretty console output,
// everything else machine-readable JSON.
func Init(env string) {
	var w io.Writer = os.Stdout
	if env == "development" || env == "dev" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", "socialty-api").
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
}

// Get returns the global logger.
func Get() *zerolog.Logger {
	return &zlog
}

// WithUserID returns a logger annotated with a user_id field.
func WithUserID(userID string) zerolog.Logger {
	return zlog.With().Str("user_id", userID).Logger()
}
