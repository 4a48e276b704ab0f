package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger writing to stdout.
// APP_ENV=dev (or development) uses a human-friendly console writer and
// enables debug output; LOG_LEVEL overrides the level in any env.
func NewLogger(env string) zerolog.Logger { return NewLoggerTo(os.Stdout, env) }

// NewLoggerTo is NewLogger with another sink; the CLI logs to stderr so
// stdout stays clean for rendered output.
func NewLoggerTo(w io.Writer, env string) zerolog.Logger {
	if w != os.Stdout && w != os.Stderr {
		w = zerolog.SyncWriter(w)
	}
	l := zerolog.New(w).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if env == "dev" || env == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}
	if lv, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil && lv != zerolog.NoLevel {
		l = l.Level(lv)
	}
	return l
}
