package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// logger fields
const (
	COMPONENT = "component"
	ID        = "id"
	URL       = "url"
	NETWORK   = "network"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New returns the process logger. Local environments get a human-readable
// console writer, everything else emits JSON lines.
func New(appEnv, level string) zerolog.Logger {
	var w io.Writer = os.Stderr
	if appEnv == "local" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return NewWithWriter(w, level)
}

// NewWithWriter builds a logger on w, falling back to info for an unknown level
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Component returns a child logger tagged with component=name
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(COMPONENT, name).Logger()
}
