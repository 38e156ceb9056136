// Package logging configures snek's structured logging on top of zerolog.
//
// Console output keeps a short timestamp and caller; json output is meant
// for files and log shippers. Every logger carries the process session id.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

func init() {
	zerolog.ErrorFieldName = "err"
}

// Config selects the minimum level and the output format (console or json).
type Config struct {
	Level  string
	Format string
}

// New builds a logger writing to w (stderr when nil) with a fresh session id.
func New(cfg Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level, zerolog.InfoLevel)).
		With().
		Timestamp().
		Str("session", uuid.NewString()).
		Logger()
}

// ParseLevel parses a level name, falling back to def for empty or unknown input.
func ParseLevel(s string, def zerolog.Level) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def
	}
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return def
	}
	return lvl
}
