package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Level  string
	Format string
	App    string
	Env    string
}

// New constructs a zerolog logger. Defaults to JSON at info level on stdout.
func New(opts Options) zerolog.Logger {
	return NewWithWriter(opts, os.Stdout)
}

func NewWithWriter(opts Options, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level))); err == nil && opts.Level != "" {
		level = parsed
	}

	if strings.ToLower(strings.TrimSpace(opts.Format)) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", opts.App).
		Str("env", opts.Env).
		Logger()
}
