package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration
type Config struct {
	Level  string
	Pretty bool
	Output io.Writer
}

// Setup configures the global zerolog logger used across the service and
// returns it. Unknown levels fall back to info.
func Setup(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(level)

	l := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "hyperlocal-booking").
		Logger()

	log.Logger = l
	return l
}
