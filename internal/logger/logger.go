// Package logger sets up the process-wide zerolog logger.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var Logger = log.Logger

type Config struct {
	Level      string
	Format     string // "json" or "pretty"
	TimeFormat string
}

// Init configures the global logger. Unknown levels fall back to info.
func Init(config Config) {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	var output io.Writer = os.Stdout
	if config.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Logger = Logger
	zerolog.DefaultContextLogger = &Logger
}

// WithRequestID returns a context carrying a child logger tagged with id.
func WithRequestID(ctx context.Context, id string) context.Context {
	l := Logger.With().Str("request_id", id).Logger()
	return l.WithContext(ctx)
}
