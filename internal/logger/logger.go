package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at stdout. format is "console" for
// human-readable output, anything else for JSON lines.
func Setup(level zerolog.Level, format string) zerolog.Logger {
	log.Logger = New(os.Stdout, level, format)
	zerolog.SetGlobalLevel(level)
	return log.Logger
}

func New(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	if format == "console" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
