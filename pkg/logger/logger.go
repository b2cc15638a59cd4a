// pkg/logger/logger.go
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Log is the process-wide logger. Every daemon shares it so recalc runs,
// exports, and HTTP access lines carry the same shape.
var Log zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}

	Log = zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("service", "bufferboard").
		Logger()
}

// SetLevel adjusts verbosity from the server mode. The gin mode names map
// onto levels; anything else is parsed as a zerolog level directly.
func SetLevel(mode string) {
	var level zerolog.Level
	switch mode {
	case "debug":
		level = zerolog.DebugLevel
	case "release":
		level = zerolog.InfoLevel
	default:
		parsed, err := zerolog.ParseLevel(mode)
		if err != nil {
			Log.Warn().Str("mode", mode).Msg("unknown log mode, keeping info")
			parsed = zerolog.InfoLevel
		}
		level = parsed
	}

	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
}
