// Package logger holds the process-wide zerolog instance. Handlers, services
// and commands all log through Log so output stays uniform.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Log is the global logger instance.
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
		Caller().
		Logger()
}

// SetLevel adjusts verbosity from the server mode. "debug" enables debug
// logs and "release" runs at info; any other value is tried as a zerolog
// level name, with unknown values staying at info.
func SetLevel(mode string) {
	var level zerolog.Level
	switch mode {
	case "debug":
		level = zerolog.DebugLevel
	case "release", "":
		level = zerolog.InfoLevel
	default:
		parsed, err := zerolog.ParseLevel(mode)
		if err != nil {
			Log.Warn().Str("mode", mode).Msg("unknown log mode, defaulting to info")
			parsed = zerolog.InfoLevel
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
}
