package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the shared application logger.
var Log zerolog.Logger

func init() {
	Log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Init reconfigures the logger for the given app mode. Dev mode uses the
// human-readable console writer, everything else stays structured JSON.
func Init(mode string) {
	zerolog.TimeFieldFormat = time.RFC3339

	if mode == "dev" {
		Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).
			With().Timestamp().Logger()
		Log = Log.Level(zerolog.DebugLevel)
		return
	}

	Log = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}
