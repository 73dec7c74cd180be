package log

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Logger = zerolog.Logger

// New builds the service logger. Local environments get the console
// writer, everything else emits JSON.
func New(env, service string) Logger {
	if env == "local" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return log.With().Str("service", service).Logger().Level(zerolog.InfoLevel)
}
