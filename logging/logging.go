package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"golang.org/x/term"
)

func Setup(w io.Writer) {
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000"
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()
}

// SetupConsole is used by the CLI: human-readable output on a terminal, JSON otherwise.
func SetupConsole(f *os.File) {
	if !term.IsTerminal(int(f.Fd())) {
		Setup(f)
		return
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// SetLevel applies a level name such as "debug" or "warn". Unknown names leave the level untouched.
func SetLevel(name string) {
	if name == "" {
		return
	}
	if parsed, err := zerolog.ParseLevel(name); err == nil {
		zerolog.SetGlobalLevel(parsed)
	} else {
		log.Warn().Msgf("Unknown log level [%s]", name)
	}
}
