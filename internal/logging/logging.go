// Package logging builds the process logger. Commands attach it to their
// context; everything below reads it back with zerolog.Ctx, so library code
// never holds a logger of its own.
package logging

import (
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// New returns a console logger writing to w at the named level. Level names
// are zerolog's: trace, debug, info, warn, error, fatal, panic.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), errors.Errorf("parse log level %q: %w", level, err)
	}

	logger := zerolog.New(zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
	})).With().Timestamp().Logger().Level(lvl)
	return logger, nil
}
