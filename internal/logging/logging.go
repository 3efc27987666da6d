// Package logging builds the structured logger shared by both Lambdas.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to stderr at the given level.
// Unknown levels fall back to info.
func New(level, function string) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, function)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(w io.Writer, level, function string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	ctx := zerolog.New(w).Level(lvl).With().Timestamp()
	if function != "" {
		ctx = ctx.Str("function", function)
	}
	return ctx.Logger()
}
