package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger creates a JSON zerolog.Logger tagged with the service name.
// Unknown levels fall back to info.
func NewLogger(service, level string) zerolog.Logger {
	return newLogger(os.Stdout, service, level)
}

func newLogger(w io.Writer, service, level string) zerolog.Logger {
	ctx := zerolog.New(w).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return ctx.Logger().Level(lvl)
}
