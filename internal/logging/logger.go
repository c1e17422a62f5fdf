package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// New returns a logger that prints through a ConsoleWriter. Verbose loggers
// also emit debug events together with their structured fields.
func New(out io.Writer, noColor, verbose bool) zerolog.Logger {
	w := NewConsoleWriter(out, noColor)
	w.Fields = verbose

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level)
}
