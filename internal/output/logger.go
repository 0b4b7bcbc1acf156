package output

import (
	"io"
	"log/slog"
)

// NewLogger returns the diagnostic logger. Only warnings and errors are
// shown unless verbose is set.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
