// Package logger provides centralized log.Logger construction with a
// configurable level.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a *log.Logger configured with the given level.
// Level: "debug", "info", "warn", "error" (default: "info").
// Output goes to stderr.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a *log.Logger writing to w.
// Useful for testing or redirecting output.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
	})
}

// ParseLevel converts a level string to log.Level.
// Recognized values: "debug", "warn", "error". Everything else returns InfoLevel.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
