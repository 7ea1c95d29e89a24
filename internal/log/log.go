// Package log configures the process-wide slog logger used by the gateway
// tooling. Commands call Init once from their cobra PersistentPreRunE and
// pass the returned logger to the packages they construct.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Options configures the logger.
type Options struct {
	// Verbose enables debug and info output. Warnings and errors are always shown.
	Verbose bool
	// JSONFormat uses the JSON handler instead of the text handler.
	JSONFormat bool
	// Stderr is the destination writer (defaults to os.Stderr).
	Stderr io.Writer
}

// Init builds a logger from opts, installs it as the slog default and returns it.
func Init(opts Options) *slog.Logger {
	w := opts.Stderr
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSONFormat {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops every record. Tests use it to keep
// output quiet when the log lines themselves are not under test.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDefault returns l, or the slog default logger when l is nil.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
