package logger

import (
	"log/slog"
	"os"
)

// New builds the application logger and installs it as the slog default.
// Output goes to stderr so rendered paths printed on stdout stay scriptable.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(l)

	return l
}
