package logging

import (
	"log/slog"
	"os"
)

// NewStdoutHandler is the JSON handler every deployment logs through.
func NewStdoutHandler(development bool) slog.Handler {
	level := slog.LevelInfo
	if development {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

// Setup installs the stdout handler as the default logger.
func Setup(development bool) {
	slog.SetDefault(slog.New(NewStdoutHandler(development)))
}
