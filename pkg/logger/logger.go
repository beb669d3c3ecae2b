package logger

import (
	"log/slog"
	"os"
)

// Log is replaced by Init; until then it points at the default logger so
// packages that log during tests never see a nil logger.
var Log = slog.Default()

func Init(mode string) {
	level := slog.LevelDebug
	if mode == "release" {
		level = slog.LevelInfo
	}

	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	Log = slog.New(handler)
	slog.SetDefault(Log)
}
