// Package logging configures the application loggers: structured JSON to a
// rotating file and human-readable text to stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/foodlens/foodlens-go/internal/conf"
)

var structuredLogger *slog.Logger

// Init sets up the loggers. The JSON handler writes to the configured log
// file through lumberjack rotation; the text handler writes to stderr. Debug
// lowers both levels.
func Init(settings conf.LogSettings, debug bool) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var fileWriter io.Writer
	if settings.Path != "" {
		if dir := filepath.Dir(settings.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		fileWriter = &lumberjack.Logger{
			Filename:   settings.Path,
			MaxSize:    settings.MaxSizeMB,
			MaxBackups: settings.MaxBackups,
			MaxAge:     settings.MaxAgeDays,
		}
	} else {
		fileWriter = os.Stdout
	}

	structuredLogger = slog.New(slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{Level: level}))

	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(textHandler))
	return nil
}

// ForService returns a child of the structured logger with the 'service'
// attribute set. Falls back to the process default logger when Init has not
// been called, which keeps package-level loggers usable in tests.
func ForService(serviceName string) *slog.Logger {
	if structuredLogger == nil {
		return slog.Default().With("service", serviceName)
	}
	return structuredLogger.With("service", serviceName)
}
