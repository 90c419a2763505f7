// Package logging configures the process-wide slog logger.
//
// Without a log file, records go to stderr through a colored tint handler.
// With one, they are written as JSON into a size-rotated file.
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (used when the config leaves it empty)
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"pokerlog/config"

	"github.com/lmittmann/tint"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Setup installs the default logger described by cfg. The returned closer
// flushes the log file, if any.
func Setup(cfg *config.LogConfig) io.Closer {
	level := ParseLevel(cfg.Level)
	if strings.TrimSpace(cfg.File) == "" {
		SetupWithLevel(level)
		return io.NopCloser(nil)
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   true,
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})))
	log.SetFlags(0)
	log.SetOutput(file)
	return file
}

// SetupWithLevel configures colored logging on stderr at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		}),
	))
}

// ParseLevel maps a level name to slog. An empty name falls back to
// LOG_LEVEL, then to info.
func ParseLevel(name string) slog.Level {
	if strings.TrimSpace(name) == "" {
		name = os.Getenv("LOG_LEVEL")
	}
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
