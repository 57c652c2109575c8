package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the global logger instance. Tool handlers and commands log
// through it; output goes to stderr so stdio MCP transport stays clean.
var Logger *slog.Logger

// LogLevel allows runtime level changes (the --debug flag).
var LogLevel *slog.LevelVar

func init() {
	LogLevel = &slog.LevelVar{}
	opts := &slog.HandlerOptions{
		Level: LogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "time" {
				return slog.Attr{Key: "timestamp", Value: slog.TimeValue(a.Value.Time())}
			}
			return a
		},
	}
	Logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	LogLevel.Set(slog.LevelWarn)
}

// SetLogLevel updates the global level from a string.
func SetLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		LogLevel.Set(slog.LevelDebug)
	case "info":
		LogLevel.Set(slog.LevelInfo)
	case "warn":
		LogLevel.Set(slog.LevelWarn)
	case "error":
		LogLevel.Set(slog.LevelError)
	}
}
