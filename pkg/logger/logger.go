package logger

import (
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init builds the process logger. Production always logs JSON; other
// environments use the text handler unless format says otherwise.
func Init(env string, opts ...Option) {
	o := options{level: slog.LevelDebug}
	if env == "production" {
		o.level = slog.LevelInfo
		o.json = true
	}
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}
	var handler slog.Handler
	if o.json {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}

	defaultLogger = slog.New(handler).With("service", "kenya-liga-hub")
	slog.SetDefault(defaultLogger)
}

type options struct {
	level slog.Level
	json  bool
}

type Option func(*options)

// WithLevel accepts debug, info, warn or error. Unknown values are ignored.
func WithLevel(level string) Option {
	return func(o *options) {
		switch strings.ToLower(level) {
		case "debug":
			o.level = slog.LevelDebug
		case "info":
			o.level = slog.LevelInfo
		case "warn":
			o.level = slog.LevelWarn
		case "error":
			o.level = slog.LevelError
		}
	}
}

func WithFormat(format string) Option {
	return func(o *options) {
		switch strings.ToLower(format) {
		case "json":
			o.json = true
		case "text":
			o.json = false
		}
	}
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}
