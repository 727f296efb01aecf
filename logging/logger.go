// Package logging provides a tiny abstraction over slog so the rest of the
// module depends on a minimal interface (Logger) while callers can plug in
// any structured logger. A richer contextual logger adds component/request
// attributes and audit helpers for tool dispatch and model calls.
//
// Audit helpers deliberately log structural metadata only (tool names,
// field names, argument counts, durations). Argument values and
// credentials never reach the log stream.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal logging interface consumed throughout intentmesh.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NoOpLogger discards all log messages. Useful for tests.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// Config configures construction of a RouterLogger.
type Config struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
	RequestID string
}

// DefaultConfig returns a baseline JSON info-level configuration.
func DefaultConfig() *Config {
	return &Config{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// RouterLogger wraps slog.Logger adding contextual cloning helpers and
// audit convenience methods. Cheap to copy via the With* methods.
type RouterLogger struct {
	logger    *slog.Logger
	level     LogLevel
	component string
	requestID string
}

// NewRouterLogger builds a RouterLogger from a config (or defaults if nil).
func NewRouterLogger(cfg *Config) *RouterLogger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return &RouterLogger{
		logger:    slog.New(handler),
		level:     cfg.Level,
		component: cfg.Component,
		requestID: cfg.RequestID,
	}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns a copy bound to a logical component (classifier,
// dispatcher, engine, handler name).
func (l *RouterLogger) WithComponent(c string) *RouterLogger {
	nl := *l
	nl.component = c
	return &nl
}

// WithRequest returns a copy bound to a request identifier.
func (l *RouterLogger) WithRequest(requestID string) *RouterLogger {
	nl := *l
	nl.requestID = requestID
	return &nl
}

func (l *RouterLogger) attrs(extra ...slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(extra)+2)
	if l.component != "" {
		out = append(out, slog.String("component", l.component))
	}
	if l.requestID != "" {
		out = append(out, slog.String("request_id", l.requestID))
	}
	return append(out, extra...)
}

func (l *RouterLogger) log(level slog.Level, min LogLevel, msg string, args ...any) {
	if l.level > min {
		return
	}
	logger := l.logger
	for _, a := range l.attrs() {
		logger = logger.With(a)
	}
	logger.Log(context.Background(), level, msg, args...)
}

// Debug logs at debug level.
func (l *RouterLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *RouterLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *RouterLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *RouterLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, LogLevelError, msg, args...)
}

// LogToolDispatch records one tool dispatch with structural metadata only.
func (l *RouterLogger) LogToolDispatch(tool string, argCount int, dur time.Duration, success bool) {
	if l.level > LogLevelInfo {
		return
	}
	attrs := l.attrs(
		slog.String("tool_name", tool),
		slog.Int("arg_count", argCount),
		slog.Duration("duration", dur),
		slog.Bool("success", success),
	)
	msg := "Tool dispatch completed"
	level := slog.LevelInfo
	if !success {
		msg = "Tool dispatch failed"
		level = slog.LevelWarn
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogModelCall records model call latency and outcome.
func (l *RouterLogger) LogModelCall(provider, model string, turn int, dur time.Duration, err error) {
	attrs := l.attrs(
		slog.String("provider", provider),
		slog.String("model", model),
		slog.Int("turn", turn),
		slog.Duration("duration", dur),
		slog.Bool("success", err == nil),
	)
	level := slog.LevelInfo
	msg := "Model call completed"
	if err != nil {
		level = slog.LevelError
		msg = "Model call failed"
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
