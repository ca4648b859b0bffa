// Package log provides a small structured logging interface based on
// [log/slog].
//
// A package-level logger writing to stderr is configured once by the CLI
// with functional options:
//
//	log.Config(log.WithLevel(log.LevelDebug), log.WithFormat(log.FormatJSON))
//	log.Info("run finished", slog.Int("records", n))
//
// Components that need their own destination use [Make].
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger wraps a [slog.Logger] built from a config.
type Logger struct {
	*slog.Logger
}

// Make creates a Logger writing to w.
func Make(w io.Writer, opts ...Option) Logger {
	cfg := apply(defaults(w), opts...)
	return Logger{Logger: slog.New(cfg.handler())}
}

// Discard returns a Logger that drops every message.
func Discard() Logger {
	return Logger{Logger: slog.New(slog.DiscardHandler)}
}

// With returns a Logger that adds attrs to every message.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}
	return Logger{Logger: slog.New(l.Logger.Handler().WithAttrs(attrs))}
}

func (l Logger) log(ctx context.Context, level Level, msg string, attrs ...slog.Attr) {
	if l.Logger == nil {
		return
	}
	l.Logger.LogAttrs(ctx, slog.Level(level), msg, attrs...)
}

// DebugContext logs at debug level.
func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs...)
}

// InfoContext logs at info level.
func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs...)
}

// WarnContext logs at warn level.
func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs...)
}

// ErrorContext logs at error level.
func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs...)
}

var (
	mu      sync.RWMutex
	current = apply(defaults(os.Stderr))
	std     = Logger{Logger: slog.New(current.handler())}
)

// Config reconfigures the package-level logger. Unset options keep their
// previous values.
func Config(opts ...Option) {
	mu.Lock()
	defer mu.Unlock()

	current = apply(current, opts...)
	std = Logger{Logger: slog.New(current.handler())}
}

// Default returns the package-level logger.
func Default() Logger {
	mu.RLock()
	defer mu.RUnlock()

	return std
}

// Debug logs at debug level on the package-level logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().DebugContext(context.Background(), msg, attrs...)
}

// Info logs at info level on the package-level logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().InfoContext(context.Background(), msg, attrs...)
}

// Warn logs at warn level on the package-level logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().WarnContext(context.Background(), msg, attrs...)
}

// Error logs at error level on the package-level logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().ErrorContext(context.Background(), msg, attrs...)
}
