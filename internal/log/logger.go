package log

import "log/slog"

// Logger is the logging interface used throughout the module, wrapping
// log/slog so call sites don't depend on a concrete handler.
type Logger interface {
	// With returns a logger that includes the given attributes in each
	// output operation.
	With(ctx ...any) Logger

	// Debug logs a message at the debug level with context key/value pairs.
	Debug(msg string, ctx ...any)

	// Info logs a message at the info level with context key/value pairs.
	Info(msg string, ctx ...any)

	// Warn logs a message at the warn level with context key/value pairs.
	Warn(msg string, ctx ...any)

	// Error logs a message at the error level with context key/value pairs.
	Error(msg string, ctx ...any)
}

type logger struct {
	inner *slog.Logger
}

// New returns a Logger backed by the given slog.Handler.
func New(handler slog.Handler) Logger {
	return &logger{inner: slog.New(handler)}
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }

// Discard returns a Logger whose output operations are no-ops. Components
// that accept an injected Logger fall back to it when none is given, so
// they stay safe to construct without a logging setup.
func Discard() Logger { return discardLogger{} }

type discardLogger struct{}

func (discardLogger) With(ctx ...any) Logger       { return discardLogger{} }
func (discardLogger) Debug(msg string, ctx ...any) {}
func (discardLogger) Info(msg string, ctx ...any)  {}
func (discardLogger) Warn(msg string, ctx ...any)  {}
func (discardLogger) Error(msg string, ctx ...any) {}
