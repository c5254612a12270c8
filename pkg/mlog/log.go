// Package mlog defines the logging interface used across orderflow and a
// zap-backed implementation of it.
package mlog

import (
	"context"
	"strings"
)

// Logger is the common interface for log implementations used throughout
// the service. Handlers and domain code depend on this interface, never
// directly on zap, so tests can swap in NoneLogger.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)

	Error(args ...any)
	Errorf(format string, args ...any)

	Warn(args ...any)
	Warnf(format string, args ...any)

	Debug(args ...any)
	Debugf(format string, args ...any)

	Fatalf(format string, args ...any)

	WithFields(fields ...any) Logger

	Sync() error
}

// Level represents the severity of a log line.
type Level int8

const (
	// ErrorLevel marks conditions that should definitely be noted.
	ErrorLevel Level = iota
	// WarnLevel marks non-critical entries that deserve eyes.
	WarnLevel
	// InfoLevel marks general operational entries.
	InfoLevel
	// DebugLevel is only enabled when debugging.
	DebugLevel
)

// ParseLevel takes a string level and returns a Level constant, defaulting
// to InfoLevel when the string is not recognized.
func ParseLevel(lvl string) Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "error":
		return ErrorLevel
	case "warn", "warning":
		return WarnLevel
	case "debug":
		return DebugLevel
	default:
		return InfoLevel
	}
}

type loggerContextKey string

const loggerKey = loggerContextKey("logger")

// ContextWithLogger returns a context carrying the given Logger.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the Logger stored by ContextWithLogger, falling back
// to a NoneLogger when absent.
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok && logger != nil {
		return logger
	}

	return &NoneLogger{}
}
