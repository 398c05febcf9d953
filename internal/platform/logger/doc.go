// Package logger provides structured logging for the application using the
// standard library's log/slog package: JSON output, a configured level, and
// helpers for carrying a request-scoped logger through context.
package logger
