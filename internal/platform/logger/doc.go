// Package logger provides structured logging for the application.
//
// Loggers are plain *slog.Logger values. Setup builds the process logger from
// configuration; WithLogger and FromContext carry request-scoped loggers
// through context.Context so stores and services log with the caller's
// attributes.
package logger
