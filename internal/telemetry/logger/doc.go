// Package logger provides structured logging for countmesh.
//
//   - logger.go: slog-backed Logger, the shared level and the default logger
//   - context.go: context propagation of the logger, run ID and worker index
//   - attrs.go: attribute normalization applied by every handler
//
// Every logger built with New reads one shared level, so SetLevel affects
// loggers already handed to running workers. Keys and other fmt.Stringer
// attributes are logged in their string form.
package logger
