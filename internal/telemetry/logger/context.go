package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = "countmesh.logger"
	// runIDKey is the context key for the batch run ID.
	runIDKey contextKey = "countmesh.run_id"
	// workerKey is the context key for the worker index.
	workerKey contextKey = "countmesh.worker"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRunID adds a batch run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithWorker adds a worker index to the context.
func WithWorker(ctx context.Context, worker int) context.Context {
	return context.WithValue(ctx, workerKey, worker)
}

// WorkerFromContext extracts the worker index from context.
func WorkerFromContext(ctx context.Context) (int, bool) {
	w, ok := ctx.Value(workerKey).(int)
	return w, ok
}

// L is a shorthand for FromContext that also enriches the logger
// with the run ID and worker index from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if runID := RunIDFromContext(ctx); runID != "" {
		l = l.With("run_id", runID)
	}

	if w, ok := WorkerFromContext(ctx); ok {
		l = l.With("worker", w)
	}

	return l
}
