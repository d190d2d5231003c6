package jsonlog

import "context"

// Logger hands out record builders, one per log statement.
// Example: logger.InfoWith(ctx).Message("user processed").Field("user_id", id).Log()
type Logger interface {
	TraceWith(ctx context.Context) *Builder
	DebugWith(ctx context.Context) *Builder
	InfoWith(ctx context.Context) *Builder
	WarnWith(ctx context.Context) *Builder
	ErrorWith(ctx context.Context) *Builder

	Record(ctx context.Context, level Level) *Builder
	Enabled(level Level) bool

	// With starts a child logger whose records carry fixed fields.
	With() *LogContext
}

// Backend is the text logger rendered records are delivered to.
// Enabled is consulted before any field is resolved.
type Backend interface {
	Enabled(level Level) bool
	Log(level Level, msg string)
	LogError(level Level, msg string, err error)
}
