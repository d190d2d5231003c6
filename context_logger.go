package jsonlog

import (
	"context"

	"github.com/goccy/go-json"
)

// LogContext collects fields that every record of the Logger it produces
// starts with. Values are encoded when added, so later changes to maps or
// slices passed in are not observed.
type LogContext struct {
	parent *Service
	fields []field
}

// contextLogger is a Logger whose records are prefilled with fixed fields.
// Lifecycle and delivery stay with the parent Service.
type contextLogger struct {
	parent *Service
	fields []field
}

var _ Logger = (*contextLogger)(nil)

func (c *LogContext) add(name string, raw []byte) *LogContext {
	c.fields = append(c.fields, field{name: name, resolve: func() []byte { return raw }})
	return c
}

// Field adds a fixed string field.
func (c *LogContext) Field(name, val string) *LogContext {
	return c.add(name, encodeString(val))
}

// Map adds a fixed nested object. Keys are written in sorted order.
func (c *LogContext) Map(name string, m map[string]string) *LogContext {
	return c.add(name, encodeMap(m))
}

// List adds a fixed array of strings.
func (c *LogContext) List(name string, vals []string) *LogContext {
	return c.add(name, encodeValue(vals))
}

// JSON adds a fixed JSON fragment. Invalid JSON is written as a string.
func (c *LogContext) JSON(name string, raw json.RawMessage) *LogContext {
	return c.add(name, encodeRaw(raw))
}

// Logger returns a Logger whose builders start with the collected fields.
// Fields added to the builder afterwards follow them; a repeated name
// replaces the value in place.
func (c *LogContext) Logger() Logger {
	return &contextLogger{parent: c.parent, fields: copyFields(c.fields)}
}

func (cl *contextLogger) Record(ctx context.Context, level Level) *Builder {
	b := cl.parent.Record(ctx, level)
	b.fields = append(make([]field, 0, len(cl.fields)+4), cl.fields...)
	return b
}

func (cl *contextLogger) Enabled(level Level) bool {
	return cl.parent.Enabled(level)
}

// With starts a LogContext that inherits this logger's fields.
func (cl *contextLogger) With() *LogContext {
	return &LogContext{parent: cl.parent, fields: copyFields(cl.fields)}
}

func (cl *contextLogger) TraceWith(ctx context.Context) *Builder {
	return cl.Record(ctx, TraceLevel)
}

func (cl *contextLogger) DebugWith(ctx context.Context) *Builder {
	return cl.Record(ctx, DebugLevel)
}

func (cl *contextLogger) InfoWith(ctx context.Context) *Builder {
	return cl.Record(ctx, InfoLevel)
}

func (cl *contextLogger) WarnWith(ctx context.Context) *Builder {
	return cl.Record(ctx, WarnLevel)
}

func (cl *contextLogger) ErrorWith(ctx context.Context) *Builder {
	return cl.Record(ctx, ErrorLevel)
}

func copyFields(fields []field) []field {
	return append([]field(nil), fields...)
}
