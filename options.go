package jsonlog

import "time"

// recordOptions controls the standard fields appended after the caller's own.
type recordOptions struct {
	includeLevel    bool
	timestampFormat string
	loggerName      string
	now             func() time.Time
}

func defaultRecordOptions() recordOptions {
	return recordOptions{
		includeLevel:    true,
		timestampFormat: DefaultTimestampFormat,
		now:             time.Now,
	}
}

// Option configures the standard fields of every record.
type Option func(*recordOptions)

// WithLoggerName adds a "logger_name" field to every record.
func WithLoggerName(name string) Option {
	return func(o *recordOptions) { o.loggerName = name }
}

// WithLevelField toggles the "level" field.
func WithLevelField(enabled bool) Option {
	return func(o *recordOptions) { o.includeLevel = enabled }
}

// WithTimestampFormat sets the time layout of the "timestamp" field.
// An empty layout drops the field.
func WithTimestampFormat(layout string) Option {
	return func(o *recordOptions) { o.timestampFormat = layout }
}

// WithClock replaces time.Now for the "timestamp" field.
func WithClock(now func() time.Time) Option {
	return func(o *recordOptions) {
		if now != nil {
			o.now = now
		}
	}
}
