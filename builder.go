package jsonlog

import (
	"context"
	"sort"
	"time"

	"github.com/Station-Manager/jsonlog/mdc"
	"github.com/goccy/go-json"
)

var jsonNull = []byte("null")

// Builder accumulates the fields of one JSON log record. Fields are resolved
// and rendered only when Log is called and the level is enabled.
//
// A Builder belongs to a single log statement: it is not safe for concurrent
// use and must not be reused after Log.
type Builder struct {
	ctx     context.Context
	level   Level
	backend Backend
	service *Service
	opts    recordOptions
	fields  []field
	err     error
}

// field is a named value producer, resolved to encoded JSON at render time.
type field struct {
	name    string
	resolve func() []byte
}

// NewBuilder returns a Builder delivering to backend at level. A nil backend
// yields a builder whose Log does nothing.
func NewBuilder(ctx context.Context, backend Backend, level Level, opts ...Option) *Builder {
	o := defaultRecordOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newBuilder(ctx, backend, nil, level, o)
}

func newBuilder(ctx context.Context, backend Backend, s *Service, level Level, opts recordOptions) *Builder {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Builder{
		ctx:     ctx,
		level:   level,
		backend: backend,
		service: s,
		opts:    opts,
	}
}

// noopBuilder accepts fields and drops them on Log.
func noopBuilder(ctx context.Context, level Level) *Builder {
	return newBuilder(ctx, nil, nil, level, defaultRecordOptions())
}

func (b *Builder) add(name string, resolve func() []byte) *Builder {
	b.fields = append(b.fields, field{name: name, resolve: resolve})
	return b
}

// Message adds the "message" field.
func (b *Builder) Message(msg string) *Builder {
	return b.Field(MessageFieldName, msg)
}

// MessageFunc adds the "message" field, evaluated once at render time.
func (b *Builder) MessageFunc(fn func() string) *Builder {
	return b.FieldFunc(MessageFieldName, fn)
}

// Field adds a string field.
func (b *Builder) Field(name, val string) *Builder {
	return b.add(name, func() []byte { return encodeString(val) })
}

// FieldFunc adds a string field whose value is supplied at render time.
// A nil supplier renders null.
func (b *Builder) FieldFunc(name string, fn func() string) *Builder {
	return b.add(name, func() []byte {
		if fn == nil {
			return jsonNull
		}
		return encodeString(fn())
	})
}

// Map adds a nested object. Keys are written in sorted order.
func (b *Builder) Map(name string, m map[string]string) *Builder {
	return b.add(name, func() []byte { return encodeMap(m) })
}

// MapFunc adds a nested object supplied at render time.
func (b *Builder) MapFunc(name string, fn func() map[string]string) *Builder {
	return b.add(name, func() []byte {
		if fn == nil {
			return jsonNull
		}
		return encodeMap(fn())
	})
}

// List adds an array of strings in slice order.
func (b *Builder) List(name string, vals []string) *Builder {
	return b.add(name, func() []byte { return encodeValue(vals) })
}

// ListFunc adds an array of strings supplied at render time.
func (b *Builder) ListFunc(name string, fn func() []string) *Builder {
	return b.add(name, func() []byte {
		if fn == nil {
			return jsonNull
		}
		return encodeValue(fn())
	})
}

// JSON adds a pre-built JSON fragment. Invalid JSON is written as a string
// holding the raw text.
func (b *Builder) JSON(name string, raw json.RawMessage) *Builder {
	return b.add(name, func() []byte { return encodeRaw(raw) })
}

// JSONFunc adds a JSON fragment supplied at render time.
func (b *Builder) JSONFunc(name string, fn func() json.RawMessage) *Builder {
	return b.add(name, func() []byte {
		if fn == nil {
			return jsonNull
		}
		return encodeRaw(fn())
	})
}

// Exception adds err's description under name and keeps err so the backend
// can record it natively. The last non-nil error added wins.
func (b *Builder) Exception(name string, err error) *Builder {
	if err == nil {
		return b.add(name, func() []byte { return jsonNull })
	}
	b.err = err
	return b.add(name, func() []byte { return encodeString(describeError(err)) })
}

// Level reports the severity the record will be emitted at.
func (b *Builder) Level() Level {
	return b.level
}

// Log renders the record and hands it to the backend. Nothing is resolved
// when the level is disabled. A panicking supplier propagates to the caller
// and nothing is emitted.
func (b *Builder) Log() {
	if b == nil {
		return
	}
	backend := b.backend
	if b.service != nil {
		var ok bool
		backend, ok = b.service.acquire()
		if !ok {
			return
		}
		defer b.service.release()
	}
	if backend == nil || !backend.Enabled(b.level) {
		return
	}

	msg := b.render()
	if b.err != nil {
		backend.LogError(b.level, msg, b.err)
		return
	}
	backend.Log(b.level, msg)
}

// render resolves the fields in insertion order, appends the standard fields
// and finally the MDC snapshot.
func (b *Builder) render() string {
	obj := newObject(len(b.fields) + 4)
	for _, f := range b.fields {
		obj.set(f.name, f.resolve())
	}

	if b.opts.includeLevel {
		obj.set(LevelFieldName, encodeString(b.level.String()))
	}
	if b.opts.timestampFormat != emptyString {
		now := time.Now
		if b.opts.now != nil {
			now = b.opts.now
		}
		obj.set(TimestampFieldName, encodeString(now().Format(b.opts.timestampFormat)))
	}
	if b.opts.loggerName != emptyString {
		obj.set(LoggerNameFieldName, encodeString(b.opts.loggerName))
	}

	if snap := mdc.Snapshot(b.ctx); len(snap) > 0 {
		ctxObj := newObject(len(snap))
		for _, e := range snap {
			ctxObj.set(e.Key, encodeString(e.Value))
		}
		obj.set(MDCFieldName, []byte(ctxObj.String()))
	}

	return obj.String()
}

func encodeValue(v interface{}) []byte {
	b, err := marshal(v)
	if err != nil {
		return jsonNull
	}
	return b
}

func encodeString(s string) []byte {
	return encodeValue(s)
}

func encodeMap(m map[string]string) []byte {
	if m == nil {
		return jsonNull
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	obj := newObject(len(keys))
	for _, k := range keys {
		obj.set(k, encodeString(m[k]))
	}
	return []byte(obj.String())
}

func encodeRaw(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return jsonNull
	}
	if !json.Valid(raw) {
		return encodeString(string(raw))
	}
	b, err := marshal(raw)
	if err != nil {
		return encodeString(string(raw))
	}
	return b
}
