// Package mdc carries a Mapped Diagnostic Context through a context.Context.
//
// A Map is installed once per task with NewContext and then mutated through
// the package functions, the way a thread-local MDC would be. Every goroutine
// handling the task sees the same Map, so access is synchronised. Builders
// read a Snapshot at render time.
//
//	ctx = mdc.NewContext(ctx)
//	mdc.Put(ctx, "request_id", rid)
//	defer mdc.Clear(ctx)
package mdc

import (
	"context"
	"sort"
	"sync"
)

type ctxKey struct{}

// Entry is one key/value pair of a snapshot.
type Entry struct {
	Key   string
	Value string
}

// Map is a concurrency-safe string map.
type Map struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]string)}
}

// NewContext returns a child of parent carrying a fresh Map that starts with a
// copy of the parent's entries. Changes to the child do not leak upwards.
func NewContext(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	m := NewMap()
	if pm := FromContext(parent); pm != nil {
		pm.mu.RLock()
		for k, v := range pm.values {
			m.values[k] = v
		}
		pm.mu.RUnlock()
	}
	return context.WithValue(parent, ctxKey{}, m)
}

// With is NewContext followed by a Put of key/value on the child.
func With(parent context.Context, key, value string) context.Context {
	ctx := NewContext(parent)
	FromContext(ctx).Put(key, value)
	return ctx
}

// FromContext returns the Map installed in ctx, or nil.
func FromContext(ctx context.Context) *Map {
	if ctx == nil {
		return nil
	}
	m, _ := ctx.Value(ctxKey{}).(*Map)
	return m
}

// Put sets key on the Map in ctx. It reports false when ctx carries no Map.
func Put(ctx context.Context, key, value string) bool {
	m := FromContext(ctx)
	if m == nil {
		return false
	}
	m.Put(key, value)
	return true
}

// Get reads key from the Map in ctx.
func Get(ctx context.Context, key string) (string, bool) {
	m := FromContext(ctx)
	if m == nil {
		return "", false
	}
	return m.Get(key)
}

// Remove deletes key from the Map in ctx.
func Remove(ctx context.Context, key string) {
	if m := FromContext(ctx); m != nil {
		m.Remove(key)
	}
}

// Clear empties the Map in ctx.
func Clear(ctx context.Context) {
	if m := FromContext(ctx); m != nil {
		m.Clear()
	}
}

// Snapshot copies the Map in ctx, sorted by key. Nil when ctx has no entries.
func Snapshot(ctx context.Context) []Entry {
	m := FromContext(ctx)
	if m == nil {
		return nil
	}
	return m.Snapshot()
}

func (m *Map) Put(key, value string) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

func (m *Map) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Remove(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

func (m *Map) Clear() {
	m.mu.Lock()
	clear(m.values)
	m.mu.Unlock()
}

func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

func (m *Map) Snapshot() []Entry {
	m.mu.RLock()
	if len(m.values) == 0 {
		m.mu.RUnlock()
		return nil
	}
	out := make([]Entry, 0, len(m.values))
	for k, v := range m.values {
		out = append(out, Entry{Key: k, Value: v})
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
