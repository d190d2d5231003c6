package jsonlog

import (
	"bytes"
	"context"
	"encoding/json"
	stderrs "errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []logEntry {
	t.Helper()
	var entries []logEntry
	dec := json.NewDecoder(buf)
	for dec.More() {
		var entry logEntry
		require.NoError(t, dec.Decode(&entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestZerologBackend_Enabled(t *testing.T) {
	backend := NewZerologBackend(zerolog.New(nil).Level(zerolog.WarnLevel), emptyString)

	assert.False(t, backend.Enabled(TraceLevel))
	assert.False(t, backend.Enabled(DebugLevel))
	assert.False(t, backend.Enabled(InfoLevel))
	assert.True(t, backend.Enabled(WarnLevel))
	assert.True(t, backend.Enabled(ErrorLevel))
	assert.False(t, backend.Enabled(Level(42)))
}

func TestZerologBackend_GlobalLevelSkipsSuppliers(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	backend := NewZerologBackend(zerolog.New(&buf).Level(zerolog.InfoLevel), DefaultRecordField)
	assert.False(t, backend.Enabled(InfoLevel))
	assert.True(t, backend.Enabled(WarnLevel))

	calls := 0
	NewBuilder(context.Background(), backend, InfoLevel).
		MessageFunc(func() string { calls++; return "hidden" }).
		Log()
	assert.Zero(t, calls)
	assert.Zero(t, buf.Len())

	NewBuilder(context.Background(), backend, WarnLevel).
		MessageFunc(func() string { calls++; return "shown" }).
		Log()
	assert.Equal(t, 1, calls)
	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0][DefaultRecordField].(map[string]any)[MessageFieldName])
}

func TestZerologBackend_Log(t *testing.T) {
	t.Run("embedded record", func(t *testing.T) {
		var buf bytes.Buffer
		backend := NewZerologBackend(zerolog.New(&buf), "record")

		backend.Log(InfoLevel, `{"message":"hello","tag":"<b>"}`)

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "info", entries[0][zerolog.LevelFieldName])
		assert.Equal(t, map[string]any{"message": "hello", "tag": "<b>"}, entries[0]["record"])
	})

	t.Run("record as message", func(t *testing.T) {
		var buf bytes.Buffer
		backend := NewZerologBackend(zerolog.New(&buf), emptyString)

		backend.Log(WarnLevel, `{"message":"hello"}`)

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "warn", entries[0][zerolog.LevelFieldName])
		assert.Equal(t, `{"message":"hello"}`, entries[0][zerolog.MessageFieldName])
	})

	t.Run("all levels", func(t *testing.T) {
		var buf bytes.Buffer
		backend := NewZerologBackend(zerolog.New(&buf).Level(zerolog.TraceLevel), "record")

		for _, l := range []Level{TraceLevel, DebugLevel, InfoLevel, WarnLevel, ErrorLevel} {
			backend.Log(l, `{}`)
		}

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 5)
		for i, want := range []string{"trace", "debug", "info", "warn", "error"} {
			assert.Equal(t, want, entries[i][zerolog.LevelFieldName])
		}
	})

	t.Run("disabled level writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		backend := NewZerologBackend(zerolog.New(&buf).Level(zerolog.ErrorLevel), "record")

		backend.Log(InfoLevel, `{}`)
		backend.LogError(WarnLevel, `{}`, stderrs.New("ignored"))
		assert.Zero(t, buf.Len())
	})
}

func TestZapBackend(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	backend := NewZapBackend(zap.New(core))

	t.Run("enabled", func(t *testing.T) {
		assert.False(t, backend.Enabled(TraceLevel))
		assert.False(t, backend.Enabled(DebugLevel))
		assert.True(t, backend.Enabled(InfoLevel))
		assert.True(t, backend.Enabled(ErrorLevel))
	})

	t.Run("log", func(t *testing.T) {
		backend.Log(WarnLevel, `{"message":"hello"}`)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, `{"message":"hello"}`, entries[0].Message)
	})

	t.Run("log error", func(t *testing.T) {
		backend.LogError(ErrorLevel, `{"message":"failed"}`, stderrs.New("disk full"))

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "disk full", entries[0].ContextMap()["error"])
	})

	t.Run("disabled level", func(t *testing.T) {
		backend.Log(DebugLevel, `{}`)
		assert.Zero(t, logs.Len())
	})
}

func TestZapBackend_TraceWritesAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	backend := NewZapBackend(zap.New(core))

	require.True(t, backend.Enabled(TraceLevel))
	backend.Log(TraceLevel, `{}`)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
}

func TestZapBackend_NilLogger(t *testing.T) {
	backend := NewZapBackend(nil)
	assert.False(t, backend.Enabled(ErrorLevel))
	assert.NotPanics(t, func() { backend.Log(ErrorLevel, `{}`) })
}
