package jsonlog

import (
	"bufio"
	"context"
	"encoding/json"
	stderrs "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Station-Manager/jsonlog/mdc"
	"github.com/stretchr/testify/require"
)

// helper to create a ready-to-use file-based service in a temp dir
func newFileLogger(t testing.TB, backend, level string) (*Service, string) {
	t.Helper()
	wd := t.TempDir()

	cfg := DefaultConfig()
	cfg.Backend = backend
	cfg.Level = level
	cfg.ConsoleLogging = false
	cfg.FileLogging = true
	cfg.WithTimestamp = false
	cfg.RelLogFileDir = "logs"
	cfg.LogFileName = "jsonlog"
	cfg.LogFileMaxBackups = 1
	cfg.LogFileMaxAgeDays = 1
	cfg.LogFileMaxSizeMB = 5

	l := &Service{WorkingDir: wd, Config: cfg}
	require.NoError(t, l.Initialize())
	return l, filepath.Join(wd, "logs", "jsonlog.log")
}

// readRecords returns the rendered records found in the log file, whichever
// backend wrote them.
func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))

		if rec, ok := line[DefaultRecordField].(map[string]any); ok {
			records = append(records, rec)
			continue
		}
		// zap writes the record as the entry message
		msg, ok := line["msg"].(string)
		require.True(t, ok, "line carries no record: %s", scanner.Text())
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(msg), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func messages(records []map[string]any) []string {
	var out []string
	for _, r := range records {
		if m, ok := r[MessageFieldName].(string); ok {
			out = append(out, m)
		}
	}
	return out
}

func TestFileLoggingCreatesAndWrites(t *testing.T) {
	for _, backend := range []string{BackendZerolog, BackendZap} {
		t.Run(backend, func(t *testing.T) {
			l, logPath := newFileLogger(t, backend, "debug")
			ctx := context.Background()

			l.InfoWith(ctx).Message("hello world").Log()
			l.WarnWith(ctx).Message("be careful").Field("html", "<b>&</b>").Log()
			require.NoError(t, l.Close())

			content, err := os.ReadFile(logPath)
			require.NoError(t, err)
			require.Contains(t, string(content), "hello world")

			records := readRecords(t, logPath)
			require.Equal(t, []string{"hello world", "be careful"}, messages(records))
			require.Equal(t, "<b>&</b>", records[1]["html"])
			require.Equal(t, "WARN", records[1][LevelFieldName])
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	for _, backend := range []string{BackendZerolog, BackendZap} {
		t.Run(backend, func(t *testing.T) {
			l, logPath := newFileLogger(t, backend, "warn")
			ctx := context.Background()

			l.TraceWith(ctx).Message("trace msg").Log()
			l.DebugWith(ctx).Message("debug msg").Log()
			l.InfoWith(ctx).Message("info msg").Log()
			l.WarnWith(ctx).Message("warn msg").Log()
			l.ErrorWith(ctx).Message("error msg").Log()
			require.NoError(t, l.Close())

			require.Equal(t, []string{"warn msg", "error msg"}, messages(readRecords(t, logPath)))
		})
	}
}

func TestStructuredRecord(t *testing.T) {
	l, logPath := newFileLogger(t, BackendZerolog, "debug")

	ctx := mdc.With(context.Background(), "request_id", "req-123")
	tree, err := ToJSON(map[string]int{"retries": 3})
	require.NoError(t, err)

	l.ErrorWith(ctx).
		Message("Operation failed").
		Field("operation", "database").
		Map("labels", map[string]string{"db": "orders"}).
		List("hosts", []string{"db1", "db2"}).
		JSON("stats", tree).
		Exception("error", fmt.Errorf("query: %w", stderrs.New("timeout"))).
		Log()
	require.NoError(t, l.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	str := string(data)

	require.Contains(t, str, `"message":"Operation failed"`)
	require.Contains(t, str, `"operation":"database"`)
	require.Contains(t, str, `"labels":{"db":"orders"}`)
	require.Contains(t, str, `"hosts":["db1","db2"]`)
	require.Contains(t, str, `"stats":{"retries":3}`)
	require.Contains(t, str, `"error":"*fmt.wrapError: query: timeout\nCaused by: timeout"`)
	require.Contains(t, str, `"MDC":{"request_id":"req-123"}`)
	// backend side enrichment of the retained error
	require.Contains(t, str, `"error_root":"timeout"`)
	require.True(t, strings.Count(str, "\n") == 1, "expected exactly one line")
}

func TestConcurrentFileLogging(t *testing.T) {
	l, logPath := newFileLogger(t, BackendZerolog, "debug")

	const goroutines = 20
	const iterations = 50

	done := make(chan bool, goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			ctx := mdc.With(context.Background(), "goroutine", fmt.Sprint(id))
			for j := 0; j < iterations; j++ {
				l.InfoWith(ctx).Message("goroutine").FieldFunc("iteration", func() string { return fmt.Sprint(j) }).Log()
			}
			done <- true
		}(i)
	}
	for i := 0; i < goroutines; i++ {
		<-done
	}
	require.NoError(t, l.Close())

	require.Len(t, readRecords(t, logPath), goroutines*iterations)
}
