package jsonlog

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// hookable backends accept zerolog hooks.
type hookable interface {
	withHooks(hooks ...zerolog.Hook) Backend
}

// backendRef lets an interface value live behind an atomic pointer.
type backendRef struct {
	Backend
}

type Service struct {
	WorkingDir string  `di.inject:"WorkingDir"`
	Config     *Config `di.inject:"jsonlogconfig"`

	backend    atomic.Pointer[backendRef]
	opts       recordOptions
	fileWriter *lumberjack.Logger
	zapLogger  *zap.Logger

	isInitialized atomic.Bool
	initOnce      sync.Once
	initErr       error

	// mu guards the initialized -> closed transition against new log calls.
	mu        sync.RWMutex
	wg        sync.WaitGroup
	activeOps atomic.Int32

	writersClosed atomic.Bool
}

var _ Logger = (*Service)(nil)

// New returns a Service delivering to an existing backend. Initialize reports
// an error when backend is nil.
func New(backend Backend, opts ...Option) *Service {
	const op errors.Op = "jsonlog.New"
	s := &Service{}
	s.initOnce.Do(func() {
		s.opts = defaultRecordOptions()
		for _, opt := range opts {
			opt(&s.opts)
		}
		if backend == nil {
			s.initErr = errors.New(op).Msg(errMsgNilBackend)
			return
		}
		s.backend.Store(&backendRef{Backend: backend})
		s.isInitialized.Store(true)
	})
	return s
}

// Initialize builds the backend described by Config. Repeated calls return
// the result of the first one.
func (s *Service) Initialize() error {
	const op errors.Op = "jsonlog.Service.Initialize"
	if s == nil {
		return errors.New(op).Msg(errMsgNilService)
	}
	s.initOnce.Do(func() {
		s.initErr = s.initialize()
	})
	return s.initErr
}

func (s *Service) initialize() error {
	const op errors.Op = "jsonlog.Service.initialize"
	if s.Config == nil {
		return errors.New(op).Msg(errMsgAppCfgNotSet)
	}
	if err := validateConfig(s.Config); err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}

	level, err := ParseLevel(s.Config.Level)
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgInvalidLevel)
	}

	s.enableChannels()
	if s.fileWriter != nil {
		dir := filepath.Dir(s.fileWriter.Filename)
		if err = os.MkdirAll(dir, os.ModePerm); err != nil {
			return errors.New(op).Err(err).Msg(errMsgLogDir)
		}
	}

	var backend Backend
	switch s.Config.Backend {
	case BackendZap:
		backend = s.newZapBackend(level)
	default:
		backend = s.newZerologBackend(level)
	}

	s.opts = s.Config.recordOptions()
	s.backend.Store(&backendRef{Backend: backend})
	s.isInitialized.Store(true)
	return nil
}

// Close stops accepting records and waits for in-flight ones up to the
// configured shutdown timeout. Writers are released once the last in-flight
// record finishes, which may be after Close returns when the timeout is hit.
// It's safe to call Close multiple times.
func (s *Service) Close() error {
	const op errors.Op = "jsonlog.Service.Close"
	if s == nil {
		return nil
	}

	s.mu.Lock()
	if !s.isInitialized.Load() {
		s.mu.Unlock()
		return nil
	}
	s.isInitialized.Store(false)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.shutdownTimeout()):
		if s.Config != nil && s.Config.ShutdownTimeoutWarning {
			s.warnShutdownTimeout()
		}
		s.backend.Store(nil)
		// Late records still write through the file writer; closing it now
		// would only make lumberjack reopen the file.
		go func() {
			<-done
			_ = s.closeWriters()
		}()
		return nil
	}

	s.backend.Store(nil)
	if err := s.closeWriters(); err != nil {
		return errors.New(op).Err(err).Msg(errMsgLogClose)
	}
	return nil
}

// closeWriters flushes zap and closes the rolling file. It must only run once
// no record is in flight.
func (s *Service) closeWriters() error {
	defer s.writersClosed.Store(true)
	if s.zapLogger != nil {
		// Sync on stderr fails on some platforms; nothing to act on.
		_ = s.zapLogger.Sync()
	}
	if s.fileWriter != nil {
		return s.fileWriter.Close()
	}
	return nil
}

func (s *Service) shutdownTimeout() time.Duration {
	ms := DefaultShutdownTimeout
	if s.Config != nil && s.Config.ShutdownTimeoutMS > 0 {
		ms = s.Config.ShutdownTimeoutMS
	}
	return time.Duration(ms) * time.Millisecond
}

// warnShutdownTimeout bypasses the closed service and writes straight to the
// backend.
func (s *Service) warnShutdownTimeout() {
	ref := s.backend.Load()
	if ref == nil {
		return
	}
	newBuilder(context.Background(), ref.Backend, nil, WarnLevel, s.opts).
		Message(errMsgShutdownTimeout).
		Field("active_operations", strconv.Itoa(int(s.activeOps.Load()))).
		Log()
}

// ActiveOperations reports how many records are being rendered or written.
func (s *Service) ActiveOperations() int32 {
	if s == nil {
		return 0
	}
	return s.activeOps.Load()
}

// acquire registers an in-flight record. The caller must release when ok.
func (s *Service) acquire() (Backend, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isInitialized.Load() {
		return nil, false
	}
	ref := s.backend.Load()
	if ref == nil {
		return nil, false
	}
	s.activeOps.Add(1)
	s.wg.Add(1)
	return ref.Backend, true
}

func (s *Service) release() {
	s.activeOps.Add(-1)
	s.wg.Done()
}

// Enabled reports whether records at level would currently be written.
func (s *Service) Enabled(level Level) bool {
	if s == nil || !s.isInitialized.Load() {
		return false
	}
	ref := s.backend.Load()
	return ref != nil && ref.Enabled(level)
}

// Record returns a Builder for level. Nil or uninitialized services hand out
// builders that drop everything.
func (s *Service) Record(ctx context.Context, level Level) *Builder {
	if s == nil || !s.isInitialized.Load() {
		return noopBuilder(ctx, level)
	}
	return newBuilder(ctx, nil, s, level, s.opts)
}

// With starts a LogContext for a child Logger that shares this service's
// backend and lifecycle.
func (s *Service) With() *LogContext {
	return &LogContext{parent: s}
}

// Hook installs zerolog hooks on the active backend. Backends other than the
// zerolog one are left untouched.
func (s *Service) Hook(hooks ...zerolog.Hook) {
	if s == nil || !s.isInitialized.Load() || len(hooks) == 0 {
		return
	}
	for {
		old := s.backend.Load()
		if old == nil {
			return
		}
		h, ok := old.Backend.(hookable)
		if !ok {
			return
		}
		if s.backend.CompareAndSwap(old, &backendRef{Backend: h.withHooks(hooks...)}) {
			return
		}
	}
}

// TraceWith returns a Builder for a Trace-level record.
func (s *Service) TraceWith(ctx context.Context) *Builder {
	return s.Record(ctx, TraceLevel)
}

// DebugWith returns a Builder for a Debug-level record.
func (s *Service) DebugWith(ctx context.Context) *Builder {
	return s.Record(ctx, DebugLevel)
}

// InfoWith returns a Builder for an Info-level record.
// Example: logger.InfoWith(ctx).Message("user processed").Field("user_id", id).Log()
func (s *Service) InfoWith(ctx context.Context) *Builder {
	return s.Record(ctx, InfoLevel)
}

// WarnWith returns a Builder for a Warn-level record.
func (s *Service) WarnWith(ctx context.Context) *Builder {
	return s.Record(ctx, WarnLevel)
}

// ErrorWith returns a Builder for an Error-level record.
// Example: logger.ErrorWith(ctx).Message("query failed").Exception("error", err).Log()
func (s *Service) ErrorWith(ctx context.Context) *Builder {
	return s.Record(ctx, ErrorLevel)
}
