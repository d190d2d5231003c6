package jsonlog

import (
	"go.uber.org/zap"
)

type zapBackend struct {
	logger *zap.Logger
}

// NewZapBackend delivers records as zap entry messages. Trace records are
// written at zap's debug level.
func NewZapBackend(logger *zap.Logger) Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapBackend{logger: logger}
}

func (b *zapBackend) Enabled(level Level) bool {
	return b.logger.Core().Enabled(level.zap())
}

func (b *zapBackend) Log(level Level, msg string) {
	if ce := b.logger.Check(level.zap(), msg); ce != nil {
		ce.Write()
	}
}

func (b *zapBackend) LogError(level Level, msg string, err error) {
	if ce := b.logger.Check(level.zap(), msg); ce != nil {
		ce.Write(zap.Error(err))
	}
}
