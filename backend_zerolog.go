package jsonlog

import (
	"github.com/rs/zerolog"
)

type zerologBackend struct {
	logger      zerolog.Logger
	recordField string
}

// NewZerologBackend delivers records through logger. With a non-empty
// recordField the rendered JSON is embedded verbatim under that key;
// otherwise it becomes the event message.
func NewZerologBackend(logger zerolog.Logger, recordField string) Backend {
	return &zerologBackend{logger: logger, recordField: recordField}
}

// Enabled honours both the logger level and zerolog's global level.
func (b *zerologBackend) Enabled(level Level) bool {
	zl := level.zerolog()
	if zl == zerolog.NoLevel {
		return false
	}
	return zl >= b.logger.GetLevel() && zl >= zerolog.GlobalLevel()
}

// withHooks returns a copy of the backend whose logger runs hooks on every
// event.
func (b *zerologBackend) withHooks(hooks ...zerolog.Hook) Backend {
	return &zerologBackend{logger: b.logger.Hook(hooks...), recordField: b.recordField}
}

func (b *zerologBackend) Log(level Level, msg string) {
	b.send(b.event(level), msg)
}

func (b *zerologBackend) LogError(level Level, msg string, err error) {
	event := b.event(level)
	if event != nil && err != nil {
		event = event.Err(err)
		chain, ops, root, rootOp := buildErrorChain(err)
		if len(chain) > 0 {
			// include array and joined string for readability
			event = event.Strs("error_chain", chain).
				Str("error_root", root).
				Str("error_history", joinChain(chain)).
				Strs("error_ops", ops)
			if rootOp != emptyString {
				event = event.Str("error_root_op", rootOp)
			}
		}
	}
	b.send(event, msg)
}

func (b *zerologBackend) event(level Level) *zerolog.Event {
	switch level {
	case TraceLevel:
		return b.logger.Trace()
	case DebugLevel:
		return b.logger.Debug()
	case InfoLevel:
		return b.logger.Info()
	case WarnLevel:
		return b.logger.Warn()
	case ErrorLevel:
		return b.logger.Error()
	default:
		return nil
	}
}

func (b *zerologBackend) send(event *zerolog.Event, msg string) {
	if event == nil {
		return
	}
	if b.recordField != emptyString {
		event.RawJSON(b.recordField, []byte(msg)).Send()
		return
	}
	event.Msg(msg)
}
