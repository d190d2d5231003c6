package jsonlog

import (
	"github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/zap/zapcore"
)

// Level selects which backend guard and emit method a record goes through.
type Level int8

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a case-insensitive level name ("trace" ... "error").
func ParseLevel(s string) (Level, error) {
	const op errors.Op = "jsonlog.ParseLevel"
	zl, err := parseLevel(s)
	if err != nil {
		return InfoLevel, errors.New(op).Err(err).Msg(errMsgInvalidLevel)
	}
	switch zl {
	case zerolog.TraceLevel:
		return TraceLevel, nil
	case zerolog.DebugLevel:
		return DebugLevel, nil
	case zerolog.InfoLevel:
		return InfoLevel, nil
	case zerolog.WarnLevel:
		return WarnLevel, nil
	case zerolog.ErrorLevel:
		return ErrorLevel, nil
	default:
		return InfoLevel, errors.New(op).Msg(errMsgInvalidLevel)
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case TraceLevel:
		return zerolog.TraceLevel
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}

// zap has no trace level; trace records go out at debug.
func (l Level) zap() zapcore.Level {
	switch l {
	case TraceLevel, DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
