package jsonlog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func (s *Service) initializeRollingFileLogger() *lumberjack.Logger {
	name := filepath.Base(s.Config.LogFileName)
	if name == emptyString || name == "." || name == string(filepath.Separator) {
		name = DefaultLogFileName
	}

	path := filepath.Join(s.WorkingDir, s.Config.RelLogFileDir, name+".log")

	return &lumberjack.Logger{
		Filename:   path,
		MaxBackups: s.Config.LogFileMaxBackups,
		MaxAge:     s.Config.LogFileMaxAgeDays,
		MaxSize:    s.Config.LogFileMaxSizeMB,
		Compress:   s.Config.LogFileCompress,
	}
}

// enableChannels falls back to file logging when both channels are off.
func (s *Service) enableChannels() {
	if !s.Config.ConsoleLogging && !s.Config.FileLogging {
		s.Config.FileLogging = true
	}
	if s.Config.FileLogging {
		s.fileWriter = s.initializeRollingFileLogger()
	}
}

func (s *Service) newZerologBackend(level Level) Backend {
	var writers []io.Writer
	if s.fileWriter != nil {
		writers = append(writers, s.fileWriter)
	}
	if s.Config.ConsoleLogging {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			NoColor:    s.Config.ConsoleNoColor,
			TimeFormat: s.Config.ConsoleTimeFormat,
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level.zerolog())
	if s.Config.WithTimestamp {
		logger = logger.With().Timestamp().Logger()
	}
	return NewZerologBackend(logger, s.Config.RecordField)
}

func (s *Service) newZapBackend(level Level) Backend {
	encCfg := zap.NewProductionEncoderConfig()
	if !s.Config.WithTimestamp {
		encCfg.TimeKey = emptyString
	}
	enabler := zap.NewAtomicLevelAt(level.zap())

	var cores []zapcore.Core
	if s.fileWriter != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(s.fileWriter), enabler))
	}
	if s.Config.ConsoleLogging {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), enabler))
	}

	s.zapLogger = zap.New(zapcore.NewTee(cores...))
	return NewZapBackend(s.zapLogger)
}
