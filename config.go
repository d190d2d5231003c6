package jsonlog

import (
	"os"

	"github.com/Station-Manager/errors"
	"gopkg.in/yaml.v3"
)

// Config drives Service.Initialize. Level names are lower case.
type Config struct {
	Level   string `yaml:"level" validate:"required,oneof=trace debug info warn error"`
	Backend string `yaml:"backend" validate:"omitempty,oneof=zerolog zap"`

	ConsoleLogging    bool   `yaml:"console_logging"`
	ConsoleNoColor    bool   `yaml:"console_no_color"`
	ConsoleTimeFormat string `yaml:"console_time_format"`

	FileLogging       bool   `yaml:"file_logging"`
	RelLogFileDir     string `yaml:"rel_log_file_dir" validate:"omitempty,relpath"`
	LogFileName       string `yaml:"log_file_name" validate:"omitempty,max=255"`
	LogFileMaxBackups int    `yaml:"log_file_max_backups" validate:"gte=0"`
	LogFileMaxAgeDays int    `yaml:"log_file_max_age_days" validate:"gte=0"`
	LogFileMaxSizeMB  int    `yaml:"log_file_max_size_mb" validate:"gte=0"`
	LogFileCompress   bool   `yaml:"log_file_compress"`

	// WithTimestamp adds the backend's own timestamp to each line.
	WithTimestamp bool `yaml:"with_timestamp"`
	// RecordField embeds the rendered record under this key (zerolog only).
	// Empty sends the record as the line's message.
	RecordField string `yaml:"record_field"`

	IncludeLevel    bool   `yaml:"include_level"`
	TimestampFormat string `yaml:"timestamp_format"`
	LoggerName      string `yaml:"logger_name"`

	ShutdownTimeoutMS      int  `yaml:"shutdown_timeout_ms" validate:"gte=0"`
	ShutdownTimeoutWarning bool `yaml:"shutdown_timeout_warning"`
}

// DefaultConfig returns an info-level, console-only zerolog configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:             "info",
		Backend:           BackendZerolog,
		ConsoleLogging:    true,
		RelLogFileDir:     DefaultRelLogFileDir,
		LogFileName:       DefaultLogFileName,
		LogFileMaxBackups: 3,
		LogFileMaxAgeDays: 7,
		LogFileMaxSizeMB:  10,
		WithTimestamp:     true,
		RecordField:       DefaultRecordField,
		IncludeLevel:      true,
		TimestampFormat:   DefaultTimestampFormat,
		ShutdownTimeoutMS: DefaultShutdownTimeout,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates it.
func LoadConfig(path string) (*Config, error) {
	const op errors.Op = "jsonlog.LoadConfig"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(op).Err(err).Msg(errMsgConfigRead)
	}

	cfg := DefaultConfig()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(op).Err(err).Msg(errMsgConfigDecode)
	}
	if err = validateConfig(cfg); err != nil {
		return nil, errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}
	return cfg, nil
}

func (c *Config) recordOptions() recordOptions {
	o := defaultRecordOptions()
	o.includeLevel = c.IncludeLevel
	o.timestampFormat = c.TimestampFormat
	o.loggerName = c.LoggerName
	return o
}
