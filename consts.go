package jsonlog

const (
	// ServiceName is the DI/service locator name for the JSON logging service.
	ServiceName = "jsonlog"
	emptyString = ""

	// MessageFieldName is the key used by Builder.Message.
	MessageFieldName = "message"
	// MDCFieldName is the key the diagnostic context snapshot is nested under.
	MDCFieldName = "MDC"

	LevelFieldName      = "level"
	TimestampFieldName  = "timestamp"
	LoggerNameFieldName = "logger_name"

	// DefaultTimestampFormat renders as e.g. 2016-03-01 10:04:05.123+0000.
	DefaultTimestampFormat = "2006-01-02 15:04:05.000-0700"
	DefaultRecordField     = "record"
	DefaultLogFileName     = "app"
	DefaultRelLogFileDir   = "logs"
	DefaultShutdownTimeout = 500

	BackendZerolog = "zerolog"
	BackendZap     = "zap"
)

const (
	errMsgNilConfig       = "Logging config is nil."
	errMsgNilService      = "Logger service is nil."
	errMsgAppCfgNotSet    = "Logging config is not set."
	errMsgConfigInvalid   = "Logging configuration is invalid."
	errMsgNilBackend      = "Logging backend is nil."
	errMsgLogDir          = "Failed to create logs directory."
	errMsgLogClose        = "Failed to close log file."
	errMsgInvalidLevel    = "Invalid logging level."
	errMsgConfigRead      = "Failed to read logging config file."
	errMsgConfigDecode    = "Failed to decode logging config file."
	errMsgShutdownTimeout = "Logger shutdown timeout exceeded"
)
