package ports

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is used for component internals (browser, fonts, capture, publisher).
	LevelDebug LogLevel = iota
	// LevelInfo is used for run-level progress.
	LevelInfo
	// LevelWarn is used for degraded but non-fatal steps.
	LevelWarn
	// LevelError is used for failures that end a target run.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown values map to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger is the logging port. msg is a translatable message key formatted
// with args in printf style.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that tags messages with component.
	WithComponent(component string) Logger
}
