// Package logger provides logging implementations.
package logger

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/user/forecastbot/pkg/ports"
)

const appPrefix = "forecastbot"

// ConsoleLogger writes translated messages through charmbracelet/log.
// Debug and info go to the standard stream, warn and error to the error stream.
type ConsoleLogger struct {
	level     ports.LogLevel
	component string
	out       *charmlog.Logger
	errOut    *charmlog.Logger
}

// NewConsole creates a console logger on stdout/stderr.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	return NewConsoleWithWriters(level, os.Stdout, os.Stderr)
}

// NewConsoleWithWriters creates a console logger on the given writers.
// The styled text formatter is used on terminals, logfmt otherwise.
func NewConsoleWithWriters(level ports.LogLevel, stdout, stderr io.Writer) *ConsoleLogger {
	return &ConsoleLogger{
		level:  level,
		out:    newCharm(stdout, level),
		errOut: newCharm(stderr, level),
	}
}

func newCharm(w io.Writer, level ports.LogLevel) *charmlog.Logger {
	formatter := charmlog.LogfmtFormatter
	if isTerminal(w) {
		formatter = charmlog.TextFormatter
	}
	return charmlog.NewWithOptions(w, charmlog.Options{
		Prefix:          appPrefix,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           charmLevel(level),
		Formatter:       formatter,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func charmLevel(level ports.LogLevel) charmlog.Level {
	switch level {
	case ports.LevelDebug:
		return charmlog.DebugLevel
	case ports.LevelWarn:
		return charmlog.WarnLevel
	case ports.LevelError, ports.LevelQuiet:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	if l.level > ports.LevelDebug {
		return
	}
	l.out.Debug(l10n.F(msg, args...))
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	if l.level > ports.LevelInfo {
		return
	}
	l.out.Info(l10n.F(msg, args...))
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	if l.level > ports.LevelWarn {
		return
	}
	l.errOut.Warn(l10n.F(msg, args...))
}

// Error logs an error message.
func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	if l.level > ports.LevelError {
		return
	}
	l.errOut.Error(l10n.F(msg, args...))
}

// WithComponent returns a new logger prefixed with the component name.
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	prefix := appPrefix + "/" + component
	return &ConsoleLogger{
		level:     l.level,
		component: component,
		out:       l.out.WithPrefix(prefix),
		errOut:    l.errOut.WithPrefix(prefix),
	}
}

// Ensure ConsoleLogger implements ports.Logger
var _ ports.Logger = (*ConsoleLogger)(nil)
