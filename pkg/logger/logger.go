package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	charm "github.com/charmbracelet/log"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

// Level is a logging level.
type Level = charm.Level

const (
	TraceLevel Level = charm.DebugLevel - 1
	DebugLevel       = charm.DebugLevel
	InfoLevel        = charm.InfoLevel
	WarnLevel        = charm.WarnLevel
	ErrorLevel       = charm.ErrorLevel
	FatalLevel       = charm.FatalLevel
	// offLevel is above every level that is ever logged.
	offLevel Level = charm.FatalLevel + 100
)

// LogLevel is the configured (user-facing) level name.
type LogLevel string

const (
	LogLevelOff     LogLevel = "Off"
	LogLevelTrace   LogLevel = "Trace"
	LogLevelDebug   LogLevel = "Debug"
	LogLevelInfo    LogLevel = "Info"
	LogLevelWarning LogLevel = "Warning"
	LogLevelError   LogLevel = "Error"
)

// ParseLogLevel parses a configured level name. Matching is case-insensitive;
// an empty string means Info.
func ParseLogLevel(logLevel string) (LogLevel, error) {
	if logLevel == "" {
		return LogLevelInfo, nil
	}

	for _, l := range []LogLevel{LogLevelOff, LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError} {
		if strings.EqualFold(logLevel, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: '%s'. Supported log levels are Trace, Debug, Info, Warning, Error, Off", errUtils.ErrInvalidLogLevel, logLevel)
}

// ToLevel maps a configured level name to the logger level.
func (l LogLevel) ToLevel() Level {
	switch l {
	case LogLevelOff:
		return offLevel
	case LogLevelTrace:
		return TraceLevel
	case LogLevelDebug:
		return DebugLevel
	case LogLevelWarning:
		return WarnLevel
	case LogLevelError:
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger wraps a charmbracelet logger and adds a trace level.
type Logger struct {
	charm *charm.Logger
}

// NewLogger wraps an existing charmbracelet logger and applies the buildcheck styles.
func NewLogger(l *charm.Logger) *Logger {
	l.SetStyles(getLogStyles())
	return &Logger{charm: l}
}

// New creates a Logger writing to stderr.
func New() *Logger {
	return NewLogger(charm.New(os.Stderr))
}

// Configure applies the logs section of the configuration to the default logger.
func Configure(cfg schema.Logs) error {
	level, err := ParseLogLevel(cfg.Level)
	if err != nil {
		return err
	}

	l := Default()
	l.SetLevel(level.ToLevel())

	switch cfg.File {
	case "", "/dev/stderr":
		l.SetOutput(os.Stderr)
	case "/dev/stdout":
		l.SetOutput(os.Stdout)
	default:
		f, err := os.OpenFile(cfg.File, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		l.SetOutput(f)
	}
	return nil
}

func (l *Logger) SetOutput(w io.Writer) { l.charm.SetOutput(w) }

func (l *Logger) SetLevel(level Level) { l.charm.SetLevel(level) }

func (l *Logger) GetLevel() Level { return l.charm.GetLevel() }

func (l *Logger) SetReportTimestamp(report bool) { l.charm.SetReportTimestamp(report) }

// GetLevelString returns the lower-case name of the current level.
func (l *Logger) GetLevelString() string {
	switch level := l.GetLevel(); level {
	case TraceLevel:
		return "trace"
	case offLevel:
		return "off"
	default:
		return strings.ToLower(level.String())
	}
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{charm: l.charm.With(keyvals...)}
}

func (l *Logger) Trace(msg interface{}, keyvals ...interface{}) {
	l.charm.Helper()
	l.charm.Log(TraceLevel, msg, keyvals...)
}

func (l *Logger) Debug(msg interface{}, keyvals ...interface{}) {
	l.charm.Helper()
	l.charm.Debug(msg, keyvals...)
}

func (l *Logger) Info(msg interface{}, keyvals ...interface{}) {
	l.charm.Helper()
	l.charm.Info(msg, keyvals...)
}

func (l *Logger) Warn(msg interface{}, keyvals ...interface{}) {
	l.charm.Helper()
	l.charm.Warn(msg, keyvals...)
}

func (l *Logger) Error(msg interface{}, keyvals ...interface{}) {
	l.charm.Helper()
	l.charm.Error(msg, keyvals...)
}

// getLogStyles returns the level labels and key styles used by buildcheck.
func getLogStyles() *charm.Styles {
	styles := charm.DefaultStyles()

	styles.Levels[TraceLevel] = lipgloss.NewStyle().
		SetString("TRCE").
		Foreground(lipgloss.Color("#808080"))
	styles.Levels[charm.DebugLevel] = styles.Levels[charm.DebugLevel].SetString("DEBU")
	styles.Levels[charm.InfoLevel] = styles.Levels[charm.InfoLevel].SetString("INFO")
	styles.Levels[charm.WarnLevel] = styles.Levels[charm.WarnLevel].SetString("WARN")
	styles.Levels[charm.ErrorLevel] = styles.Levels[charm.ErrorLevel].SetString("EROR")

	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	styles.Values["err"] = lipgloss.NewStyle().Bold(true)
	styles.Keys["severity"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#00A3E0"))
	styles.Keys["attempt"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	return styles
}
