package logger

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Level represents the severity level of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	NoticeLevel
	ErrorLevel
)

// ParseLevel converts a level name into a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "notice":
		return NoticeLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level: %s", s)
}

type tag int

const (
	none tag = iota
	withdrawal
	deposit
)

var actionTags = map[string]tag{
	"withdrawal": withdrawal,
	"deposit":    deposit,
}

var tagPrefixes = map[tag]string{
	none:       "",
	withdrawal: "[WITHDRAW] ",
	deposit:    "[DEPOSIT]  ",
}

var colors = map[tag]color.Attribute{
	none:       color.FgWhite,
	withdrawal: color.FgHiRed,
	deposit:    color.FgHiGreen,
}

// Logger is a simple interface for logging messages.
type Logger interface {
	// Info logs an informational message.
	Info(format string, args ...interface{})
	InfoWithAction(action string, format string, args ...interface{})

	// Error logs an error message.
	Error(format string, args ...interface{})
	ErrorWithAction(action string, format string, args ...interface{})

	// Debug logs a debug message.
	Debug(format string, args ...interface{})
	DebugWithAction(action string, format string, args ...interface{})

	// Notice logs a notice message.
	Notice(format string, args ...interface{})
	NoticeWithAction(action string, format string, args ...interface{})
}

// EmptyLogger is a simple implementation of the Logger interface that does nothing.
type EmptyLogger struct{}

var _ Logger = (*EmptyLogger)(nil)

func (l *EmptyLogger) Info(_ string, _ ...interface{})                       {}
func (l *EmptyLogger) InfoWithAction(_ string, _ string, _ ...interface{})   {}
func (l *EmptyLogger) Error(_ string, _ ...interface{})                      {}
func (l *EmptyLogger) ErrorWithAction(_ string, _ string, _ ...interface{})  {}
func (l *EmptyLogger) Debug(_ string, _ ...interface{})                      {}
func (l *EmptyLogger) DebugWithAction(_ string, _ string, _ ...interface{})  {}
func (l *EmptyLogger) Notice(_ string, _ ...interface{})                     {}
func (l *EmptyLogger) NoticeWithAction(_ string, _ string, _ ...interface{}) {}

// StdLogger is a standard implementation of the Logger interface that logs messages to the console.
type StdLogger struct {
	enableColoring bool
	level          Level
	mu             sync.Mutex
}

var _ Logger = (*StdLogger)(nil)

func NewStdLogger(enableColoring bool, level Level) *StdLogger {
	return &StdLogger{
		enableColoring: enableColoring,
		level:          level,
	}
}

// formatMessage formats the log message with the appropriate log level, action prefix, and coloring if enabled.
func (l *StdLogger) formatMessage(level Level, t tag, format string) string {
	prefix := tagPrefixes[t]
	if l.enableColoring && prefix != "" {
		prefix = color.New(colors[t]).Sprint(prefix)
	}

	var levelStr string
	switch level {
	case DebugLevel:
		levelStr = "[DEBUG]  "
	case InfoLevel:
		levelStr = "[INFO]   "
	case NoticeLevel:
		levelStr = "[NOTICE] "
	case ErrorLevel:
		levelStr = "[ERROR]  "
		if l.enableColoring {
			levelStr = color.New(color.FgRed).Sprint(levelStr)
		}
	}

	return levelStr + prefix + format
}

func (l *StdLogger) logf(level Level, action string, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level <= level {
		log.Printf(l.formatMessage(level, actionTags[action], format), args...)
	}
}

func (l *StdLogger) Info(format string, args ...interface{}) {
	l.logf(InfoLevel, "", format, args...)
}

func (l *StdLogger) InfoWithAction(action string, format string, args ...interface{}) {
	l.logf(InfoLevel, action, format, args...)
}

func (l *StdLogger) Error(format string, args ...interface{}) {
	l.logf(ErrorLevel, "", format, args...)
}

func (l *StdLogger) ErrorWithAction(action string, format string, args ...interface{}) {
	l.logf(ErrorLevel, action, format, args...)
}

func (l *StdLogger) Debug(format string, args ...interface{}) {
	l.logf(DebugLevel, "", format, args...)
}

func (l *StdLogger) DebugWithAction(action string, format string, args ...interface{}) {
	l.logf(DebugLevel, action, format, args...)
}

func (l *StdLogger) Notice(format string, args ...interface{}) {
	l.logf(NoticeLevel, "", format, args...)
}

func (l *StdLogger) NoticeWithAction(action string, format string, args ...interface{}) {
	l.logf(NoticeLevel, action, format, args...)
}
