package util

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"perf-analyzer/src/config"
)

// LogLevel represents logging level
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// Logger provides leveled logging in text or JSON lines format.
// It is safe for use by concurrent workers.
type Logger struct {
	mu               sync.Mutex
	level            LogLevel
	output           io.Writer
	json             bool
	includeTimestamp bool
}

// NewLogger creates a new logger from config
func NewLogger(cfg config.LoggingConfig) *Logger {
	output := io.Writer(os.Stderr)
	if cfg.File != "" {
		if f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			output = f
		}
	}
	return NewLoggerTo(output, cfg)
}

// NewLoggerTo creates a logger writing to w, ignoring cfg.File
func NewLoggerTo(w io.Writer, cfg config.LoggingConfig) *Logger {
	return &Logger{
		level:            parseLevel(cfg.Level),
		output:           w,
		json:             cfg.Format == "json",
		includeTimestamp: cfg.IncludeTimestamp,
	}
}

func parseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogLevelDebug
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	if l.level <= LogLevelDebug {
		l.log("DEBUG", msg, args...)
	}
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	if l.level <= LogLevelInfo {
		l.log("INFO", msg, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	if l.level <= LogLevelWarn {
		l.log("WARN", msg, args...)
	}
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	if l.level <= LogLevelError {
		l.log("ERROR", msg, args...)
	}
}

func (l *Logger) log(level, msg string, args ...any) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var line string
	if l.json {
		entry := map[string]string{"level": level, "msg": msg}
		if l.includeTimestamp {
			entry["time"] = time.Now().Format(time.RFC3339)
		}
		data, _ := json.Marshal(entry)
		line = string(data)
	} else {
		var prefix string
		if l.includeTimestamp {
			prefix = time.Now().Format("2006-01-02 15:04:05") + " "
		}
		line = prefix + "[" + level + "] " + msg
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.output, line)
}

// GetLevel returns the current log level as a string
func (l *Logger) GetLevel() string {
	switch l.level {
	case LogLevelDebug:
		return "debug"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "info"
	}
}

// DefaultLogger is the package-level default logger
var DefaultLogger = NewLogger(config.LoggingConfig{
	Level:            "info",
	IncludeTimestamp: true,
})

// SetDefaultLogger updates the default logger with new configuration
func SetDefaultLogger(cfg config.LoggingConfig) {
	DefaultLogger = NewLogger(cfg)
}

// Debug logs using the default logger
func Debug(msg string, args ...any) {
	DefaultLogger.Debug(msg, args...)
}

// Info logs using the default logger
func Info(msg string, args ...any) {
	DefaultLogger.Info(msg, args...)
}

// Warn logs using the default logger
func Warn(msg string, args ...any) {
	DefaultLogger.Warn(msg, args...)
}

// Error logs using the default logger
func Error(msg string, args ...any) {
	DefaultLogger.Error(msg, args...)
}
