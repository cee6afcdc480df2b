package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger records evolution worker activity. Non-blocking island workers
// cannot surface errors to a caller, so they log them here instead.
//
// A nil *Logger is valid and discards everything, which keeps the library
// silent unless a logger is attached.
type Logger struct {
	name    string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
}

// LogLevel represents different types of log entries.
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
)

// NewLogger creates a file logger named after the island or archipelago it
// serves. Log files are placed under the given directory.
func NewLogger(dir, name string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	logPath := filepath.Join(dir, fmt.Sprintf("%s_%s.log", name, timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		name:    name,
		logFile: file,
		logger:  log.New(file, "", 0),
	}, nil
}

// NewWriterLogger creates a logger that writes to an arbitrary writer.
// Mostly useful in tests.
func NewWriterLogger(name string, w io.Writer) *Logger {
	return &Logger{
		name:   name,
		logger: log.New(w, "", 0),
	}
}

// Log writes a formatted entry with the specified level.
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, level, l.name, message)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message.
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Close closes the underlying log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.logFile == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logFile.Close()
}
