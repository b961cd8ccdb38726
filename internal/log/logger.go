// Package log provides logging functionality to both console and file.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Logger writes output to both console and a log file.
type Logger struct {
	file   *os.File
	writer io.Writer
}

// New creates a new logger that writes to both console and a log file in
// the specified directory.
func New(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "skillscout.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &Logger{
		file:   file,
		writer: io.MultiWriter(os.Stdout, file),
	}, nil
}

// NewConsole creates a logger that writes to the given writer only. Tests
// pass io.Discard to keep output quiet.
func NewConsole(w io.Writer) *Logger {
	return &Logger{writer: w}
}

// Printf writes a formatted message to console and log file.
func (l *Logger) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(l.writer, format, args...)
}

// Println writes a message to console and log file with a newline.
func (l *Logger) Println(args ...interface{}) {
	_, _ = fmt.Fprint(l.writer, fmt.Sprintln(args...))
}

// Errorf writes a timestamped error message to stderr and the log file.
func (l *Logger) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	formatted := fmt.Sprintf("[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), msg)
	if l.file != nil {
		_, _ = l.file.WriteString(formatted)
		_, _ = fmt.Fprint(os.Stderr, formatted)
		return
	}
	_, _ = fmt.Fprint(l.writer, formatted)
}

// Close closes the underlying log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
