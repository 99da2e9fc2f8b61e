// Package logger provides leveled logging for the retweever CLI.
// The volume flags (-q, -v, -D) map onto the four levels; fetch
// failures and budget warnings go here rather than crashing the run.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level is a log volume threshold.
type Level int

const (
	// LevelDebug prints everything.
	LevelDebug Level = iota
	// LevelInfo prints informational messages and above.
	LevelInfo
	// LevelWarn prints warnings and errors.
	LevelWarn
	// LevelError prints errors only. This is the default volume.
	LevelError
	// LevelCritical silences everything except critical messages.
	LevelCritical
)

var (
	mu     sync.RWMutex
	level  Level     = LevelError
	output io.Writer = os.Stderr
)

// SetLevel sets the minimum level that is printed.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetOutput sets the output writer for log messages.
// Defaults to os.Stderr. Useful for testing and the --log flag.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// IsDebug returns true if debug messages are being printed.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return level <= LevelDebug
}

func logAt(l Level, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if l >= level {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug prints a message at debug volume.
func Debug(format string, args ...any) {
	logAt(LevelDebug, "Debug: ", format, args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	logAt(LevelInfo, "Info: ", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	logAt(LevelWarn, "Warning: ", format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	logAt(LevelError, "Error: ", format, args...)
}

// Critical prints a message that is never silenced below --quiet.
func Critical(format string, args ...any) {
	logAt(LevelCritical, "Critical: ", format, args...)
}
