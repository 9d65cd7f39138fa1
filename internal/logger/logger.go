// Package logger provides the leveled stderr logger shared by the CLI and
// the session subsystem.
package logger

import (
	"log"
	"os"
)

// Level represents the logging level
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var (
	level  = LevelInfo
	stderr = log.New(os.Stderr, "", log.LstdFlags)
)

// SetLevel sets the global log level
func SetLevel(l Level) {
	level = l
}

// SetVerbose enables debug logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelInfo)
	}
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if level >= LevelError {
		stderr.Printf("[ERROR] "+format, args...)
	}
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	if level >= LevelWarn {
		stderr.Printf("[WARN] "+format, args...)
	}
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	if level >= LevelInfo {
		stderr.Printf("[INFO] "+format, args...)
	}
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	if level >= LevelDebug {
		stderr.Printf("[DEBUG] "+format, args...)
	}
}
