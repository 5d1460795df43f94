package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/chhengkhim/confessboard/pkg/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *log.Logger

// Init initializes the logger
func Init(verbose bool) {
	logLevel := parseLevel(config.GetString("log.level"))
	if verbose {
		logLevel = log.DebugLevel
	}

	var out io.Writer = os.Stderr
	if logFile := config.GetString("log.file"); logFile != "" {
		out = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
	}

	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "confessboard",
	})
	logger.SetLevel(logLevel)
}

// SetOutput replaces the logger with one writing to w at the given level.
func SetOutput(w io.Writer, level log.Level) {
	logger = log.New(w)
	logger.SetLevel(level)
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...interface{}) {
	if logger != nil {
		logger.Fatal(msg, args...)
	} else {
		os.Exit(1)
	}
}

// GetLogger returns the logger instance
func GetLogger() *log.Logger {
	return logger
}
