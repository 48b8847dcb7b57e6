package errors

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger provides leveled logging with verbose mode support.
type Logger struct {
	mu      sync.Mutex
	log     *logrus.Logger
	verbose bool
}

// Global logger instance
var defaultLogger = NewLogger(os.Stderr, false)

// NewLogger creates a new logger writing to output.
// Non-verbose loggers only emit errors.
func NewLogger(output io.Writer, verbose bool) *Logger {
	l := logrus.New()
	l.SetOutput(output)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	logger := &Logger{log: l}
	logger.setVerbose(verbose)
	return logger
}

func (l *Logger) setVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
	if verbose {
		l.log.SetLevel(logrus.DebugLevel)
	} else {
		l.log.SetLevel(logrus.ErrorLevel)
	}
}

func (l *Logger) isVerbose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(verbose bool) {
	defaultLogger.setVerbose(verbose)
}

// IsVerbose returns whether verbose logging is enabled.
func IsVerbose() bool {
	return defaultLogger.isVerbose()
}

// SetOutput sets the output writer for the logger.
func SetOutput(w io.Writer) {
	defaultLogger.log.SetOutput(w)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

// LogAPIRequest logs an API request in verbose mode.
func (l *Logger) LogAPIRequest(provider, endpoint, model string, promptLength int) {
	l.log.WithFields(logrus.Fields{
		"provider":      provider,
		"endpoint":      endpoint,
		"model":         model,
		"prompt_length": promptLength,
	}).Debug("API request")
}

// LogAPIResponse logs an API response in verbose mode.
func (l *Logger) LogAPIResponse(provider string, statusCode int, responseLength int, duration time.Duration) {
	l.log.WithFields(logrus.Fields{
		"provider":        provider,
		"status":          statusCode,
		"response_length": responseLength,
		"duration":        duration,
	}).Debug("API response")
}

// LogCompletion records why a backend stopped generating and how many tokens it used.
// It is emitted after every backend call, whether it succeeded or not.
func (l *Logger) LogCompletion(provider, stopReason string, inputTokens, outputTokens int) {
	l.log.WithFields(logrus.Fields{
		"provider":      provider,
		"stop_reason":   stopReason,
		"input_tokens":  inputTokens,
		"output_tokens": outputTokens,
	}).Info("generation finished")
}

// Package-level logging functions using the default logger

// Error logs an error message.
func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

// Info logs an info message.
func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

// LogAPIRequest logs an API request in verbose mode.
func LogAPIRequest(provider, endpoint, model string, promptLength int) {
	defaultLogger.LogAPIRequest(provider, endpoint, model, promptLength)
}

// LogAPIResponse logs an API response in verbose mode.
func LogAPIResponse(provider string, statusCode int, responseLength int, duration time.Duration) {
	defaultLogger.LogAPIResponse(provider, statusCode, responseLength, duration)
}

// LogCompletion records the stop reason and token usage of a backend call.
func LogCompletion(provider, stopReason string, inputTokens, outputTokens int) {
	defaultLogger.LogCompletion(provider, stopReason, inputTokens, outputTokens)
}
