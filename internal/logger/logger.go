// Package logger holds the shared logrus instance for the screening
// service. Every package logs through it so server output stays
// JSON-structured end to end, which is what the log pipeline ingests.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(levelFromEnv())
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return l
}

// levelFromEnv reads LOG_LEVEL; anything unrecognized means Info.
func levelFromEnv() logrus.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// WithFields creates an entry carrying the given fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithField creates an entry carrying a single field.
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithError creates an entry carrying an error field.
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}

// Info logs at info level.
func Info(msg string) {
	Logger.Info(msg)
}

// Error logs at error level.
func Error(msg string) {
	Logger.Error(msg)
}

// Debug logs at debug level.
func Debug(msg string) {
	Logger.Debug(msg)
}

// Warn logs at warn level.
func Warn(msg string) {
	Logger.Warn(msg)
}
