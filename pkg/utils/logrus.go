package utils

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LogrusLogger adapts a logrus entry to Logger.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger creates a logrus-backed logger. format is "text" or "json".
func NewLogrusLogger(level LogLevel, output io.Writer, format string) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(output)
	l.SetLevel(toLogrusLevel(level))
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

func toLogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (l *LogrusLogger) Debug(msg string, args ...interface{}) { l.entry.Debugf(msg, args...) }
func (l *LogrusLogger) Info(msg string, args ...interface{})  { l.entry.Infof(msg, args...) }
func (l *LogrusLogger) Warn(msg string, args ...interface{})  { l.entry.Warnf(msg, args...) }
func (l *LogrusLogger) Error(msg string, args ...interface{}) { l.entry.Errorf(msg, args...) }

// WithField creates a new logger with the given field.
func (l *LogrusLogger) WithField(key string, value interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithField(key, value)}
}

// WithFields creates a new logger with the given fields.
func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}
