package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	inner *logrus.Logger
}

func NewLogger(level int) *defaultLogger {
	inner := logrus.New()
	inner.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch level {
	case DEBUG:
		inner.SetLevel(logrus.DebugLevel)
	case INFO:
		inner.SetLevel(logrus.InfoLevel)
	case WARNING:
		inner.SetLevel(logrus.WarnLevel)
	case ERROR:
		inner.SetLevel(logrus.ErrorLevel)
	default:
		inner.SetLevel(logrus.PanicLevel)
	}

	return &defaultLogger{inner: inner}
}

// ParseLevel converts a level name from configuration to the level constant.
// Unknown names fall back to INFO.
func ParseLevel(s string) int {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	case "silence", "none":
		return SILENCE
	default:
		return INFO
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.inner.Debugf(msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.inner.Infof(msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.inner.Warnf(msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.inner.Errorf(msg, a...)
}
