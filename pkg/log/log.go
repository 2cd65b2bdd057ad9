// Package log provides the logger used throughout the emulator.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the logging interface used by every component.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Fatal(args ...interface{})
}

// New returns a Logger writing to stderr at the given level
// (debug, info, warn, error).
func New(level string) (Logger, error) {
	return NewWithOutput(os.Stderr, level)
}

// NewWithOutput returns a Logger writing to w at the given level.
func NewWithOutput(w io.Writer, level string) (Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l, nil
}

// WithComponent scopes l to the named component. Loggers that
// are not backed by logrus are returned unchanged.
func WithComponent(l Logger, component string) Logger {
	switch v := l.(type) {
	case *logrus.Logger:
		return v.WithField("component", component)
	case *logrus.Entry:
		return v.WithField("component", component)
	}
	return l
}

// nullLogger is a logger that does nothing.
type nullLogger struct{}

func (nullLogger) Fatal(args ...interface{}) {}

func (nullLogger) Infof(format string, args ...interface{}) {}

func (nullLogger) Errorf(format string, args ...interface{}) {}

func (nullLogger) Debugf(format string, args ...interface{}) {}

func (nullLogger) Warnf(format string, args ...interface{}) {}

// NewNullLogger returns a logger that does nothing.
func NewNullLogger() Logger {
	return nullLogger{}
}
