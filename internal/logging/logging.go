// Package logging provides the structured logging sink used across
// crateindex, backed by logrus.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging sink consumed by every component.
// Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, params ...any)
	Info(msg string, params ...any)
	Warn(msg string, params ...any)
	Error(msg string, params ...any)
	Critical(msg string, params ...any)
}

// Logrus adapts a *logrus.Logger to the Logger interface. logrus.Logger is
// already safe for concurrent use across goroutines.
type Logrus struct {
	entry *logrus.Logger
}

// New creates a Logrus logger writing to stderr at the given level name
// ("debug", "info", "warn", "error"). An unparsable level falls back to info.
func New(level string) *Logrus {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return &Logrus{entry: l}
}

func fields(params []any) logrus.Fields {
	f := make(logrus.Fields, len(params)/2)
	for i := 0; i+1 < len(params); i += 2 {
		key, ok := params[i].(string)
		if !ok {
			continue
		}
		f[key] = params[i+1]
	}
	return f
}

func (l *Logrus) Debug(msg string, params ...any) {
	l.entry.WithFields(fields(params)).Debug(msg)
}

func (l *Logrus) Info(msg string, params ...any) {
	l.entry.WithFields(fields(params)).Info(msg)
}

func (l *Logrus) Warn(msg string, params ...any) {
	l.entry.WithFields(fields(params)).Warn(msg)
}

func (l *Logrus) Error(msg string, params ...any) {
	l.entry.WithFields(fields(params)).Error(msg)
}

func (l *Logrus) Critical(msg string, params ...any) {
	l.entry.WithFields(fields(params)).Error("CRITICAL: " + msg)
}

// Noop discards every message. Used as the default Logger in tests and in
// components constructed without an explicit sink.
type Noop struct{}

func (Noop) Debug(string, ...any)    {}
func (Noop) Info(string, ...any)     {}
func (Noop) Warn(string, ...any)     {}
func (Noop) Error(string, ...any)    {}
func (Noop) Critical(string, ...any) {}
