// Package log provides the small logging facade used throughout gbcore.
// Components accept a Logger instead of importing logrus directly so the
// core stays host-agnostic: a headless test harness can hand in a
// NewNullLogger() while cmd/gbcore wires up the real thing.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the minimal logging surface the core depends on.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logrusLogger struct {
	entry *logrus.Logger
}

// New returns a Logger backed by logrus, formatted for terminal output
// without timestamps (the emulator's own cycle clock is the relevant time
// axis, not wall time).
func New() Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Level = logrus.InfoLevel
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    false,
		DisableTimestamp: true,
		DisableSorting:   true,
	}
	return &logrusLogger{entry: l}
}

// NewVerbose returns a Logger with debug-level output enabled.
func NewVerbose() Logger {
	l := New().(*logrusLogger)
	l.entry.Level = logrus.DebugLevel
	return l
}

func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
