// Package diag is the library's own operational logger: diagnostics about
// the pump, GC, and renderer background loops, kept separate from the
// task-event output that reporters produce. Adapted from the teacher
// module's internal/log logrus adapter, trimmed to the fields this module
// needs (no multi-writer/Loki branches — a library has no log-shipping
// config of its own).
package diag

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of logging operations the tree's background loops
// use to report their own failures.
type Logger interface {
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
}

type logrusAdapter struct {
	entry *logrus.Entry
}

// New builds the default diagnostic logger: logrus writing to stderr with
// the component-tagged formatter below.
func New(component string) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&componentFormatter{})
	l.SetLevel(logrus.WarnLevel)
	return &logrusAdapter{entry: l.WithField("component", component)}
}

func (l *logrusAdapter) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *logrusAdapter) Error(args ...interface{}) { l.entry.Error(args...) }
func (l *logrusAdapter) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}
func (l *logrusAdapter) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}
func (l *logrusAdapter) WithField(key string, value interface{}) Logger {
	return &logrusAdapter{entry: l.entry.WithField(key, value)}
}
