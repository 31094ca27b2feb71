// Package logrus adapts a logrus entry to memocache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/memocache"
)

var _ memocache.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New wraps l. A nil l uses logrus.StandardLogger().
func New(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return Logger{E: logrus.NewEntry(l)}
}

func (l Logger) Debug(msg string, f memocache.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f memocache.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f memocache.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f memocache.Fields) { l.with(f).Error(msg) }

// with moves an "err" field to logrus.ErrorKey so formatters treat it as the error.
func (l Logger) with(f memocache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	lf := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			lf[logrus.ErrorKey] = err
			continue
		}
		lf[k] = v
	}
	return l.E.WithFields(lf)
}
