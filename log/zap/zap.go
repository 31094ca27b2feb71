// Package zap adapts a *zap.Logger to memocache.Logger.
package zap

import (
	"sort"

	"github.com/unkn0wn-root/memocache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ memocache.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New returns an adapter for l; a nil l discards everything.
func New(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return Logger{L: l.WithOptions(zap.AddCallerSkip(1))}
}

func (z Logger) Debug(msg string, f memocache.Fields) { z.log(zapcore.DebugLevel, msg, f) }
func (z Logger) Info(msg string, f memocache.Fields)  { z.log(zapcore.InfoLevel, msg, f) }
func (z Logger) Warn(msg string, f memocache.Fields)  { z.log(zapcore.WarnLevel, msg, f) }
func (z Logger) Error(msg string, f memocache.Fields) { z.log(zapcore.ErrorLevel, msg, f) }

func (z Logger) log(lvl zapcore.Level, msg string, f memocache.Fields) {
	if ce := z.L.Check(lvl, msg); ce != nil {
		ce.Write(fields(f)...)
	}
}

// fields sorts keys so output is stable. Errors keep zap's error encoding.
func fields(f memocache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]zap.Field, 0, len(f))
	for _, k := range names {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
