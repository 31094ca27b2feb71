package zap

import (
	"errors"
	"testing"

	"github.com/unkn0wn-root/memocache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := New(zap.New(core))

	l.Debug("dropped", nil)
	l.Info("memocache: bust", memocache.Fields{"prefix": "app", "removed": int64(3)})
	l.Error("memocache: store get failed", memocache.Fields{"key": "app:k", "err": errors.New("down")})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (debug is below the level)", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["prefix"] != "app" || ctx["removed"] != int64(3) {
		t.Fatalf("info fields = %v", ctx)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("level = %v", entries[1].Level)
	}
	if got := entries[1].ContextMap()["err"]; got != "down" {
		t.Fatalf("err field = %v", got)
	}
	if entries[1].Context[0].Key != "err" {
		t.Fatalf("fields are not sorted: %v", entries[1].Context)
	}
}

func TestNilLogger(t *testing.T) {
	New(nil).Warn("nothing happens", memocache.Fields{"k": 1})
}
