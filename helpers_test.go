package memocache

import (
	"context"
	"sync"
	"testing"

	"github.com/unkn0wn-root/memocache/store/storetest"
)

type logLine struct {
	level string
	msg   string
	f     Fields
}

// recorder implements Logger and Hooks.
type recorder struct {
	mu     sync.Mutex
	lines  []logLine
	hits   []string
	misses []string
	errs   []string // op:key
	encErr []string // type
	bustNo int
}

func (r *recorder) add(level, msg string, f Fields) {
	r.mu.Lock()
	r.lines = append(r.lines, logLine{level, msg, f})
	r.mu.Unlock()
}

func (r *recorder) Debug(msg string, f Fields) { r.add("debug", msg, f) }
func (r *recorder) Info(msg string, f Fields)  { r.add("info", msg, f) }
func (r *recorder) Warn(msg string, f Fields)  { r.add("warn", msg, f) }
func (r *recorder) Error(msg string, f Fields) { r.add("error", msg, f) }

func (r *recorder) Hit(k string)  { r.mu.Lock(); r.hits = append(r.hits, k); r.mu.Unlock() }
func (r *recorder) Miss(k string) { r.mu.Lock(); r.misses = append(r.misses, k); r.mu.Unlock() }
func (r *recorder) StoreError(op, k string, _ error) {
	r.mu.Lock()
	r.errs = append(r.errs, op+":"+k)
	r.mu.Unlock()
}
func (r *recorder) EncodeError(_, typ string, _ error) {
	r.mu.Lock()
	r.encErr = append(r.encErr, typ)
	r.mu.Unlock()
}
func (r *recorder) BustRefused() { r.mu.Lock(); r.bustNo++; r.mu.Unlock() }

func (r *recorder) count(level string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.lines {
		if l.level == level {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T, optsOpt func(*Options)) (*Engine, *storetest.Memory, *recorder) {
	t.Helper()
	mem := storetest.NewMemory()
	rec := &recorder{}
	opts := Options{
		Store:  mem,
		Prefix: "test",
		Logger: rec,
		Hooks:  rec,
	}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	e := New(opts)
	t.Cleanup(func() { _ = e.Close(context.Background()) })
	return e, mem, rec
}
