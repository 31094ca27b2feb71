// Package storetest provides an in-memory store.Store for tests and a
// conformance suite every store implementation should pass.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/unkn0wn-root/memocache/store"
)

type memEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

// Memory is a map-backed store with TTLs, call counting and failure injection.
type Memory struct {
	mu    sync.Mutex
	m     map[string]memEntry
	err   error
	calls int
	now   func() time.Time
}

var _ store.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{m: make(map[string]memEntry), now: time.Now}
}

// Fail makes every subsequent call return err. Pass nil to recover.
func (p *Memory) Fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Calls reports how many store operations were issued, failed ones included.
func (p *Memory) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Advance moves the store clock forward so TTLs can be exercised without sleeping.
func (p *Memory) Advance(d time.Duration) {
	p.mu.Lock()
	base := p.now
	p.now = func() time.Time { return base().Add(d) }
	p.mu.Unlock()
}

// TTL returns the remaining lifetime of key; zero means no expiry or missing.
func (p *Memory) TTL(key string) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.m[key]
	if !ok || e.exp.IsZero() {
		return 0
	}
	return e.exp.Sub(p.now())
}

// Raw returns the stored payload without counting a call.
func (p *Memory) Raw(key string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.live(key)
	return e.v, ok
}

// Len reports the number of live keys.
func (p *Memory) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for k := range p.m {
		if _, ok := p.live(k); ok {
			n++
		}
	}
	return n
}

func (p *Memory) begin() error {
	p.calls++
	return p.err
}

func (p *Memory) live(key string) (memEntry, bool) {
	e, ok := p.m[key]
	if !ok {
		return memEntry{}, false
	}
	if !e.exp.IsZero() && !p.now().Before(e.exp) {
		delete(p.m, key)
		return memEntry{}, false
	}
	return e, true
}

func (p *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.begin(); err != nil {
		return nil, false, err
	}
	e, ok := p.live(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.v...), true, nil
}

func (p *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.begin(); err != nil {
		return false, err
	}
	var exp time.Time
	if ttl > 0 {
		exp = p.now().Add(ttl)
	}
	p.m[key] = memEntry{v: append([]byte(nil), value...), exp: exp}
	return true, nil
}

func (p *Memory) Del(_ context.Context, keys ...string) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.begin(); err != nil {
		return 0, err
	}
	var n int64
	for _, k := range keys {
		if _, ok := p.live(k); ok {
			delete(p.m, k)
			n++
		}
	}
	return n, nil
}

func (p *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.begin(); err != nil {
		return nil, err
	}
	var out []string
	for k := range p.m {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if _, ok := p.live(k); ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (p *Memory) Close(context.Context) error { return nil }
