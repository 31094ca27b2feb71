// Package ristretto adapts dgraph-io/ristretto to store.Store.
//
// Ristretto hashes keys and cannot enumerate them, so the store keeps its own
// index of admitted keys for Keys. Index entries whose value has been evicted
// or has expired are pruned lazily during Keys and Del.
package ristretto

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/memocache/store"
)

type Store struct {
	c *rc.Cache

	mu    sync.Mutex
	index map[string]struct{}
}

var _ store.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // bytes; each entry costs len(value)
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c, index: make(map[string]struct{})}, nil
}

func (p *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// drop unexpected entry shape
		p.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set returns ok=false when ristretto's admission policy drops the write.
// Writes are flushed before returning so a following Get observes them.
func (p *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	if !p.c.SetWithTTL(key, value, int64(len(value)), ttl) {
		return false, nil
	}
	p.c.Wait()
	if _, ok := p.c.Get(key); !ok {
		return false, nil
	}
	p.mu.Lock()
	p.index[key] = struct{}{}
	p.mu.Unlock()
	return true, nil
}

func (p *Store) Del(_ context.Context, keys ...string) (int64, error) {
	var n int64
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, k := range keys {
		if _, ok := p.c.Get(k); ok {
			n++
		}
		p.c.Del(k)
		delete(p.index, k)
	}
	p.c.Wait()
	return n, nil
}

func (p *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for k := range p.index {
		if _, ok := p.c.Get(k); !ok {
			delete(p.index, k)
			continue
		}
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (p *Store) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes ristretto's counters when Config.Metrics is set.
func (p *Store) Metrics() *rc.Metrics { return p.c.Metrics }
