package memocache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/memocache/codec"
	"github.com/unkn0wn-root/memocache/internal/keys"
	"github.com/unkn0wn-root/memocache/store"
)

type settings struct {
	prefix     string
	defaultTTL time.Duration
	enabled    bool
}

// Engine is the only component that talks to the store. It applies the
// namespace prefix, enforces the enable switch and contains every store and
// codec failure: reads degrade to "absent", Set degrades to false.
//
// An Engine is safe for concurrent use. Settings changed with SetEnabled,
// SetPrefix or SetDefaultTTL apply to operations that start afterwards.
type Engine struct {
	store store.Store
	codec codec.Codec
	log   Logger
	hooks Hooks

	mu  sync.Mutex // serializes settings writers
	cfg atomic.Pointer[settings]

	closeOnce sync.Once
	closeErr  error

	namesMu sync.Mutex
	names   map[string]struct{} // memoized function names
}

func (e *Engine) settings() *settings { return e.cfg.Load() }

func (e *Engine) update(f func(s *settings)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := *e.cfg.Load()
	f(&next)
	e.cfg.Store(&next)
}

// Enabled reports whether cache operations reach the store.
func (e *Engine) Enabled() bool { return e.settings().enabled }

// Prefix returns the namespace prepended to every key.
func (e *Engine) Prefix() string { return e.settings().prefix }

// DefaultTTL returns the expiry used when Set is given no ttl.
func (e *Engine) DefaultTTL() time.Duration { return e.settings().defaultTTL }

// SetEnabled turns the cache on or off for subsequent operations.
func (e *Engine) SetEnabled(v bool) { e.update(func(s *settings) { s.enabled = v }) }

// SetPrefix changes the namespace. Entries written under the old one stay in the store.
func (e *Engine) SetPrefix(p string) { e.update(func(s *settings) { s.prefix = p }) }

// SetDefaultTTL changes the fallback expiry; d <= 0 means no expiry.
func (e *Engine) SetDefaultTTL(d time.Duration) { e.update(func(s *settings) { s.defaultTTL = d }) }

// ApplyPrefix returns prefix:key, or key unchanged when no prefix is set.
func (e *Engine) ApplyPrefix(key string) string {
	return keys.Prefixed(e.settings().prefix, key)
}

// ApplyPrefixes prefixes every key, preserving order.
func (e *Engine) ApplyPrefixes(ks []string) []string {
	return keys.PrefixedAll(e.settings().prefix, ks)
}

// Get decodes the value stored under key into dst, which must be a pointer.
// It returns false without touching the store when disabled, and false on
// a miss, a store failure, a decode failure, or a value that decodes to nil.
// dst may be partially written when false is returned after a decode failure.
func (e *Engine) Get(ctx context.Context, key string, dst any) bool {
	s := e.settings()
	if !s.enabled {
		return false
	}
	k := keys.Prefixed(s.prefix, key)
	raw, ok := e.read(ctx, k)
	if !ok {
		e.hooks.Miss(k)
		return false
	}
	if err := e.codec.Unmarshal(raw, dst); err != nil {
		e.log.Error("memocache: decode failed", Fields{"key": k, "type": fmt.Sprintf("%T", dst), "err": err})
		e.hooks.Miss(k)
		return false
	}
	if isNilTarget(dst) {
		e.hooks.Miss(k)
		return false
	}
	e.hooks.Hit(k)
	return true
}

// GetOr returns the value stored under key, or def when there is none.
func GetOr[V any](ctx context.Context, e *Engine, key string, def V) V {
	var v V
	if !e.Get(ctx, key, &v) {
		return def
	}
	return v
}

// Set stores value under key. ttl <= 0 falls back to the default TTL; if that
// is also unset the entry never expires. Set reports true without touching
// the store when disabled.
//
// nil is not cacheable: setting a nil value removes whatever key held, so a
// following Get reports absent either way.
func (e *Engine) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	s := e.settings()
	if !s.enabled {
		return true
	}
	k := keys.Prefixed(s.prefix, key)
	if isNil(value) {
		return e.del(ctx, []string{k}) >= 0
	}
	raw, err := e.codec.Marshal(value)
	if err != nil {
		typ := fmt.Sprintf("%T", value)
		e.log.Error("memocache: encode failed", Fields{"key": k, "type": typ, "err": err})
		e.hooks.EncodeError(k, typ, err)
		return false
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if e.store == nil {
		e.storeFailed("set", k, 1, ErrNoStore)
		return false
	}
	ok, err := e.store.Set(ctx, k, raw, ttl)
	if err != nil {
		e.storeFailed("set", k, 1, err)
		return false
	}
	if !ok {
		e.log.Debug("memocache: set rejected by store", Fields{"key": k})
	}
	return ok
}

// Delete removes keys after applying the prefix. It returns how many
// existed; 0 when disabled, when keys is empty, or when the store failed.
func (e *Engine) Delete(ctx context.Context, ks ...string) int64 {
	s := e.settings()
	if !s.enabled || len(ks) == 0 {
		return 0
	}
	return max(e.del(ctx, keys.PrefixedAll(s.prefix, ks)), 0)
}

// DeleteRaw removes fully qualified storage keys, such as those returned by
// Keys, without prefixing them again.
func (e *Engine) DeleteRaw(ctx context.Context, ks ...string) int64 {
	if !e.Enabled() || len(ks) == 0 {
		return 0
	}
	return max(e.del(ctx, ks), 0)
}

// Keys lists the storage keys of the named function, or every key in the
// engine's scope when name is empty. With no prefix and no name that is
// every key in the store, including keys memocache did not write. The scan
// is "<name>:", which also matches any name that extends it after a ':'.
func (e *Engine) Keys(ctx context.Context, name string) []string {
	s := e.settings()
	if !s.enabled {
		return []string{}
	}
	scan := ""
	if name != "" {
		scan = keys.Function(name)
	}
	return e.list(ctx, keys.Prefixed(s.prefix, scan))
}

// Bust deletes every entry in the engine's scope and returns how many were
// removed. Without a prefix there is no way to tell memocache's keys from
// anyone else's, so Bust refuses to run unless force is set.
func (e *Engine) Bust(ctx context.Context, force bool) int64 {
	s := e.settings()
	if !s.enabled {
		return 0
	}
	if s.prefix == "" && !force {
		e.log.Warn("memocache: bust skipped, no prefix is set and it would remove every key in the store; pass force to run it anyway", nil)
		e.hooks.BustRefused()
		return 0
	}
	ks := e.list(ctx, keys.Prefixed(s.prefix, ""))
	if len(ks) == 0 {
		return 0
	}
	n := max(e.del(ctx, ks), 0)
	e.log.Info("memocache: bust", Fields{"prefix": s.prefix, "removed": n})
	return n
}

// Close releases the store. Safe to call with no store and more than once.
func (e *Engine) Close(ctx context.Context) error {
	e.closeOnce.Do(func() {
		if e.store == nil {
			return
		}
		if err := e.store.Close(ctx); err != nil {
			e.closeErr = &OpError{Op: "close", Err: err}
			e.log.Error("memocache: close failed", Fields{"err": err})
		}
	})
	return e.closeErr
}

func (e *Engine) read(ctx context.Context, k string) ([]byte, bool) {
	if e.store == nil {
		e.storeFailed("get", k, 1, ErrNoStore)
		return nil, false
	}
	raw, ok, err := e.store.Get(ctx, k)
	if err != nil {
		e.storeFailed("get", k, 1, err)
		return nil, false
	}
	return raw, ok
}

// del returns -1 when the store failed.
func (e *Engine) del(ctx context.Context, ks []string) int64 {
	if e.store == nil {
		e.storeFailed("delete", ks[0], len(ks), ErrNoStore)
		return -1
	}
	n, err := e.store.Del(ctx, ks...)
	if err != nil {
		e.storeFailed("delete", ks[0], len(ks), err)
		return -1
	}
	return n
}

func (e *Engine) list(ctx context.Context, prefix string) []string {
	if e.store == nil {
		e.storeFailed("keys", prefix, 0, ErrNoStore)
		return []string{}
	}
	ks, err := e.store.Keys(ctx, prefix)
	if err != nil {
		e.storeFailed("keys", prefix, 0, err)
		return []string{}
	}
	if ks == nil {
		ks = []string{}
	}
	return ks
}

func (e *Engine) storeFailed(op, key string, n int, err error) {
	oe := &OpError{Op: op, Key: key, N: n, Err: err}
	e.log.Error("memocache: store "+op+" failed", Fields{"key": key, "err": oe})
	e.hooks.StoreError(op, key, err)
}
