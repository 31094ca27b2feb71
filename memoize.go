package memocache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/unkn0wn-root/memocache/internal/keys"
)

// Func is a function that can be memoized. Several arguments travel as one
// value, usually a struct; that value is what the default key function hashes.
type Func[A, R any] func(ctx context.Context, args A) (R, error)

type memoConfig struct {
	ttl   time.Duration
	keyFn any // func(A) (string, error)
}

// Option configures Memoize.
type Option func(*memoConfig)

// WithTTL sets how long results live. 0 uses the engine default.
func WithTTL(d time.Duration) Option {
	return func(c *memoConfig) { c.ttl = d }
}

// WithKeyFunc replaces argument hashing, e.g. to ignore parameters that do
// not affect the result. Its argument type must match the memoized func's.
func WithKeyFunc[A any](f func(args A) (string, error)) Option {
	return func(c *memoConfig) { c.keyFn = f }
}

// Memoized wraps a Func with a cache. Results are stored under
// <name>:<key(args)> (plus the engine prefix) and served until they expire
// or are busted.
//
// There is no request coalescing: concurrent misses for the same arguments
// each call the wrapped func and each store the result, last write wins.
type Memoized[A, R any] struct {
	engine *Engine
	name   string
	fn     Func[A, R]
	keyFn  func(A) (string, error)
	ttl    time.Duration
}

// Memoize wraps fn. name must be stable across processes and unique per
// function; "<package>:<func>" is the convention. BustAll removes every key
// under "<name>:", so on one engine no name may be a ':'-separated prefix of
// another ("billing" and "billing:total" cannot both be used).
//
// Memoize panics on an empty name, a nil fn, a key func whose argument type
// is not A, or a name that overlaps one already memoized on e.
func Memoize[A, R any](e *Engine, name string, fn Func[A, R], opts ...Option) *Memoized[A, R] {
	if name == "" {
		panic("memocache: Memoize requires a name")
	}
	if fn == nil {
		panic("memocache: Memoize requires a func")
	}
	var cfg memoConfig
	for _, o := range opts {
		o(&cfg)
	}
	m := &Memoized[A, R]{engine: e, name: name, fn: fn, ttl: cfg.ttl, keyFn: defaultKey[A]}
	if cfg.keyFn != nil {
		kf, ok := cfg.keyFn.(func(A) (string, error))
		if !ok {
			panic(fmt.Sprintf("memocache: key func for %q has type %T, want func(%T) (string, error)", name, cfg.keyFn, *new(A)))
		}
		m.keyFn = kf
	}
	if err := e.claimName(name); err != nil {
		panic(err.Error())
	}
	return m
}

// claimName records name for e. Registering the same name twice is fine.
func (e *Engine) claimName(name string) error {
	e.namesMu.Lock()
	defer e.namesMu.Unlock()
	if _, ok := e.names[name]; ok {
		return nil
	}
	for n := range e.names {
		if strings.HasPrefix(n, keys.Function(name)) || strings.HasPrefix(name, keys.Function(n)) {
			return fmt.Errorf("memocache: function name %q overlaps %q; BustAll of one would remove the other's entries", name, n)
		}
	}
	if e.names == nil {
		e.names = make(map[string]struct{})
	}
	e.names[name] = struct{}{}
	return nil
}

func defaultKey[A any](args A) (string, error) {
	return keys.HashArgs([]any{args}, nil)
}

// Name returns the identifier the wrapper was registered with.
func (m *Memoized[A, R]) Name() string { return m.name }

// Call returns the cached result for args, or calls the wrapped func and
// caches what it returns. Errors from the wrapped func are returned as-is and
// never cached, and neither are nil results. When the engine is disabled, or
// the key cannot be derived, the func is called directly.
func (m *Memoized[A, R]) Call(ctx context.Context, args A) (R, error) {
	if !m.engine.Enabled() {
		return m.fn(ctx, args)
	}
	key, err := m.MakeKey(args)
	if err != nil {
		m.engine.log.Warn("memocache: key derivation failed, calling uncached", Fields{"func": m.name, "err": err})
		return m.fn(ctx, args)
	}

	var cached R
	if m.engine.Get(ctx, key, &cached) {
		return cached, nil
	}

	res, err := m.fn(ctx, args)
	if err != nil {
		return res, err
	}
	if !isNil(res) {
		m.engine.Set(ctx, key, res, m.ttl)
	}
	return res, nil
}

// Func returns Call as a plain function, for drop-in use at call sites.
func (m *Memoized[A, R]) Func() Func[A, R] { return m.Call }

// MakeKey returns the key Call uses for args, without the engine prefix and
// without touching the store.
func (m *Memoized[A, R]) MakeKey(args A) (string, error) {
	h, err := m.keyFn(args)
	if err != nil {
		return "", err
	}
	return keys.Call(m.name, h), nil
}

// Bust deletes the cached result for args.
func (m *Memoized[A, R]) Bust(ctx context.Context, args A) int64 {
	key, err := m.MakeKey(args)
	if err != nil {
		m.engine.log.Warn("memocache: key derivation failed, nothing busted", Fields{"func": m.name, "err": err})
		return 0
	}
	return m.engine.Delete(ctx, key)
}

// BustAll deletes every cached result of this function.
func (m *Memoized[A, R]) BustAll(ctx context.Context) int64 {
	ks := m.engine.Keys(ctx, m.name)
	return m.engine.DeleteRaw(ctx, ks...)
}
