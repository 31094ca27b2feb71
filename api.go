package memocache

import (
	"context"
	"fmt"
	"time"

	"github.com/unkn0wn-root/memocache/codec"
	"github.com/unkn0wn-root/memocache/store"
	redisstore "github.com/unkn0wn-root/memocache/store/redis"
)

// Options tune an Engine built with New. Everything is optional; a zero
// Options gives an enabled engine with no store, which degrades every read
// to a miss and every write to false until a store is supplied.
type Options struct {
	Store      store.Store   // already-connected store; nil => not configured
	Codec      codec.Codec   // nil => codec.Msgpack
	Prefix     string        // namespace for every key; empty => keys are stored as-is
	DefaultTTL time.Duration // used when a Set passes no ttl; <= 0 => no expiry
	Disabled   bool          // default false (enabled)
	Logger     Logger        // if nil, NopLogger is used
	Hooks      Hooks         // if nil, NopHooks is used
}

// New builds an engine from opts. It never dials anything.
func New(opts Options) *Engine {
	e := &Engine{
		store: opts.Store,
		codec: coalesce[codec.Codec](opts.Codec, codec.Msgpack{}),
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
		hooks: coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
	e.cfg.Store(&settings{
		prefix:     opts.Prefix,
		defaultTTL: opts.DefaultTTL,
		enabled:    !opts.Disabled,
	})
	return e
}

// Config is the application-level entry point: it either reuses an existing
// store or connects to Redis.
type Config struct {
	// Store wins over Redis when set.
	Store store.Store
	Redis redisstore.ConnConfig

	Prefix string
	// DefaultTTL: 0 => one hour; negative => entries never expire.
	DefaultTTL time.Duration
	Disabled   bool
	Codec      codec.Codec
	Logger     Logger
	Hooks      Hooks
}

// Init builds the process engine. When cfg.Disabled is set no connection is
// attempted and the returned engine answers every call in disabled mode; a
// Store passed in cfg is still attached so the engine can be enabled later.
func Init(ctx context.Context, cfg Config) (*Engine, error) {
	log := coalesce[Logger](cfg.Logger, NopLogger{})
	opts := Options{
		Store:      cfg.Store,
		Codec:      cfg.Codec,
		Prefix:     cfg.Prefix,
		DefaultTTL: coalesce(cfg.DefaultTTL, Hour),
		Disabled:   cfg.Disabled,
		Logger:     log,
		Hooks:      cfg.Hooks,
	}
	if cfg.Disabled {
		log.Info("memocache: initialization skipped, cache disabled", nil)
		return New(opts), nil
	}
	if opts.Store == nil {
		log.Info("memocache: connecting to redis", Fields{
			"url":  cfg.Redis.URL,
			"host": cfg.Redis.Host,
			"port": cfg.Redis.Port,
			"db":   cfg.Redis.DB,
		})
		st, err := redisstore.Dial(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("memocache: %w", err)
		}
		opts.Store = st
	}
	log.Info("memocache: initialized", Fields{"prefix": cfg.Prefix, "default_ttl": opts.DefaultTTL})
	return New(opts), nil
}
