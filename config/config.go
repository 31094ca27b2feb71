// Package config loads memocache settings from defaults and MEMOCACHE_*
// environment variables.
//
//	MEMOCACHE_ENABLED=false
//	MEMOCACHE_PREFIX=billing
//	MEMOCACHE_DEFAULT_TTL=15m
//	MEMOCACHE_CODEC=cbor
//	MEMOCACHE_REDIS_URL=redis://cache:6379/2
//	MEMOCACHE_REDIS_PING_TIMEOUT=2s
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/unkn0wn-root/memocache"
	"github.com/unkn0wn-root/memocache/codec"
	redisstore "github.com/unkn0wn-root/memocache/store/redis"
)

// EnvPrefix is the default environment variable prefix.
const EnvPrefix = "MEMOCACHE_"

type Config struct {
	Enabled    bool                  `koanf:"enabled"`
	Prefix     string                `koanf:"prefix"`
	DefaultTTL time.Duration         `koanf:"default_ttl"`
	Codec      string                `koanf:"codec"` // msgpack, cbor, json, protobuf
	Redis      redisstore.ConnConfig `koanf:"redis"`
}

// Default returns the settings used when nothing is overridden.
func Default() *Config {
	return &Config{
		Enabled:    true,
		DefaultTTL: time.Hour,
		Codec:      "msgpack",
		Redis: redisstore.ConnConfig{
			Host:        "localhost",
			Port:        6379,
			PingTimeout: 10 * time.Second,
			ScanCount:   100,
		},
	}
}

type loadOptions struct {
	prefix  string
	environ func() []string
}

type Option func(*loadOptions)

// WithEnvPrefix replaces EnvPrefix.
func WithEnvPrefix(p string) Option {
	return func(o *loadOptions) { o.prefix = p }
}

// WithEnviron reads variables from f instead of os.Environ.
func WithEnviron(f func() []string) Option {
	return func(o *loadOptions) { o.environ = f }
}

// Load merges Default with the environment.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{prefix: EnvPrefix, environ: os.Environ}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// only variables that name a known key are loaded
	envToPath := make(map[string]string, len(k.Keys()))
	for _, key := range k.Keys() {
		envToPath[o.prefix+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: o.prefix,
		TransformFunc: func(key, value string) (string, any) {
			return envToPath[key], value
		},
		EnvironFunc: o.environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := c.codec(); err != nil {
		errs = append(errs, err)
	}
	if c.Redis.Port < 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("redis.port out of range: %d", c.Redis.Port))
	}
	if c.Redis.PingTimeout < 0 {
		errs = append(errs, fmt.Errorf("redis.ping_timeout must not be negative: %s", c.Redis.PingTimeout))
	}
	return errors.Join(errs...)
}

func (c *Config) codec() (codec.Codec, error) {
	switch strings.ToLower(c.Codec) {
	case "", "msgpack":
		return codec.Msgpack{}, nil
	case "cbor":
		return codec.NewCBOR(true)
	case "json":
		return codec.JSON{}, nil
	case "protobuf", "proto":
		return codec.Protobuf{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", c.Codec)
	}
}

// Engine converts c into the arguments of memocache.Init. Logger and Hooks
// are left for the caller to fill in.
func (c *Config) Engine() (memocache.Config, error) {
	cd, err := c.codec()
	if err != nil {
		return memocache.Config{}, err
	}
	return memocache.Config{
		Redis:      c.Redis,
		Prefix:     c.Prefix,
		DefaultTTL: c.DefaultTTL,
		Disabled:   !c.Enabled,
		Codec:      cd,
	}, nil
}
