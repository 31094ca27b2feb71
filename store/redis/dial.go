package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 10 * time.Second

// ConnConfig describes how to reach a Redis server. URL wins over Host/Port.
type ConnConfig struct {
	URL         string        `koanf:"url"`
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	DB          int           `koanf:"db"`
	Password    string        `koanf:"password"`
	PoolSize    int           `koanf:"pool_size"`
	PingTimeout time.Duration `koanf:"ping_timeout"`
	ScanCount   int64         `koanf:"scan_count"`
}

// Dial builds a client from cfg, verifies it with PING and returns a store
// that owns (and closes) the client.
func Dial(ctx context.Context, cfg ConnConfig) (*Redis, error) {
	client, err := buildClient(cfg)
	if err != nil {
		return nil, err
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis (timeout=%s): %w", timeout, err)
	}
	return New(Config{Client: client, CloseClient: true, ScanCount: cfg.ScanCount})
}

func buildClient(cfg ConnConfig) (*goredis.Client, error) {
	if cfg.URL != "" {
		opt, err := goredis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis URL: %w", err)
		}
		if cfg.PoolSize > 0 {
			opt.PoolSize = cfg.PoolSize
		}
		return goredis.NewClient(opt), nil
	}
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 6379
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}), nil
}
