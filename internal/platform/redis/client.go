// Package redis owns the go-redis client used by the token revocation list.
// Redis is optional in this deployment; a nil client means single-instance
// mode with the in-memory list.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"aakseva/internal/platform/config"
)

// Client wraps the go-redis client so callers get a health check alongside
// the raw commands.
type Client struct {
	*redis.Client
}

// New connects and pings Redis. Returns nil when no URL is configured so
// callers can fall back to in-memory behavior.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers. Wired into the
// liveness probe so a dead revocation backend surfaces there instead of as
// 500s on admin routes.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
