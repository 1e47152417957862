// Package cache provides a key/value cache with a Redis implementation.
// When no address is configured, a no-op cache is used and every lookup misses.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/cropwise/pkg/lifecycle"
)

// System stores short-lived values by key.
type System interface {
	// Get returns the value for key. A miss returns ok == false and a nil error.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key. A zero ttl uses the configured default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Start registers connection verification and shutdown hooks.
	Start(lc *lifecycle.Coordinator) error
	// Enabled reports whether values are actually retained.
	Enabled() bool
}

// New creates a cache system. An empty address yields a no-op cache.
func New(cfg *Config, logger *slog.Logger) System {
	logger = logger.With("system", "cache")

	if cfg.Address == "" {
		logger.Info("cache address not configured, caching disabled")
		return noop{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &redisCache{
		client:      client,
		logger:      logger,
		ttl:         cfg.TTLDuration(),
		connTimeout: cfg.ConnTimeoutDuration(),
	}
}

type redisCache struct {
	client      *redis.Client
	logger      *slog.Logger
	ttl         time.Duration
	connTimeout time.Duration
}

func (c *redisCache) Enabled() bool { return true }

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return v, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache connection")

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), c.connTimeout)
		defer cancel()

		if err := c.client.Ping(ctx).Err(); err != nil {
			c.logger.Warn("cache ping failed, lookups will miss", "error", err)
			return
		}

		c.logger.Info("cache connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := c.client.Close(); err != nil {
			c.logger.Error("cache close failed", "error", err)
			return
		}
		c.logger.Info("cache connection closed")
	})

	return nil
}

type noop struct{}

func (noop) Enabled() bool { return false }

func (noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (noop) Start(*lifecycle.Coordinator) error { return nil }
