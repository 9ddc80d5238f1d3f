package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/place-finder/internal/config"
	"github.com/octobees/place-finder/internal/database"
)

// ConnectorFor returns the lazy connector for the configured driver, or nil
// when caching is disabled.
func ConnectorFor(cfg config.CacheConfig) (Connector, error) {
	switch cfg.Driver {
	case "none":
		return nil, nil
	case "memory", "":
		store := NewMemoryStore(nil)
		return func(context.Context) (Store, error) { return store, nil }, nil
	case "redis":
		return func(ctx context.Context) (Store, error) {
			return OpenRedis(ctx, cfg.RedisURL)
		}, nil
	case "postgres":
		return func(ctx context.Context) (Store, error) {
			pool, err := database.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return nil, err
			}
			if err := database.EnsureCacheSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			return NewPostgresStore(pool), nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}

// FromConfig builds the cache for cfg. It returns nil, a disabled cache,
// when the driver is "none".
func FromConfig(cfg config.CacheConfig, logger *zap.Logger) (*Cache, error) {
	connect, err := ConnectorFor(cfg)
	if err != nil {
		return nil, err
	}
	if connect == nil {
		return nil, nil
	}
	return New(connect, Options{Namespace: cfg.Namespace, DefaultTTL: cfg.TTL}, logger), nil
}

// RunJanitor periodically removes expired rows when the connected store
// supports it. It returns when ctx is done.
func (c *Cache) RunJanitor(ctx context.Context, interval time.Duration) {
	if c == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store, ok := c.acquire(ctx)
			if !ok {
				continue
			}
			sweeper, ok := store.(interface {
				Sweep(ctx context.Context) (int64, error)
			})
			if !ok {
				continue
			}
			n, err := sweeper.Sweep(ctx)
			if err != nil {
				c.logger.Warn("cache sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				c.logger.Debug("cache sweep removed expired entries", zap.Int64("removed", n))
			}
		}
	}
}
