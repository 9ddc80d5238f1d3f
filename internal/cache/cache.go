// Package cache memoizes JSON values behind content-addressed keys on a
// pluggable TTL store. Every operation is best-effort: store failures are
// logged and reported as a miss, false or zero.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultNamespace prefixes every key.
	DefaultNamespace = "placefinder:"
	// CounterTTL is the fixed lifetime of Increment counters.
	CounterTTL = 60 * time.Second

	defaultTTL     = time.Hour
	initialBackoff = 250 * time.Millisecond
	maxBackoff     = 10 * time.Second
	connectTimeout = 3 * time.Second
	opTimeout      = 2 * time.Second
	keySeparator   = ":"
)

// Options tunes a Cache.
type Options struct {
	Namespace  string
	DefaultTTL time.Duration
	// Now overrides the clock used for backoff scheduling.
	Now func() time.Time
}

// Cache is safe for concurrent use. A nil *Cache is a valid disabled cache.
type Cache struct {
	connect    Connector
	namespace  string
	defaultTTL time.Duration
	now        func() time.Time
	logger     *zap.Logger

	mu          sync.Mutex
	store       Store
	connecting  bool
	delay       time.Duration
	nextAttempt time.Time
}

// New creates a cache that connects through connect on first use.
func New(connect Connector, opts Options, logger *zap.Logger) *Cache {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = defaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		connect:    connect,
		namespace:  opts.Namespace,
		defaultTTL: opts.DefaultTTL,
		now:        opts.Now,
		logger:     logger.Named("cache"),
	}
}

// NewWithStore creates a cache over an already connected store.
func NewWithStore(store Store, opts Options, logger *zap.Logger) *Cache {
	return New(func(context.Context) (Store, error) { return store, nil }, opts, logger)
}

// Key derives the storage key for parts under namespace. Order matters.
func Key(namespace string, parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, keySeparator)))
	return namespace + hex.EncodeToString(sum[:])
}

// Key derives the storage key for parts.
func (c *Cache) Key(parts ...string) string {
	if c == nil {
		return Key(DefaultNamespace, parts...)
	}
	return Key(c.namespace, parts...)
}

// Get decodes the value stored under parts into dst and reports whether it
// was found. Undecodable values count as a miss.
func (c *Cache) Get(ctx context.Context, dst any, parts ...string) bool {
	store, ok := c.acquire(ctx)
	if !ok {
		return false
	}
	key := c.Key(parts...)

	opCtx, cancel := opContext(ctx)
	defer cancel()

	data, err := store.Get(opCtx, key)
	if errors.Is(err, ErrMiss) {
		c.succeed()
		return false
	}
	if err != nil {
		c.fail("get", err)
		return false
	}
	c.succeed()

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Debug("discarding undecodable cache value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under parts for ttl, or the default TTL when ttl <= 0.
func (c *Cache) Set(ctx context.Context, value any, ttl time.Duration, parts ...string) bool {
	data, err := json.Marshal(value)
	if err != nil {
		if c != nil {
			c.logger.Warn("cache value not serializable", zap.Error(err))
		}
		return false
	}
	store, ok := c.acquire(ctx)
	if !ok {
		return false
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	opCtx, cancel := opContext(ctx)
	defer cancel()

	if err := store.Set(opCtx, c.Key(parts...), data, ttl); err != nil {
		c.fail("set", err)
		return false
	}
	c.succeed()
	return true
}

// Delete removes the value under parts and reports whether one existed.
func (c *Cache) Delete(ctx context.Context, parts ...string) bool {
	store, ok := c.acquire(ctx)
	if !ok {
		return false
	}

	opCtx, cancel := opContext(ctx)
	defer cancel()

	deleted, err := store.Delete(opCtx, c.Key(parts...))
	if err != nil {
		c.fail("delete", err)
		return false
	}
	c.succeed()
	return deleted
}

// Increment bumps the counter under parts and returns its new value, or 0
// when the store is unavailable. Counters expire CounterTTL after creation.
func (c *Cache) Increment(ctx context.Context, parts ...string) int64 {
	store, ok := c.acquire(ctx)
	if !ok {
		return 0
	}

	opCtx, cancel := opContext(ctx)
	defer cancel()

	n, err := store.Incr(opCtx, c.Key(parts...), CounterTTL)
	if err != nil {
		c.fail("increment", err)
		return 0
	}
	c.succeed()
	return n
}

// Ready reports whether a store is connected and not backing off.
func (c *Cache) Ready(ctx context.Context) bool {
	_, ok := c.acquire(ctx)
	return ok
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// acquire returns the store, connecting lazily. While backing off, or while
// another caller is connecting, it returns false without waiting.
func (c *Cache) acquire(ctx context.Context) (Store, bool) {
	if c == nil || c.connect == nil {
		return nil, false
	}
	c.mu.Lock()
	if c.store != nil && !c.now().Before(c.nextAttempt) {
		store := c.store
		c.mu.Unlock()
		return store, true
	}
	if c.connecting || c.now().Before(c.nextAttempt) {
		c.mu.Unlock()
		return nil, false
	}
	c.connecting = true
	c.mu.Unlock()

	connCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), connectTimeout)
	defer cancel()
	store, err := c.connect(connCtx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.connecting = false
	if err != nil {
		c.backoffLocked("connect", err)
		return nil, false
	}
	c.store = store
	c.delay = 0
	c.nextAttempt = time.Time{}
	c.logger.Info("cache store connected")
	return store, true
}

func (c *Cache) fail(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backoffLocked(op, err)
}

func (c *Cache) backoffLocked(op string, err error) {
	if c.delay == 0 {
		c.delay = initialBackoff
	} else {
		c.delay *= 2
		if c.delay > maxBackoff {
			c.delay = maxBackoff
		}
	}
	c.nextAttempt = c.now().Add(c.delay)
	c.logger.Warn("cache store unavailable",
		zap.String("op", op),
		zap.Duration("retry_in", c.delay),
		zap.Error(err),
	)
}

func (c *Cache) succeed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay = 0
	c.nextAttempt = time.Time{}
}

func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), opTimeout)
}
