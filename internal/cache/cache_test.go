package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/octobees/place-finder/internal/config"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type payload struct {
	Text  string   `json:"text"`
	Items []string `json:"items"`
}

func newMemoryCache(clock *fakeClock) *Cache {
	return NewWithStore(NewMemoryStore(clock.Now), Options{Now: clock.Now}, nil)
}

func TestKeyDeterministicAndOrderSensitive(t *testing.T) {
	a := Key(DefaultNamespace, "cafe di bandung", `{"lat":1,"lng":2}`)
	b := Key(DefaultNamespace, "cafe di bandung", `{"lat":1,"lng":2}`)
	c := Key(DefaultNamespace, `{"lat":1,"lng":2}`, "cafe di bandung")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Equal(t, "placefinder:", a[:len(DefaultNamespace)])
	require.Len(t, a, len(DefaultNamespace)+32)

	require.Equal(t, "placefinder:"+"d41d8cd98f00b204e9800998ecf8427e", Key(DefaultNamespace))
	require.NotEqual(t, Key("a:", "x"), Key("b:", "x"))
}

func TestRoundTripExpiryAndDelete(t *testing.T) {
	clock := newFakeClock()
	c := newMemoryCache(clock)
	ctx := context.Background()

	in := payload{Text: "hello", Items: []string{"a", "b"}}
	require.True(t, c.Set(ctx, in, time.Minute, "k1", "k2"))

	var out payload
	require.True(t, c.Get(ctx, &out, "k1", "k2"))
	require.Equal(t, in, out)

	clock.Advance(time.Minute)
	require.False(t, c.Get(ctx, &out, "k1", "k2"), "entry must be absent after ttl")

	require.True(t, c.Set(ctx, in, time.Minute, "k1", "k2"))
	require.True(t, c.Delete(ctx, "k1", "k2"))
	require.False(t, c.Get(ctx, &out, "k1", "k2"))
	require.False(t, c.Delete(ctx, "k1", "k2"))
}

func TestSetUsesDefaultTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewWithStore(NewMemoryStore(clock.Now), Options{Now: clock.Now, DefaultTTL: 10 * time.Second}, nil)
	ctx := context.Background()

	require.True(t, c.Set(ctx, "v", 0, "k"))
	clock.Advance(9 * time.Second)
	var out string
	require.True(t, c.Get(ctx, &out, "k"))
	clock.Advance(time.Second)
	require.False(t, c.Get(ctx, &out, "k"))
}

func TestUndecodableValueIsMiss(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(clock.Now)
	c := NewWithStore(store, Options{Now: clock.Now}, nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, c.Key("bad"), []byte("{not json"), time.Minute))
	var out payload
	require.False(t, c.Get(ctx, &out, "bad"))

	require.False(t, c.Set(ctx, make(chan int), time.Minute, "chan"))
}

func TestIncrementFixedExpiry(t *testing.T) {
	clock := newFakeClock()
	c := newMemoryCache(clock)
	ctx := context.Background()

	require.EqualValues(t, 1, c.Increment(ctx, "rate", "1.2.3.4"))
	clock.Advance(30 * time.Second)
	require.EqualValues(t, 2, c.Increment(ctx, "rate", "1.2.3.4"))
	clock.Advance(30 * time.Second)
	require.EqualValues(t, 1, c.Increment(ctx, "rate", "1.2.3.4"), "counter expires 60s after creation")
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	var out payload

	require.False(t, c.Get(ctx, &out, "k"))
	require.False(t, c.Set(ctx, payload{}, time.Minute, "k"))
	require.False(t, c.Delete(ctx, "k"))
	require.Zero(t, c.Increment(ctx, "k"))
	require.False(t, c.Ready(ctx))
	require.NoError(t, c.Close())
}

func TestConnectBackoff(t *testing.T) {
	clock := newFakeClock()
	attempts := 0
	c := New(func(context.Context) (Store, error) {
		attempts++
		return nil, errors.New("connection refused")
	}, Options{Now: clock.Now}, nil)
	ctx := context.Background()
	var out payload

	require.False(t, c.Get(ctx, &out, "k"))
	require.Equal(t, 1, attempts)

	require.False(t, c.Get(ctx, &out, "k"), "must skip the store while backing off")
	require.Equal(t, 1, attempts)

	expected := []time.Duration{250 * time.Millisecond, 500 * time.Millisecond, time.Second, 2 * time.Second,
		4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second}
	for i, d := range expected {
		require.Equal(t, d, c.delay, "delay after attempt %d", i+1)
		clock.Advance(d - time.Millisecond)
		require.False(t, c.Set(ctx, "v", 0, "k"))
		require.Equal(t, i+1, attempts)
		clock.Advance(time.Millisecond)
		require.False(t, c.Set(ctx, "v", 0, "k"))
		require.Equal(t, i+2, attempts)
	}
}

func TestBackoffResetsOnSuccess(t *testing.T) {
	clock := newFakeClock()
	healthy := false
	store := NewMemoryStore(clock.Now)
	c := New(func(context.Context) (Store, error) {
		if !healthy {
			return nil, errors.New("down")
		}
		return store, nil
	}, Options{Now: clock.Now}, nil)
	ctx := context.Background()

	require.False(t, c.Set(ctx, "v", time.Minute, "k"))
	clock.Advance(250 * time.Millisecond)
	require.False(t, c.Set(ctx, "v", time.Minute, "k"))
	require.Equal(t, 500*time.Millisecond, c.delay)

	healthy = true
	clock.Advance(500 * time.Millisecond)
	require.True(t, c.Set(ctx, "v", time.Minute, "k"))
	require.Zero(t, c.delay)
	require.True(t, c.Ready(ctx))
}

type failingStore struct {
	*MemoryStore
	err error
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.MemoryStore.Get(ctx, key)
}

func TestStoreErrorsBackOff(t *testing.T) {
	clock := newFakeClock()
	store := &failingStore{MemoryStore: NewMemoryStore(clock.Now), err: errors.New("i/o timeout")}
	c := NewWithStore(store, Options{Now: clock.Now}, nil)
	ctx := context.Background()
	var out string

	require.False(t, c.Get(ctx, &out, "k"))
	require.False(t, c.Set(ctx, "v", time.Minute, "k"), "store skipped during backoff")

	store.err = nil
	clock.Advance(initialBackoff)
	require.True(t, c.Set(ctx, "v", time.Minute, "k"))
	require.True(t, c.Get(ctx, &out, "k"))
	require.Equal(t, "v", out)
}

func TestFromConfig(t *testing.T) {
	c, err := FromConfig(config.CacheConfig{Driver: "none"}, nil)
	require.NoError(t, err)
	require.Nil(t, c)

	c, err = FromConfig(config.CacheConfig{Driver: "memory", Namespace: "test:", TTL: time.Minute}, nil)
	require.NoError(t, err)
	require.NotNil(t, c)
	require.True(t, c.Set(context.Background(), 1, 0, "x"))
	require.Equal(t, Key("test:", "x"), c.Key("x"))

	_, err = FromConfig(config.CacheConfig{Driver: "memcached"}, nil)
	require.Error(t, err)
}

func TestConcurrentAccess(t *testing.T) {
	c := NewWithStore(NewMemoryStore(nil), Options{}, nil)
	ctx := context.Background()
	require.True(t, c.Set(ctx, "v", time.Minute, "shared"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set(ctx, "v", time.Minute, "shared")
			var out string
			c.Get(ctx, &out, "shared")
			c.Increment(ctx, "counter")
		}()
	}
	wg.Wait()
	require.EqualValues(t, 17, c.Increment(ctx, "counter"))
}

func TestConnectDoesNotBlockOtherCallers(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var attempts atomic.Int32
	c := New(func(context.Context) (Store, error) {
		if attempts.Add(1) == 1 {
			close(entered)
			<-release
		}
		return NewMemoryStore(nil), nil
	}, Options{}, nil)
	ctx := context.Background()

	done := make(chan bool)
	go func() { done <- c.Set(ctx, "first", time.Minute, "k") }()
	<-entered

	start := time.Now()
	var out string
	require.False(t, c.Get(ctx, &out, "k"))
	require.Zero(t, c.Increment(ctx, "counter"))
	require.Less(t, time.Since(start), time.Second, "callers must not wait on an in-flight connect")
	require.EqualValues(t, 1, attempts.Load(), "only one connect may run at a time")

	close(release)
	require.True(t, <-done)
	require.True(t, c.Get(ctx, &out, "k"))
	require.Equal(t, "first", out)
	require.EqualValues(t, 1, attempts.Load())
}
