// Package safecache provides lazily populated caches whose caching behavior is
// fixed at construction time. A cache built with MemoizeForever runs its init
// function once per key (successful results only) and serves the stored value
// for the rest of its lifetime. A cache built with NoCache runs init on every
// call, which is what you want in development when the underlying data may
// change at any moment.
//
// Concurrent first calls for the same key are collapsed into a single init
// call via singleflight.
package safecache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

type Strategy int

const (
	MemoizeForever Strategy = iota
	NoCache
)

// ForMode returns NoCache in development and MemoizeForever otherwise.
func ForMode(isDev bool) Strategy {
	if isDev {
		return NoCache
	}
	return MemoizeForever
}

func (s Strategy) String() string {
	switch s {
	case MemoizeForever:
		return "memoize-forever"
	case NoCache:
		return "no-cache"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

const singleKey = "\x00"

type Cache[T any] struct {
	init     func(ctx context.Context) (T, error)
	strategy Strategy

	mu     sync.RWMutex
	val    T
	filled bool
	group  singleflight.Group
}

func New[T any](init func(ctx context.Context) (T, error), strategy Strategy) *Cache[T] {
	return &Cache[T]{init: init, strategy: strategy}
}

func (c *Cache[T]) Strategy() Strategy { return c.strategy }

// Get returns the cached value, running init if needed. Errors are returned
// to every waiting caller and are never stored.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	if c.strategy == NoCache {
		return c.init(ctx)
	}

	c.mu.RLock()
	if c.filled {
		defer c.mu.RUnlock()
		return c.val, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(singleKey, func() (any, error) {
		c.mu.RLock()
		if c.filled {
			defer c.mu.RUnlock()
			return c.val, nil
		}
		c.mu.RUnlock()

		val, err := c.init(ctx)
		if err != nil {
			return val, err
		}
		c.mu.Lock()
		c.val, c.filled = val, true
		c.mu.Unlock()
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	val, _ := v.(T)
	return val, nil
}

type backend[V any] interface {
	load(key string) (V, bool)
	store(key string, v V)
}

type syncStore[V any] struct{ m sync.Map }

func (s *syncStore[V]) load(key string) (V, bool) {
	v, ok := s.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	val, _ := v.(V)
	return val, true
}

// LoadOrStore keeps the first writer's value; values for a key are deterministic.
func (s *syncStore[V]) store(key string, v V) { s.m.LoadOrStore(key, v) }

type lruStore[V any] struct{ c *lru.Cache[string, V] }

func (s lruStore[V]) load(key string) (V, bool) { return s.c.Get(key) }
func (s lruStore[V]) store(key string, v V)     { s.c.ContainsOrAdd(key, v) }

type MapOptions struct {
	// Limit bounds the number of stored entries (least recently used are
	// evicted first). Zero means unbounded.
	Limit int
}

type CacheMap[V any] struct {
	init     func(ctx context.Context, key string) (V, error)
	strategy Strategy
	store    backend[V]
	group    singleflight.Group
}

func NewMap[V any](
	init func(ctx context.Context, key string) (V, error),
	strategy Strategy,
	opts ...MapOptions,
) (*CacheMap[V], error) {
	var o MapOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	m := &CacheMap[V]{init: init, strategy: strategy}
	switch {
	case o.Limit < 0:
		return nil, fmt.Errorf("safecache: negative limit %d", o.Limit)
	case o.Limit > 0:
		c, err := lru.New[string, V](o.Limit)
		if err != nil {
			return nil, fmt.Errorf("safecache: %w", err)
		}
		m.store = lruStore[V]{c: c}
	default:
		m.store = &syncStore[V]{}
	}
	return m, nil
}

func (m *CacheMap[V]) Strategy() Strategy { return m.strategy }

func (m *CacheMap[V]) Get(ctx context.Context, key string) (V, error) {
	if m.strategy == NoCache {
		return m.init(ctx, key)
	}

	if v, ok := m.store.load(key); ok {
		return v, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		if v, ok := m.store.load(key); ok {
			return v, nil
		}
		v, err := m.init(ctx, key)
		if err != nil {
			return v, err
		}
		m.store.store(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	val, _ := v.(V)
	return val, nil
}
