// Package cache provides an in-memory read-through cache for driven.KVStore.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
	"github.com/custodia-labs/ragdrive/internal/logger"
)

// DefaultPrefixes are the keys worth caching: chunk sets are read on every
// query and sync, and rarely written.
var DefaultPrefixes = []string{"chunkset/", "chunks/"}

// WrapLRU returns next wrapped in an expiring LRU cache of size entries.
// Only keys starting with one of prefixes are cached; no prefixes means
// every key. A non-positive size or ttl returns next unchanged.
func WrapLRU(next driven.KVStore, size int, ttl time.Duration, prefixes ...string) driven.KVStore {
	if next == nil || size <= 0 || ttl <= 0 {
		return next
	}
	return &lruStore{
		next:     next,
		cache:    expirable.NewLRU[string, []byte](size, nil, ttl),
		prefixes: prefixes,
		log:      logger.For("cache"),
	}
}

type lruStore struct {
	next     driven.KVStore
	cache    *expirable.LRU[string, []byte]
	prefixes []string
	log      logger.Component

	// gen increments on every write; a read only populates the cache if
	// no write happened while it was in flight.
	mu  sync.Mutex
	gen uint64
}

func (l *lruStore) cacheable(key string) bool {
	if len(l.prefixes) == 0 {
		return true
	}
	for _, p := range l.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func (l *lruStore) Get(ctx context.Context, key string) ([]byte, error) {
	if !l.cacheable(key) {
		return l.next.Get(ctx, key)
	}
	if cached, ok := l.cache.Get(key); ok {
		l.log.Debug("hit %s", key)
		return clone(cached), nil
	}

	l.mu.Lock()
	gen := l.gen
	l.mu.Unlock()

	value, err := l.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if gen == l.gen {
		l.cache.Add(key, clone(value))
	}
	l.mu.Unlock()
	return value, nil
}

func (l *lruStore) Set(ctx context.Context, key string, value []byte) error {
	defer l.invalidate(key)
	return l.next.Set(ctx, key, value)
}

func (l *lruStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	defer l.invalidate(keys...)
	return l.next.SetMany(ctx, entries)
}

func (l *lruStore) Delete(ctx context.Context, key string) error {
	defer l.invalidate(key)
	return l.next.Delete(ctx, key)
}

func (l *lruStore) List(ctx context.Context, prefix string) ([]string, error) {
	return l.next.List(ctx, prefix)
}

func (l *lruStore) Close() error {
	l.cache.Purge()
	return l.next.Close()
}

// Usage forwards to the wrapped store when it reports usage.
func (l *lruStore) Usage(ctx context.Context) (int, int64, error) {
	if u, ok := l.next.(interface {
		Usage(context.Context) (int, int64, error)
	}); ok {
		return u.Usage(ctx)
	}
	return 0, 0, nil
}

func (l *lruStore) invalidate(keys ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	for _, k := range keys {
		l.cache.Remove(k)
	}
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
