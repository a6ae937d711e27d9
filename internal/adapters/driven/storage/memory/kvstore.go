// Package memory provides an in-memory implementation of driven.KVStore.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure KVStore implements the interface.
var _ driven.KVStore = (*KVStore)(nil)

// KVStore is an in-memory key-value store. Values are copied on the way
// in and out.
type KVStore struct {
	mu       sync.RWMutex
	values   map[string][]byte
	used     int
	capacity int
}

// Option configures a KVStore.
type Option func(*KVStore)

// WithCapacity bounds the total bytes of stored values. Writes that would
// exceed it fail with domain.ErrStorageFull. Zero means unbounded.
func WithCapacity(bytes int) Option {
	return func(s *KVStore) {
		if bytes >= 0 {
			s.capacity = bytes
		}
	}
}

// NewKVStore creates a new in-memory key-value store.
func NewKVStore(opts ...Option) *KVStore {
	s := &KVStore{values: make(map[string][]byte)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value stored under key.
func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores value under key.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetMany(ctx, map[string][]byte{key: value})
}

// SetMany stores all entries or none of them.
func (s *KVStore) SetMany(_ context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used
	for key, value := range entries {
		used += len(value) - len(s.values[key])
	}
	if s.capacity > 0 && used > s.capacity {
		return fmt.Errorf("write of %d keys needs %d bytes, capacity %d: %w", len(entries), used, s.capacity, domain.ErrStorageFull)
	}

	for key, value := range entries {
		s.values[key] = append([]byte{}, value...)
	}
	s.used = used
	return nil
}

// Delete removes key.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used -= len(s.values[key])
	delete(s.values, key)
	return nil
}

// List returns the keys starting with prefix in ascending order.
func (s *KVStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Usage returns the number of keys and total value bytes stored.
func (s *KVStore) Usage(_ context.Context) (int, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values), int64(s.used), nil
}

// Close is a no-op.
func (s *KVStore) Close() error {
	return nil
}
