package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdrive/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// countingStore counts Get calls that reach the wrapped store.
type countingStore struct {
	*memory.KVStore
	gets int
}

func (c *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	c.gets++
	return c.KVStore.Get(ctx, key)
}

func newCounting() *countingStore {
	return &countingStore{KVStore: memory.NewKVStore()}
}

func TestWrapLRU_Disabled(t *testing.T) {
	next := memory.NewKVStore()
	assert.Same(t, next, WrapLRU(next, 0, time.Minute))
	assert.Same(t, next, WrapLRU(next, 10, 0))
}

func TestLRU_ReadThrough(t *testing.T) {
	ctx := context.Background()
	next := newCounting()
	require.NoError(t, next.Set(ctx, "chunkset/r", []byte("v1")))

	s := WrapLRU(next, 8, time.Minute, DefaultPrefixes...)

	for i := 0; i < 3; i++ {
		got, err := s.Get(ctx, "chunkset/r")
		require.NoError(t, err)
		assert.Equal(t, "v1", string(got))
	}
	assert.Equal(t, 1, next.gets)
}

func TestLRU_InvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	next := newCounting()
	s := WrapLRU(next, 8, time.Minute, DefaultPrefixes...)

	require.NoError(t, s.Set(ctx, "chunkset/r", []byte("v1")))
	_, err := s.Get(ctx, "chunkset/r")
	require.NoError(t, err)

	require.NoError(t, s.SetMany(ctx, map[string][]byte{"chunkset/r": []byte("v2"), "index/r": []byte("i")}))
	got, err := s.Get(ctx, "chunkset/r")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	require.NoError(t, s.Delete(ctx, "chunkset/r"))
	_, err = s.Get(ctx, "chunkset/r")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLRU_SkipsUncachedPrefixes(t *testing.T) {
	ctx := context.Background()
	next := newCounting()
	require.NoError(t, next.Set(ctx, "local/documents", []byte("[]")))

	s := WrapLRU(next, 8, time.Minute, DefaultPrefixes...)
	_, _ = s.Get(ctx, "local/documents")
	_, _ = s.Get(ctx, "local/documents")
	assert.Equal(t, 2, next.gets)
}

func TestLRU_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	next := memory.NewKVStore()
	require.NoError(t, next.Set(ctx, "chunks/r/f", []byte("abc")))
	s := WrapLRU(next, 8, time.Minute)

	got, err := s.Get(ctx, "chunks/r/f")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := s.Get(ctx, "chunks/r/f")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
