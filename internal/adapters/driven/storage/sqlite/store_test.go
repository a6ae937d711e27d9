package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// setupTestStore creates a store in a temporary directory.
func setupTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir(), opts...)
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(dir, DBFileName)
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "nested", "path", "to", "db")

	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	var exists int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='kv'",
	).Scan(&exists))
	assert.Equal(t, 1, exists)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

// ==================== KV Tests ====================

func TestStore_GetMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SetGetOverwrite(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "index/root", []byte(`[1]`)))
	require.NoError(t, store.Set(ctx, "index/root", []byte(`[1,2]`)))

	got, err := store.Get(ctx, "index/root")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
}

func TestStore_SetEmptyValue(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "empty", nil))
	got, err := store.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_SetMany(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetMany(ctx, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}))

	for key, want := range map[string]string{"a": "1", "b": "2"} {
		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}

func TestStore_SetMany_AllOrNothing(t *testing.T) {
	store := setupTestStore(t, WithMaxValueBytes(4))
	ctx := context.Background()

	err := store.SetMany(ctx, map[string][]byte{
		"small": []byte("ok"),
		"large": []byte("too large"),
	})
	assert.ErrorIs(t, err, domain.ErrStorageFull)

	_, err = store.Get(ctx, "small")
	assert.ErrorIs(t, err, domain.ErrNotFound, "no key should be written when one is rejected")
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"), "deleting a missing key is not an error")

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"chunks/r1/b", "chunks/r1/a", "chunks/r2/a", "index/r1"} {
		require.NoError(t, store.Set(ctx, key, []byte("x")))
	}

	keys, err := store.List(ctx, "chunks/r1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"chunks/r1/a", "chunks/r1/b"}, keys)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := store.List(ctx, "nothing/")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_Usage(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("123")))
	require.NoError(t, store.Set(ctx, "b", []byte("45")))

	keys, size, err := store.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, keys)
	assert.Equal(t, int64(5), size)
}
