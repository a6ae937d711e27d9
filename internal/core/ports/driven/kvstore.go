package driven

import "context"

// KVStore is a byte-oriented key-value store.
//
// Get of a missing key returns domain.ErrNotFound. A write rejected for
// lack of room returns an error matching domain.ErrStorageFull.
type KVStore interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// SetMany stores all entries atomically: either every key is written or none is.
	SetMany(ctx context.Context, entries map[string][]byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys starting with prefix, in ascending order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources.
	Close() error
}
