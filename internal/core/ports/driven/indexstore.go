package driven

import (
	"context"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// IndexStore persists the per-root remote index and the commit that
// replaces it.
type IndexStore interface {
	// Load returns the committed index for a root. A root never synced
	// yields an empty slice and no error.
	Load(ctx context.Context, rootID string) ([]domain.IndexEntry, error)

	// Commit writes the index, the flattened chunk set and the sync
	// metadata of a root in one atomic write.
	Commit(ctx context.Context, rootID string, entries []domain.IndexEntry, chunks []domain.Chunk, meta domain.SyncMetadata) error
}
