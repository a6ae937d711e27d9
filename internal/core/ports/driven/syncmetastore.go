package driven

import (
	"context"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// SyncMetaStore reads the metadata written by the last successful commit.
type SyncMetaStore interface {
	// Get returns the metadata for a root.
	// Returns domain.ErrNotFound if the root was never synced.
	Get(ctx context.Context, rootID string) (*domain.SyncMetadata, error)
}
