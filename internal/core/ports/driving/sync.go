package driving

import (
	"context"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// SyncService incrementally synchronises a remote folder tree into the index.
type SyncService interface {
	// Sync crawls rootID, processes new and modified files and commits the
	// result. Returns domain.ErrSyncInProgress if the root is already syncing.
	Sync(ctx context.Context, rootID string) (*domain.SyncReport, error)

	// Status returns live progress for a root.
	Status(ctx context.Context, rootID string) (*domain.SyncStatus, error)

	// LastSync returns the metadata of the last successful sync.
	LastSync(ctx context.Context, rootID string) (*domain.SyncMetadata, error)
}
