package driven

import (
	"context"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// ChunkStore persists chunk sets: one per remote file, plus the flattened
// set of a whole root.
type ChunkStore interface {
	// Ref returns the key a file's chunk set is stored under. Each version
	// of a file gets its own ref, so storing a new version never touches
	// the set a committed IndexEntry points at.
	Ref(rootID, fileID, version string) string

	// PutFile stores the chunk set of one version of a file and returns its ref.
	PutFile(ctx context.Context, rootID, fileID, version string, chunks []domain.Chunk) (string, error)

	// GetFile returns the chunk set stored under ref.
	// Returns domain.ErrNotFound if it is missing.
	GetFile(ctx context.Context, ref string) ([]domain.Chunk, error)

	// DeleteFile removes the chunk set stored under ref.
	DeleteFile(ctx context.Context, ref string) error

	// LoadRoot returns the flattened chunk set of a root. A root never
	// synced yields an empty slice and no error.
	LoadRoot(ctx context.Context, rootID string) ([]domain.Chunk, error)
}
