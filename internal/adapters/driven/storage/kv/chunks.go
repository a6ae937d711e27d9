package kv

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore persists per-file chunk sets and reads committed root sets.
type ChunkStore struct {
	kv driven.KVStore
}

// NewChunkStore creates a chunk store over kv.
func NewChunkStore(kv driven.KVStore) *ChunkStore {
	return &ChunkStore{kv: kv}
}

// Ref returns the key of the chunk set of one version of a file.
func (s *ChunkStore) Ref(rootID, fileID, version string) string {
	return fileChunksKey(rootID, fileID, version)
}

// PutFile stores the chunk set of one version of a file.
func (s *ChunkStore) PutFile(ctx context.Context, rootID, fileID, version string, chunks []domain.Chunk) (string, error) {
	ref := s.Ref(rootID, fileID, version)
	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	b, err := marshal(ref, chunks)
	if err != nil {
		return "", err
	}
	if err := s.kv.Set(ctx, ref, b); err != nil {
		return "", fmt.Errorf("put chunks: %w", err)
	}
	return ref, nil
}

// GetFile returns the chunk set stored under ref.
func (s *ChunkStore) GetFile(ctx context.Context, ref string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	if err := getJSON(ctx, s.kv, ref, &chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

// DeleteFile removes the chunk set stored under ref.
func (s *ChunkStore) DeleteFile(ctx context.Context, ref string) error {
	return s.kv.Delete(ctx, ref)
}

// LoadRoot returns the flattened chunk set of the last commit.
func (s *ChunkStore) LoadRoot(ctx context.Context, rootID string) ([]domain.Chunk, error) {
	chunks := []domain.Chunk{}
	if err := getJSONOrEmpty(ctx, s.kv, chunkSetKey(rootID), &chunks); err != nil {
		return nil, fmt.Errorf("load chunk set: %w", err)
	}
	return chunks, nil
}
