package kv

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure IndexStore implements the interfaces.
var (
	_ driven.IndexStore    = (*IndexStore)(nil)
	_ driven.SyncMetaStore = (*IndexStore)(nil)
)

// IndexStore persists the per-root index, flattened chunk set and sync
// metadata. All three are written by one SetMany.
type IndexStore struct {
	kv driven.KVStore
}

// NewIndexStore creates an index store over kv.
func NewIndexStore(kv driven.KVStore) *IndexStore {
	return &IndexStore{kv: kv}
}

// Load returns the committed index of a root.
func (s *IndexStore) Load(ctx context.Context, rootID string) ([]domain.IndexEntry, error) {
	entries := []domain.IndexEntry{}
	if err := getJSONOrEmpty(ctx, s.kv, indexKey(rootID), &entries); err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return entries, nil
}

// Commit writes index, chunk set and metadata atomically.
func (s *IndexStore) Commit(
	ctx context.Context, rootID string, entries []domain.IndexEntry, chunks []domain.Chunk, meta domain.SyncMetadata,
) error {
	if entries == nil {
		entries = []domain.IndexEntry{}
	}
	if chunks == nil {
		chunks = []domain.Chunk{}
	}

	batch := make(map[string][]byte, 3)
	for key, v := range map[string]any{
		indexKey(rootID):    entries,
		chunkSetKey(rootID): chunks,
		metaKey(rootID):     meta,
	} {
		b, err := marshal(key, v)
		if err != nil {
			return err
		}
		batch[key] = b
	}

	if err := s.kv.SetMany(ctx, batch); err != nil {
		return fmt.Errorf("commit %s: %w", rootID, err)
	}
	return nil
}

// Get returns the sync metadata of a root.
func (s *IndexStore) Get(ctx context.Context, rootID string) (*domain.SyncMetadata, error) {
	var meta domain.SyncMetadata
	if err := getJSON(ctx, s.kv, metaKey(rootID), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
