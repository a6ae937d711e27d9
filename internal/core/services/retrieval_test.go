package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdrive/internal/adapters/driven/storage/kv"
	"github.com/custodia-labs/ragdrive/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/postprocessors/chunker"
)

// newRetrievalEnv commits remote as the chunk set of "root", with one
// index entry per file, and stores localDocs as the local library.
func newRetrievalEnv(t *testing.T, remote []domain.Chunk, localDocs []domain.LocalDocument) *RetrievalService {
	t.Helper()

	store := memory.NewKVStore()
	index := kv.NewIndexStore(store)
	if remote != nil {
		require.NoError(t, index.Commit(context.Background(), "root", indexEntries(remote), remote, domain.SyncMetadata{RootID: "root"}))
	}

	docs := &mockDocumentStore{docs: localDocs}
	return NewRetrievalService(
		index,
		kv.NewChunkStore(store),
		docs,
		chunker.New(),
		NewScorer(),
		"root",
		0,
	)
}

func indexEntries(chunks []domain.Chunk) []domain.IndexEntry {
	var entries []domain.IndexEntry
	seen := make(map[string]bool)
	for _, c := range chunks {
		if !seen[c.FileID] {
			seen[c.FileID] = true
			entries = append(entries, domain.IndexEntry{FileID: c.FileID, Name: c.FileName})
		}
	}
	return entries
}

func remoteChunk(id, name, text string) domain.Chunk {
	c := chunk(id, name, text)
	c.Source = domain.DocSourceRemote
	return c
}

func localDoc(id, name, content string) domain.LocalDocument {
	return domain.LocalDocument{ID: id, Name: name, Content: content, Source: domain.DocSourceLocal}
}

func TestRetrievalService_Scopes(t *testing.T) {
	svc := newRetrievalEnv(t,
		[]domain.Chunk{remoteChunk("r1", "drive.txt", "tea residue limits")},
		[]domain.LocalDocument{localDoc("l1", "notes.txt", "tea tasting notes")},
	)
	ctx := context.Background()

	tests := []struct {
		scope   domain.Scope
		sources []domain.DocSource
	}{
		{domain.ScopeRemote, []domain.DocSource{domain.DocSourceRemote}},
		{domain.ScopeLocal, []domain.DocSource{domain.DocSourceLocal}},
		{domain.ScopeBoth, []domain.DocSource{domain.DocSourceRemote, domain.DocSourceLocal}},
		{"", []domain.DocSource{domain.DocSourceRemote, domain.DocSourceLocal}},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			hits, err := svc.Retrieve(ctx, "tea", domain.RetrieveOptions{Scope: tt.scope})
			require.NoError(t, err)

			var got []domain.DocSource
			for _, h := range hits {
				got = append(got, h.Source)
			}
			assert.Equal(t, tt.sources, got)
		})
	}
}

func TestRetrievalService_EmptyScopeVersusNoMatch(t *testing.T) {
	svc := newRetrievalEnv(t, nil, []domain.LocalDocument{localDoc("l1", "notes.txt", "rice harvest")})
	ctx := context.Background()

	_, err := svc.Retrieve(ctx, "tea", domain.RetrieveOptions{Scope: domain.ScopeRemote})
	assert.ErrorIs(t, err, domain.ErrEmptyScope)
	assert.Equal(t, "no documents in remote folder", err.Error())

	_, err = svc.Retrieve(ctx, "tea", domain.RetrieveOptions{Scope: domain.ScopeLocal})
	assert.ErrorIs(t, err, domain.ErrNoRelevantData)

	var retrievalErr *domain.RetrievalError
	require.True(t, errors.As(err, &retrievalErr))
	assert.Equal(t, domain.ScopeLocal, retrievalErr.Scope)
	assert.Equal(t, "tea", retrievalErr.Query)
}

func TestRetrievalService_InvalidInput(t *testing.T) {
	svc := newRetrievalEnv(t, nil, nil)

	_, err := svc.Retrieve(context.Background(), "   ", domain.RetrieveOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Retrieve(context.Background(), "tea", domain.RetrieveOptions{Scope: "everywhere"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetrievalService_TopKAndRoot(t *testing.T) {
	var remote []domain.Chunk
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		remote = append(remote, remoteChunk(id, "x.txt", "tea"))
	}
	svc := newRetrievalEnv(t, remote, nil)
	ctx := context.Background()

	hits, err := svc.Retrieve(ctx, "tea", domain.RetrieveOptions{Scope: domain.ScopeRemote})
	require.NoError(t, err)
	assert.Len(t, hits, DefaultTopK)

	hits, err = svc.Retrieve(ctx, "tea", domain.RetrieveOptions{Scope: domain.ScopeRemote, TopK: 2})
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	_, err = svc.Retrieve(ctx, "tea", domain.RetrieveOptions{Scope: domain.ScopeRemote, RootID: "other"})
	assert.ErrorIs(t, err, domain.ErrEmptyScope)
}

func TestRetrievalService_LocalLoadFailure(t *testing.T) {
	store := memory.NewKVStore()
	svc := NewRetrievalService(
		kv.NewIndexStore(store),
		kv.NewChunkStore(store),
		&mockDocumentStore{loadErr: errors.New("disk gone")},
		chunker.New(),
		NewScorer(),
		"",
		0,
	)

	_, err := svc.Retrieve(context.Background(), "tea", domain.RetrieveOptions{Scope: domain.ScopeLocal})
	assert.ErrorContains(t, err, "disk gone")
}

func TestRetrievalService_ShortLocalDocumentIsRetrievable(t *testing.T) {
	docs := &mockDocumentStore{}
	lib := newLibrary(docs, &mockOutcomeStore{}, 0)
	ctx := context.Background()

	result, err := lib.Ingest(ctx, []domain.IngestItem{item("note.txt", "紅蘿蔔丁 重金屬限量標準 0.1 ppm")})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	require.Equal(t, domain.OutcomeSuccess, result.Outcomes[0].Status)

	store := memory.NewKVStore()
	svc := NewRetrievalService(kv.NewIndexStore(store), kv.NewChunkStore(store), docs, chunker.New(), NewScorer(), "", 0)

	hits, err := svc.Retrieve(ctx, "紅蘿蔔丁", domain.RetrieveOptions{Scope: domain.ScopeLocal})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "note.txt", hits[0].FileName)

	_, err = svc.Retrieve(ctx, "pesticide", domain.RetrieveOptions{Scope: domain.ScopeLocal})
	assert.ErrorIs(t, err, domain.ErrNoRelevantData, "a library holding documents is not an empty scope")
}

func TestRetrievalService_IndexedRootWithoutChunksIsNotEmpty(t *testing.T) {
	store := memory.NewKVStore()
	index := kv.NewIndexStore(store)
	entries := []domain.IndexEntry{{FileID: "tiny", Name: "tiny.txt", ModifiedTime: "T1"}}
	require.NoError(t, index.Commit(context.Background(), "root", entries, nil, domain.SyncMetadata{RootID: "root"}))

	svc := NewRetrievalService(index, kv.NewChunkStore(store), &mockDocumentStore{}, chunker.New(), NewScorer(), "root", 0)

	_, err := svc.Retrieve(context.Background(), "tea", domain.RetrieveOptions{Scope: domain.ScopeRemote})
	assert.ErrorIs(t, err, domain.ErrNoRelevantData)
}
