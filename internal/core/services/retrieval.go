package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driving"
	"github.com/custodia-labs/ragdrive/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService scores remote and local chunks against a query.
//
// Remote chunks come from the chunk set committed by the last sync of the
// root. Local documents are chunked on each query. A scope is empty when it
// holds no indexed files and no library documents, whatever they chunk to.
type RetrievalService struct {
	index       driven.IndexStore
	chunks      driven.ChunkStore
	docs        driven.LocalDocumentStore
	chunker     driven.Chunker
	scorer      *Scorer
	defaultRoot string
	topK        int
}

// NewRetrievalService creates a retrieval service. defaultRoot is used
// when a query does not name a root; topK when it does not set a limit.
func NewRetrievalService(
	index driven.IndexStore,
	chunks driven.ChunkStore,
	docs driven.LocalDocumentStore,
	chunker driven.Chunker,
	scorer *Scorer,
	defaultRoot string,
	topK int,
) *RetrievalService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RetrievalService{
		index:       index,
		chunks:      chunks,
		docs:        docs,
		chunker:     chunker,
		scorer:      scorer,
		defaultRoot: defaultRoot,
		topK:        topK,
	}
}

// Retrieve returns the best-scoring chunks in the requested scope.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.ScoredChunk, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	scope := opts.Scope
	if scope == "" {
		scope = domain.ScopeBoth
	}
	if !scope.IsValid() {
		return nil, fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidInput, scope)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.topK
	}

	pool, files, err := s.pool(ctx, scope, opts.RootID)
	if err != nil {
		return nil, err
	}
	if files == 0 {
		return nil, &domain.RetrievalError{Kind: domain.ErrEmptyScope, Scope: scope, Query: query}
	}

	hits := s.scorer.Score(pool, query, topK)
	logger.Debug("Scored %d chunks, %d hits", len(pool), len(hits))
	if len(hits) == 0 {
		return nil, &domain.RetrievalError{Kind: domain.ErrNoRelevantData, Scope: scope, Query: query}
	}
	return hits, nil
}

// pool gathers the candidate chunks for a scope and counts the indexed
// files and library documents they come from.
func (s *RetrievalService) pool(
	ctx context.Context, scope domain.Scope, rootID string,
) ([]domain.Chunk, int, error) {
	var pool []domain.Chunk
	files := 0

	if scope.Includes(domain.DocSourceRemote) {
		if rootID == "" {
			rootID = s.defaultRoot
		}
		if rootID != "" {
			entries, err := s.index.Load(ctx, rootID)
			if err != nil {
				return nil, 0, fmt.Errorf("load remote index: %w", err)
			}
			remote, err := s.chunks.LoadRoot(ctx, rootID)
			if err != nil {
				return nil, 0, fmt.Errorf("load remote chunks: %w", err)
			}
			logger.Debug("Remote pool: %d chunks from %d files", len(remote), len(entries))
			files += len(entries)
			pool = append(pool, remote...)
		}
	}

	if scope.Includes(domain.DocSourceLocal) {
		docs, err := s.docs.Load(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("load local documents: %w", err)
		}
		files += len(docs)
		before := len(pool)
		for _, doc := range docs {
			pool = append(pool, s.chunker.ChunkLocal(doc)...)
		}
		logger.Debug("Local pool: %d chunks from %d documents", len(pool)-before, len(docs))
	}

	return pool, files, nil
}
