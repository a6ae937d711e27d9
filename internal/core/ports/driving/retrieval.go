package driving

import (
	"context"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// RetrievalService selects the chunks most relevant to a query.
type RetrievalService interface {
	// Retrieve returns scored chunks in descending score order.
	// Returns a *domain.RetrievalError when nothing can be returned.
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.ScoredChunk, error)
}

// AskService answers a question from retrieved chunks.
type AskService interface {
	// Ask retrieves and synthesises. Returns domain.ErrLLMUnavailable when
	// no synthesiser is configured.
	Ask(ctx context.Context, query string, opts domain.RetrieveOptions) (*domain.Answer, []domain.ScoredChunk, error)
}
