package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driving"
	"github.com/custodia-labs/ragdrive/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService answers questions from retrieved chunks.
type AskService struct {
	retrieval   driving.RetrievalService
	synthesizer driven.AnswerSynthesizer
}

// NewAskService creates an ask service. synthesizer may be nil.
func NewAskService(retrieval driving.RetrievalService, synthesizer driven.AnswerSynthesizer) *AskService {
	return &AskService{retrieval: retrieval, synthesizer: synthesizer}
}

// Ask retrieves the chunks relevant to query and synthesises an answer
// from them. The retrieved chunks are returned alongside the answer.
func (s *AskService) Ask(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) (*domain.Answer, []domain.ScoredChunk, error) {
	if s.synthesizer == nil {
		return nil, nil, domain.ErrLLMUnavailable
	}

	hits, err := s.retrieval.Retrieve(ctx, query, opts)
	if err != nil {
		return nil, nil, err
	}

	passages := make([]domain.Passage, len(hits))
	for i, h := range hits {
		passages[i] = domain.Passage{SourceLabel: h.Source, FileName: h.FileName, Text: h.Text}
	}

	logger.Debug("Synthesising answer from %d passages with %s", len(passages), s.synthesizer.ModelName())
	answer, err := s.synthesizer.Synthesize(ctx, query, passages)
	if err != nil {
		return nil, hits, fmt.Errorf("synthesize answer: %w", err)
	}
	return answer, hits, nil
}
