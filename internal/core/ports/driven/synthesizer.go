package driven

import (
	"context"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// AnswerSynthesizer turns retrieved passages into a structured answer.
// This is an optional service - when nil, ask returns domain.ErrLLMUnavailable.
type AnswerSynthesizer interface {
	// Synthesize answers query from passages.
	Synthesize(ctx context.Context, query string, passages []domain.Passage) (*domain.Answer, error)

	// ModelName returns the model in use.
	ModelName() string
}
