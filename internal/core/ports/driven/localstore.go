package driven

import (
	"context"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// LocalDocumentStore persists the local library as a single collection.
type LocalDocumentStore interface {
	// Load returns every stored document. An empty library yields an
	// empty slice and no error.
	Load(ctx context.Context) ([]domain.LocalDocument, error)

	// Save replaces the whole collection in one write.
	Save(ctx context.Context, docs []domain.LocalDocument) error
}

// OutcomeStore persists the ingestion outcome log, newest first.
type OutcomeStore interface {
	// Load returns the log, newest first.
	Load(ctx context.Context) ([]domain.ProcessingOutcome, error)

	// Save replaces the log in one write.
	Save(ctx context.Context, outcomes []domain.ProcessingOutcome) error
}
