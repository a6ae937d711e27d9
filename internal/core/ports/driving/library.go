package driving

import (
	"context"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// LibraryService manages the local document library.
type LibraryService interface {
	// Ingest decodes items into documents and persists them.
	// Cancelling ctx stops the run at the next batch boundary; the result
	// then has Cancelled set and keeps everything processed so far.
	// A persistence failure is reported in IngestResult.Warning, not as an error.
	Ingest(ctx context.Context, items []domain.IngestItem) (*domain.IngestResult, error)

	// Documents lists the library.
	Documents(ctx context.Context) ([]domain.LocalDocument, error)

	// Delete removes one document. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Clear removes every document and the outcome log.
	Clear(ctx context.Context) error

	// Outcomes returns up to limit outcome log entries, newest first.
	// A limit of zero returns all entries.
	Outcomes(ctx context.Context, limit int) ([]domain.ProcessingOutcome, error)
}
