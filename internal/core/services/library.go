package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driving"
	"github.com/custodia-labs/ragdrive/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// DefaultOutcomeLogLimit caps the persisted outcome log.
const DefaultOutcomeLogLimit = 500

// LibraryService persists the local library around an IngestPipeline.
type LibraryService struct {
	docs     driven.LocalDocumentStore
	outcomes driven.OutcomeStore
	pipeline *IngestPipeline
	logLimit int

	// mu serialises read-modify-write cycles on the collection.
	mu sync.Mutex
}

// NewLibraryService creates a library service.
func NewLibraryService(
	docs driven.LocalDocumentStore,
	outcomes driven.OutcomeStore,
	pipeline *IngestPipeline,
	logLimit int,
) *LibraryService {
	if logLimit <= 0 {
		logLimit = DefaultOutcomeLogLimit
	}
	return &LibraryService{docs: docs, outcomes: outcomes, pipeline: pipeline, logLimit: logLimit}
}

// Ingest runs the pipeline against the stored library and saves the new
// documents and outcomes. Save failures are reported in result.Warning.
func (s *LibraryService) Ingest(ctx context.Context, items []domain.IngestItem) (*domain.IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.docs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}

	// A cancelled run still saves what it finished.
	result := s.pipeline.Ingest(ctx, items, existing)
	saveCtx := context.WithoutCancel(ctx)

	if len(result.Documents) > 0 {
		all := append(slices.Clip(existing), result.Documents...)
		if err := s.docs.Save(saveCtx, all); err != nil {
			logger.Error("Saving library failed: %v", err)
			result.Warning = domain.NewPersistenceWarning(err)
		}
	}

	if len(result.Outcomes) > 0 {
		if err := s.appendOutcomes(saveCtx, result.Outcomes); err != nil {
			logger.Warn("Saving outcome log failed: %v", err)
			if result.Warning == nil {
				result.Warning = domain.NewPersistenceWarning(err)
			}
		}
	}

	return result, nil
}

// appendOutcomes prepends outcomes, newest first, and trims the log.
func (s *LibraryService) appendOutcomes(ctx context.Context, outcomes []domain.ProcessingOutcome) error {
	log, err := s.outcomes.Load(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Outcome log unreadable, starting a new one: %v", err)
		log = nil
	}

	fresh := slices.Clone(outcomes)
	slices.Reverse(fresh)
	merged := append(fresh, log...)
	if len(merged) > s.logLimit {
		merged = merged[:s.logLimit]
	}
	return s.outcomes.Save(ctx, merged)
}

// Documents lists the library.
func (s *LibraryService) Documents(ctx context.Context) ([]domain.LocalDocument, error) {
	docs, err := s.docs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	return docs, nil
}

// Delete removes one document.
func (s *LibraryService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.docs.Load(ctx)
	if err != nil {
		return fmt.Errorf("load library: %w", err)
	}

	i := slices.IndexFunc(docs, func(d domain.LocalDocument) bool { return d.ID == id })
	if i < 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	if err := s.docs.Save(ctx, slices.Delete(docs, i, i+1)); err != nil {
		return fmt.Errorf("save library: %w", err)
	}
	logger.Info("Deleted document %s", id)
	return nil
}

// Clear removes every document and the outcome log.
func (s *LibraryService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.docs.Save(ctx, nil); err != nil {
		return fmt.Errorf("clear library: %w", err)
	}
	if err := s.outcomes.Save(ctx, nil); err != nil {
		return fmt.Errorf("clear outcome log: %w", err)
	}
	return nil
}

// Outcomes returns up to limit log entries, newest first.
func (s *LibraryService) Outcomes(ctx context.Context, limit int) ([]domain.ProcessingOutcome, error) {
	log, err := s.outcomes.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load outcome log: %w", err)
	}
	if limit > 0 && len(log) > limit {
		log = log[:limit]
	}
	return log, nil
}
