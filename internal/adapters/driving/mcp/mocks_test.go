package mcp

import (
	"context"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	hits     []domain.ScoredChunk
	err      error
	lastOpts domain.RetrieveOptions
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	_ string,
	opts domain.RetrieveOptions,
) ([]domain.ScoredChunk, error) {
	m.lastOpts = opts
	return m.hits, m.err
}

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer *domain.Answer
	hits   []domain.ScoredChunk
	err    error
}

func (m *mockAskService) Ask(
	_ context.Context,
	_ string,
	_ domain.RetrieveOptions,
) (*domain.Answer, []domain.ScoredChunk, error) {
	return m.answer, m.hits, m.err
}

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	documents []domain.LocalDocument
	outcomes  []domain.ProcessingOutcome
	err       error
	lastLimit int
}

func (m *mockLibraryService) Ingest(_ context.Context, _ []domain.IngestItem) (*domain.IngestResult, error) {
	return &domain.IngestResult{}, m.err
}

func (m *mockLibraryService) Documents(_ context.Context) ([]domain.LocalDocument, error) {
	return m.documents, m.err
}

func (m *mockLibraryService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockLibraryService) Clear(_ context.Context) error {
	return m.err
}

func (m *mockLibraryService) Outcomes(_ context.Context, limit int) ([]domain.ProcessingOutcome, error) {
	m.lastLimit = limit
	return m.outcomes, m.err
}

// mockSyncService is a mock implementation of driving.SyncService.
type mockSyncService struct {
	status  *domain.SyncStatus
	meta    *domain.SyncMetadata
	err     error
	lastErr error
}

func (m *mockSyncService) Sync(_ context.Context, _ string) (*domain.SyncReport, error) {
	return nil, m.err
}

func (m *mockSyncService) Status(_ context.Context, _ string) (*domain.SyncStatus, error) {
	return m.status, nil
}

func (m *mockSyncService) LastSync(_ context.Context, _ string) (*domain.SyncMetadata, error) {
	return m.meta, m.lastErr
}

// newTestServer creates a server over the given mocks.
func newTestServer(ports *Ports) *Server {
	if ports.Retrieval == nil {
		ports.Retrieval = &mockRetrievalService{}
	}
	if ports.Library == nil {
		ports.Library = &mockLibraryService{}
	}
	s, err := NewServer(ports)
	if err != nil {
		panic(err)
	}
	return s
}
