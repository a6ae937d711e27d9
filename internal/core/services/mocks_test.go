package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// --- Remote provider ---

// mockProvider serves a fixed folder tree. Each folder may span several
// pages; the page token is the index of the next page.
type mockProvider struct {
	mu sync.Mutex

	pages       map[string][][]domain.RemoteEntry
	listErr     map[string]error
	content     map[string]string
	downloadErr map[string]error
	exports     map[string]string

	// block, when set, is waited on before every List call.
	block   chan struct{}
	entered chan struct{}

	listCalls []string
	fetched   []string
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		pages:       make(map[string][][]domain.RemoteEntry),
		listErr:     make(map[string]error),
		content:     make(map[string]string),
		downloadErr: make(map[string]error),
		exports:     make(map[string]string),
	}
}

// folder adds one page of entries to a folder.
func (m *mockProvider) folder(id string, entries ...domain.RemoteEntry) *mockProvider {
	m.pages[id] = append(m.pages[id], entries)
	return m
}

// file registers downloadable content for a file entry and returns it.
func (m *mockProvider) file(id, name, mimeType, modified, content string) domain.RemoteEntry {
	m.content[id] = content
	return domain.RemoteEntry{RemoteFileDescriptor: domain.RemoteFileDescriptor{
		ID:           id,
		Name:         name,
		MIMEType:     mimeType,
		Size:         int64(len(content)),
		ModifiedTime: modified,
	}}
}

func subfolder(id, name string) domain.RemoteEntry {
	return domain.RemoteEntry{
		RemoteFileDescriptor: domain.RemoteFileDescriptor{ID: id, Name: name, MIMEType: "application/vnd.google-apps.folder"},
		IsFolder:             true,
	}
}

func (m *mockProvider) List(ctx context.Context, folderID, pageToken string) (*domain.ListPage, error) {
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls = append(m.listCalls, folderID+"#"+pageToken)

	if err := m.listErr[folderID]; err != nil {
		return nil, err
	}

	idx := 0
	if pageToken != "" {
		idx, _ = strconv.Atoi(pageToken)
	}
	page := &domain.ListPage{Query: fmt.Sprintf("'%s' in parents and trashed = false", folderID)}
	pages := m.pages[folderID]
	if idx >= len(pages) {
		return page, nil
	}
	page.Entries = pages[idx]
	if idx+1 < len(pages) {
		page.NextPageToken = strconv.Itoa(idx + 1)
	}
	return page, nil
}

func (m *mockProvider) Download(_ context.Context, fileID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched = append(m.fetched, fileID)

	if err := m.downloadErr[fileID]; err != nil {
		return nil, err
	}
	content, ok := m.content[fileID]
	if !ok {
		return nil, &domain.ProviderError{Op: "download " + fileID, Status: 404, Message: "File not found"}
	}
	return []byte(content), nil
}

func (m *mockProvider) Export(ctx context.Context, fileID, _ string) ([]byte, error) {
	return m.Download(ctx, fileID)
}

func (m *mockProvider) ExportTarget(mimeType string) string {
	return m.exports[mimeType]
}

func (m *mockProvider) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fetched)
}

// --- Local stores ---

// mockDocumentStore is an in-memory LocalDocumentStore with injectable errors.
type mockDocumentStore struct {
	docs    []domain.LocalDocument
	loadErr error
	saveErr error
	saves   int
}

func (m *mockDocumentStore) Load(_ context.Context) ([]domain.LocalDocument, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.LocalDocument(nil), m.docs...), nil
}

func (m *mockDocumentStore) Save(_ context.Context, docs []domain.LocalDocument) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs = append([]domain.LocalDocument(nil), docs...)
	return nil
}

// mockOutcomeStore is an in-memory OutcomeStore.
type mockOutcomeStore struct {
	log     []domain.ProcessingOutcome
	saveErr error
}

func (m *mockOutcomeStore) Load(_ context.Context) ([]domain.ProcessingOutcome, error) {
	return append([]domain.ProcessingOutcome(nil), m.log...), nil
}

func (m *mockOutcomeStore) Save(_ context.Context, outcomes []domain.ProcessingOutcome) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.log = append([]domain.ProcessingOutcome(nil), outcomes...)
	return nil
}

// --- Synthesiser ---

type mockSynthesizer struct {
	answer   *domain.Answer
	err      error
	query    string
	passages []domain.Passage
}

func (m *mockSynthesizer) Synthesize(_ context.Context, query string, passages []domain.Passage) (*domain.Answer, error) {
	m.query = query
	m.passages = passages
	return m.answer, m.err
}

func (m *mockSynthesizer) ModelName() string { return "mock-model" }
