package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// mockSyncService implements driving.SyncService for testing.
type mockSyncService struct {
	report   *domain.SyncReport
	err      error
	status   *domain.SyncStatus
	meta     *domain.SyncMetadata
	metaErr  error
	lastRoot string
}

func (m *mockSyncService) Sync(_ context.Context, rootID string) (*domain.SyncReport, error) {
	m.lastRoot = rootID
	return m.report, m.err
}

func (m *mockSyncService) Status(_ context.Context, _ string) (*domain.SyncStatus, error) {
	return m.status, nil
}

func (m *mockSyncService) LastSync(_ context.Context, _ string) (*domain.SyncMetadata, error) {
	return m.meta, m.metaErr
}

// mockRetrievalService implements driving.RetrievalService for testing.
type mockRetrievalService struct {
	hits      []domain.ScoredChunk
	err       error
	lastQuery string
	lastOpts  domain.RetrieveOptions
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.ScoredChunk, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.hits, m.err
}

// mockAskService implements driving.AskService for testing.
type mockAskService struct {
	answer *domain.Answer
	hits   []domain.ScoredChunk
	err    error
}

func (m *mockAskService) Ask(
	_ context.Context, _ string, _ domain.RetrieveOptions,
) (*domain.Answer, []domain.ScoredChunk, error) {
	return m.answer, m.hits, m.err
}

// mockLibraryService implements driving.LibraryService for testing.
type mockLibraryService struct {
	result    *domain.IngestResult
	documents []domain.LocalDocument
	outcomes  []domain.ProcessingOutcome
	err       error

	ingested  []domain.IngestItem
	deleted   string
	cleared   bool
	lastLimit int
}

func (m *mockLibraryService) Ingest(_ context.Context, items []domain.IngestItem) (*domain.IngestResult, error) {
	m.ingested = append(m.ingested, items...)
	if m.result == nil {
		return &domain.IngestResult{}, m.err
	}
	return m.result, m.err
}

func (m *mockLibraryService) Documents(_ context.Context) ([]domain.LocalDocument, error) {
	return m.documents, m.err
}

func (m *mockLibraryService) Delete(_ context.Context, id string) error {
	m.deleted = id
	return m.err
}

func (m *mockLibraryService) Clear(_ context.Context) error {
	m.cleared = true
	return m.err
}

func (m *mockLibraryService) Outcomes(_ context.Context, limit int) ([]domain.ProcessingOutcome, error) {
	m.lastLimit = limit
	return m.outcomes, m.err
}

// testServices are the mocks installed by setupTestServices.
type testServices struct {
	sync      *mockSyncService
	retrieval *mockRetrievalService
	ask       *mockAskService
	library   *mockLibraryService
}

// setupTestServices replaces wiring with mocks and restores the
// previous state when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	oldWire, oldLoadConfig := wire, loadConfig
	oldSync, oldRetrieval, oldAsk, oldLibrary := syncService, retrievalService, askService, libraryService
	oldConfig, oldRoot, oldClose := configStore, defaultRoot, closeServices
	oldPoll := syncPollInterval

	ts := &testServices{
		sync:      &mockSyncService{},
		retrieval: &mockRetrievalService{},
		ask:       &mockAskService{},
		library:   &mockLibraryService{},
	}
	wire = func(context.Context) error { return nil }
	loadConfig = func() error { return nil }
	syncService = ts.sync
	retrievalService = ts.retrieval
	askService = ts.ask
	libraryService = ts.library
	configStore = nil
	defaultRoot = "root"
	closeServices = nil
	syncPollInterval = 5 * time.Millisecond

	t.Cleanup(func() {
		wire, loadConfig = oldWire, oldLoadConfig
		syncService, retrievalService, askService, libraryService = oldSync, oldRetrieval, oldAsk, oldLibrary
		configStore, defaultRoot, closeServices = oldConfig, oldRoot, oldClose
		syncPollInterval = oldPoll
	})
	return ts
}

// resetFlags restores every flag to its default so values do not leak
// between executions of the shared root command.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout, stderr
// and the error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
