package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync [folder]", syncCmd.Use)
	assert.Contains(t, syncCmd.Long, "incrementally")
}

func TestSyncCmd_ConfiguredRoot(t *testing.T) {
	ts := setupTestServices(t)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ts.sync.report = &domain.SyncReport{
		RootID:      "root",
		Scanned:     5,
		Reused:      3,
		Processed:   1,
		Skipped:     1,
		Chunks:      12,
		SkippedList: []domain.SkippedFile{{Name: "movie.mp4", Reason: "unsupported file type"}},
		StartedAt:   start,
		FinishedAt:  start.Add(2 * time.Second),
	}

	out, _, err := execute(t, "", "sync")

	require.NoError(t, err)
	assert.Equal(t, "root", ts.sync.lastRoot)
	assert.Contains(t, out, "Synchronising folder root...")
	assert.Contains(t, out, "Folder root synchronised in 2s.")
	assert.Contains(t, out, "Chunks:")
	assert.Contains(t, out, "1 skipped, 0 failed:")
	assert.Contains(t, out, "movie.mp4")
}

func TestSyncCmd_FolderURL(t *testing.T) {
	ts := setupTestServices(t)
	ts.sync.report = &domain.SyncReport{RootID: "abc123"}

	_, _, err := execute(t, "", "sync", "https://drive.google.com/drive/folders/abc123")

	require.NoError(t, err)
	assert.Equal(t, "abc123", ts.sync.lastRoot)
}

func TestSyncCmd_NoRoot(t *testing.T) {
	setupTestServices(t)
	defaultRoot = ""

	_, _, err := execute(t, "", "sync")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "drive.root_folder_id")
}

func TestSyncCmd_NotConfigured(t *testing.T) {
	setupTestServices(t)
	syncService = nil

	_, _, err := execute(t, "", "sync")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSyncCmd_CrawlError(t *testing.T) {
	ts := setupTestServices(t)
	ts.sync.err = &domain.CrawlError{FolderID: "sub", Status: 403, Message: "forbidden"}

	_, stderr, err := execute(t, "", "sync")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCrawlFailed)
	assert.Contains(t, stderr, "Listing folder sub failed [403]: forbidden")
}

func TestSyncCmd_InProgress(t *testing.T) {
	ts := setupTestServices(t)
	ts.sync.err = domain.ErrSyncInProgress

	_, _, err := execute(t, "", "sync")

	assert.ErrorIs(t, err, domain.ErrSyncInProgress)
}

func TestProgressLine(t *testing.T) {
	assert.Equal(t, "processing 2/5: report.pdf",
		progressLine(&domain.SyncStatus{Phase: domain.SyncPhaseProcessing, Current: 2, Total: 5, Message: "report.pdf"}))
	assert.Equal(t, "crawling: listing folders",
		progressLine(&domain.SyncStatus{Phase: domain.SyncPhaseCrawling, Message: "listing folders"}))
}

func TestStatusCmd(t *testing.T) {
	t.Run("never synced", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.sync.metaErr = domain.ErrNotFound

		out, _, err := execute(t, "", "status")

		require.NoError(t, err)
		assert.Contains(t, out, "Folder root has not been synchronised yet.")
	})

	t.Run("last sync", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.sync.meta = &domain.SyncMetadata{
			RootID:      "root",
			LastSyncAt:  time.Now(),
			Fingerprint: "f00d",
			Stats:       domain.SyncReport{Reused: 2, Processed: 1, Chunks: 9},
		}

		out, _, err := execute(t, "", "status")

		require.NoError(t, err)
		assert.Contains(t, out, "Folder root")
		assert.Contains(t, out, "f00d")
		assert.Contains(t, out, "3 files, 9 chunks")
	})

	t.Run("running", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.sync.status = &domain.SyncStatus{Running: true, Phase: domain.SyncPhaseCrawling, Message: "listing"}
		ts.sync.metaErr = domain.ErrNotFound

		out, _, err := execute(t, "", "status")

		require.NoError(t, err)
		assert.Contains(t, out, "Sync in progress: crawling: listing")
	})

	t.Run("metadata error", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.sync.metaErr = errors.New("disk")

		_, _, err := execute(t, "", "status")
		assert.Error(t, err)
	})

	t.Run("sync not configured", func(t *testing.T) {
		setupTestServices(t)
		syncService = nil

		out, _, err := execute(t, "", "status")

		require.NoError(t, err)
		assert.Contains(t, out, "not configured")
	})
}
