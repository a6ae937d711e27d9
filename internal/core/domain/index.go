package domain

import "time"

// IndexEntry records a processed remote file and where its chunks live.
type IndexEntry struct {
	// FileID is the remote file identifier.
	FileID string `json:"fileId"`

	// Name is the file name at processing time.
	Name string `json:"name"`

	// MIMEType is the remote MIME type at processing time.
	MIMEType string `json:"mimeType"`

	// Path is the folder path of the file within the root.
	Path string `json:"path"`

	// ModifiedTime is the remote modification timestamp the chunks were
	// produced from. Used verbatim as the change fingerprint.
	ModifiedTime string `json:"modifiedTime"`

	// ChunkStoreRef is the key of the per-file chunk set.
	ChunkStoreRef string `json:"chunkStoreRef"`

	// ChunkCount is the number of chunks stored under ChunkStoreRef.
	ChunkCount int `json:"chunkCount"`
}

// DiffResult partitions a fresh listing against the previous index.
type DiffResult struct {
	// Reuse holds old entries whose file is unchanged.
	Reuse []IndexEntry

	// ToProcess holds descriptors that are new or modified.
	ToProcess []RemoteFileDescriptor

	// Stale holds old entries that should be dropped from the index.
	Stale []IndexEntry

	// Unsupported holds descriptors whose type cannot be decoded.
	Unsupported []RemoteFileDescriptor
}

// SkippedFile names a file that was not indexed during a sync and why.
type SkippedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SyncReport summarises a completed sync run.
type SyncReport struct {
	RootID string `json:"rootId"`

	// Scanned is the number of files returned by the crawl.
	Scanned int `json:"scanned"`

	// Reused is the number of unchanged files whose chunks were kept.
	Reused int `json:"reused"`

	// Processed is the number of files downloaded, decoded and chunked.
	Processed int `json:"processed"`

	// Skipped is the number of unsupported files.
	Skipped int `json:"skipped"`

	// Failed is the number of files that errored and will be retried.
	Failed int `json:"failed"`

	// Stale is the number of entries removed from the index.
	Stale int `json:"stale"`

	// Chunks is the total number of chunks in the committed chunk set.
	Chunks int `json:"chunks"`

	// SkippedList names each skipped or failed file.
	SkippedList []SkippedFile `json:"skippedList,omitempty"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Duration returns how long the sync took.
func (r SyncReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// SyncMetadata is persisted after each successful commit.
type SyncMetadata struct {
	RootID     string    `json:"rootId"`
	LastSyncAt time.Time `json:"lastSyncAt"`

	// Fingerprint summarises the committed index so callers can detect change.
	Fingerprint string `json:"fingerprint"`

	Stats SyncReport `json:"stats"`
}

// SyncPhase names a stage of a running sync.
type SyncPhase string

// Sync phases in execution order.
const (
	SyncPhaseCrawling   SyncPhase = "crawling"
	SyncPhaseDiffing    SyncPhase = "diffing"
	SyncPhaseProcessing SyncPhase = "processing"
	SyncPhaseCommitting SyncPhase = "committing"
	SyncPhaseDone       SyncPhase = "done"
)

// SyncStatus is a live snapshot of a sync in progress.
type SyncStatus struct {
	// RootID identifies the synced folder.
	RootID string

	// Running indicates if sync is currently in progress.
	Running bool

	// Phase is the current stage.
	Phase SyncPhase

	// Message is a human-readable progress line.
	Message string

	// Current and Total count files during the processing phase.
	Current int
	Total   int
}
