package domain

import (
	"fmt"
	"time"
)

// LocalDocument is a decoded user-supplied file held in the local library.
type LocalDocument struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Content      string    `json:"content"`
	UploadDate   time.Time `json:"uploadDate"`
	Source       DocSource `json:"source"`
	MIMEType     string    `json:"mimeType,omitempty"`
	Fingerprint  string    `json:"fingerprint"`
	RelativePath string    `json:"relativePath"`
	Size         int64     `json:"size"`
}

// IngestItem is a candidate file handed to the ingestion pipeline.
type IngestItem struct {
	// RelativePath is the path relative to the ingestion root.
	// Falls back to Name when empty.
	RelativePath string

	// Name is the base file name.
	Name string

	// Size is the byte size of the file.
	Size int64

	// ModTime is the file's last modification time.
	ModTime time.Time

	// Data is the raw file content.
	Data []byte

	// MIMEType is an optional hint. Sniffed from Data when empty.
	MIMEType string
}

// Fingerprint returns "<size>-<mtime unix ms>-<relative path>".
// Two items with equal fingerprints are treated as the same file.
func (i IngestItem) Fingerprint() string {
	path := i.RelativePath
	if path == "" {
		path = i.Name
	}
	return fmt.Sprintf("%d-%d-%s", i.Size, i.ModTime.UnixMilli(), path)
}

// OutcomeStatus is the verdict for one ingested item.
type OutcomeStatus string

// Outcome statuses.
const (
	OutcomeSuccess   OutcomeStatus = "success"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeSkipped   OutcomeStatus = "skipped"
	OutcomeDuplicate OutcomeStatus = "duplicate"
)

// ProcessingOutcome records what happened to one ingested item.
type ProcessingOutcome struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Status        OutcomeStatus `json:"status"`
	Reason        string        `json:"reason,omitempty"`
	ContentLength int           `json:"contentLength,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

// IngestResult is the output of an ingestion run.
type IngestResult struct {
	// Documents are the newly accepted documents, in input order.
	Documents []LocalDocument

	// Outcomes has one entry per item examined, in input order.
	// Items in batches that never started have no outcome.
	Outcomes []ProcessingOutcome

	// Cancelled is true if the run stopped before the last batch.
	Cancelled bool

	// Warning is set when the results could not be persisted.
	Warning *PersistenceWarning
}

// Count returns how many outcomes have the given status.
func (r *IngestResult) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
