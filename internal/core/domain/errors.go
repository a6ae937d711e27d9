package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync is already running for the root.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrLLMUnavailable indicates the answer synthesiser is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Sync Errors.

	// ErrCrawlFailed indicates a folder listing failed and the crawl was aborted.
	ErrCrawlFailed = errors.New("crawl failed")

	// Retrieval Errors.

	// ErrNoRelevantData indicates no chunk scored above zero.
	ErrNoRelevantData = errors.New("no relevant data")

	// ErrEmptyScope indicates the selected scope holds no documents.
	ErrEmptyScope = errors.New("no documents in scope")

	// Ingestion Errors.

	// ErrUnsupportedFormat indicates no decoder handles the item.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrDuplicate indicates an item with the same fingerprint was already ingested.
	ErrDuplicate = errors.New("duplicate")

	// ErrDecodeFailed indicates a decoder could not extract text.
	ErrDecodeFailed = errors.New("decode failed")

	// Storage Errors.

	// ErrStorageFull indicates the store rejected a write for lack of capacity.
	ErrStorageFull = errors.New("storage full")
)

// CrawlError reports the folder listing that aborted a crawl.
type CrawlError struct {
	FolderID string
	Status   int
	Message  string
	Err      error
}

func (e *CrawlError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("crawl folder %s: status %d: %s", e.FolderID, e.Status, e.Message)
	}
	return fmt.Sprintf("crawl folder %s: %s", e.FolderID, e.Message)
}

func (e *CrawlError) Unwrap() error { return e.Err }

// Is matches ErrCrawlFailed.
func (e *CrawlError) Is(target error) bool { return target == ErrCrawlFailed }

// ProviderError is a remote provider failure with its HTTP status.
type ProviderError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("Drive API Error [%d]: %s: %s", e.Status, e.Op, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is matches ErrNotFound for 404 and ErrRateLimited for 429.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == 404
	case ErrRateLimited:
		return e.Status == 429
	}
	return false
}

// Retryable reports whether the request may succeed if repeated.
func (e *ProviderError) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}

// RetrievalError reports a query that produced nothing to answer from.
// Kind is ErrEmptyScope or ErrNoRelevantData.
type RetrievalError struct {
	Kind  error
	Scope Scope
	Query string
}

func (e *RetrievalError) Error() string {
	if e.Kind == ErrEmptyScope {
		return fmt.Sprintf("no documents in %s", e.Scope.Description())
	}
	return fmt.Sprintf("no relevant data for %q in %s", e.Query, e.Scope.Description())
}

func (e *RetrievalError) Unwrap() error { return e.Kind }

// DecodeError wraps a decoder failure for one input.
type DecodeError struct {
	Name    string
	Decoder string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Decoder == "" {
		return fmt.Sprintf("decode %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("decode %s with %s: %v", e.Name, e.Decoder, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches ErrDecodeFailed.
func (e *DecodeError) Is(target error) bool { return target == ErrDecodeFailed }

// PersistenceWarning reports that results were produced but not saved.
// It is returned alongside results, never instead of them.
type PersistenceWarning struct {
	// Capacity is true when the store ran out of room.
	Capacity bool
	Err      error
}

func (w *PersistenceWarning) Error() string {
	if w.Capacity {
		return fmt.Sprintf("results not saved: storage full: %v", w.Err)
	}
	return fmt.Sprintf("results not saved: %v", w.Err)
}

func (w *PersistenceWarning) Unwrap() error { return w.Err }

// NewPersistenceWarning classifies a store write error.
func NewPersistenceWarning(err error) *PersistenceWarning {
	return &PersistenceWarning{Capacity: errors.Is(err, ErrStorageFull), Err: err}
}
