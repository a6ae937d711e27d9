package services

import "github.com/custodia-labs/ragdrive/internal/core/domain"

// SupportFunc reports whether a remote file can be decoded.
type SupportFunc func(file domain.RemoteFileDescriptor) bool

// DiffEngine partitions a fresh listing against the previous index.
type DiffEngine struct {
	supports SupportFunc
}

// NewDiffEngine creates a diff engine. A nil supports func accepts every file.
func NewDiffEngine(supports SupportFunc) *DiffEngine {
	return &DiffEngine{supports: supports}
}

// Diff compares listing with oldIndex.
//
// A file is reused only when its ID is in the old index with an identical
// ModifiedTime string. New or modified files are to be processed. Old
// entries whose file is missing from the listing, or is no longer
// supported, are stale. Unsupported files are never processed.
//
// Output slices preserve input order. The result depends only on its
// inputs.
func (e *DiffEngine) Diff(listing []domain.RemoteFileDescriptor, oldIndex []domain.IndexEntry) domain.DiffResult {
	old := make(map[string]domain.IndexEntry, len(oldIndex))
	for _, entry := range oldIndex {
		old[entry.FileID] = entry
	}

	var result domain.DiffResult
	present := make(map[string]bool, len(listing))

	for _, file := range listing {
		if present[file.ID] {
			continue
		}
		if e.supports != nil && !e.supports(file) {
			result.Unsupported = append(result.Unsupported, file)
			continue
		}
		present[file.ID] = true

		if prev, ok := old[file.ID]; ok && prev.ModifiedTime == file.ModifiedTime {
			result.Reuse = append(result.Reuse, prev)
			continue
		}
		result.ToProcess = append(result.ToProcess, file)
	}

	for _, entry := range oldIndex {
		if !present[entry.FileID] {
			result.Stale = append(result.Stale, entry)
		}
	}

	return result
}
