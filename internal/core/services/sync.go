package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driving"
	"github.com/custodia-labs/ragdrive/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncService = (*SyncOrchestrator)(nil)

// SyncOrchestrator runs incremental syncs of remote folder trees.
type SyncOrchestrator struct {
	provider driven.RemoteFileProvider
	decoders driven.DecoderRegistry
	chunker  driven.Chunker
	index    driven.IndexStore
	chunks   driven.ChunkStore
	meta     driven.SyncMetaStore

	crawler *Crawler
	diff    *DiffEngine
	now     func() time.Time

	// Status tracking
	mu          sync.RWMutex
	activeSyncs map[string]*domain.SyncStatus
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	provider driven.RemoteFileProvider,
	decoders driven.DecoderRegistry,
	chunker driven.Chunker,
	index driven.IndexStore,
	chunks driven.ChunkStore,
	meta driven.SyncMetaStore,
) *SyncOrchestrator {
	o := &SyncOrchestrator{
		provider:    provider,
		decoders:    decoders,
		chunker:     chunker,
		index:       index,
		chunks:      chunks,
		meta:        meta,
		crawler:     NewCrawler(provider),
		now:         time.Now,
		activeSyncs: make(map[string]*domain.SyncStatus),
	}
	o.diff = NewDiffEngine(o.supported)
	return o
}

// Sync crawls rootID and brings the persisted index in line with it.
//
// Unchanged files keep their stored chunks. New and modified files are
// fetched, decoded and chunked. Files that fail are listed in the report
// and left out of the commit so the next run retries them. The index,
// the flattened chunk set and the sync metadata are committed together;
// a crawl or commit failure leaves the previous state untouched.
func (o *SyncOrchestrator) Sync(ctx context.Context, rootID string) (*domain.SyncReport, error) {
	if rootID == "" {
		return nil, fmt.Errorf("%w: root folder id is empty", domain.ErrInvalidInput)
	}
	if !o.begin(rootID) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.clearStatus(rootID)

	logger.Section("Sync")
	logger.Info("Starting sync for folder %s", rootID)

	report := &domain.SyncReport{RootID: rootID, StartedAt: o.now()}

	// 1. Crawl
	o.update(rootID, domain.SyncPhaseCrawling, "Scanning folder: "+RootFolderName, 0, 0)
	crawl, err := o.crawler.Crawl(ctx, rootID, func(name string) {
		o.update(rootID, domain.SyncPhaseCrawling, "Scanning folder: "+name, 0, 0)
	})
	if err != nil {
		return nil, fmt.Errorf("crawl: %w", err)
	}
	report.Scanned = len(crawl.Files)

	// 2. Diff against the committed index
	o.update(rootID, domain.SyncPhaseDiffing, "Comparing with previous sync", 0, 0)
	oldIndex, err := o.index.Load(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	diff := o.diff.Diff(crawl.Files, oldIndex)

	for _, f := range diff.Unsupported {
		report.Skipped++
		report.SkippedList = append(report.SkippedList, domain.SkippedFile{Name: f.Name, Reason: "unsupported type " + f.MIMEType})
	}

	byID := make(map[string]domain.RemoteFileDescriptor, len(crawl.Files))
	for _, f := range crawl.Files {
		byID[f.ID] = f
	}

	// 3. Reuse unchanged files; a missing chunk set demotes the file to processing
	var entries []domain.IndexEntry
	var all []domain.Chunk
	toProcess := diff.ToProcess
	for _, entry := range diff.Reuse {
		chunks, err := o.chunks.GetFile(ctx, entry.ChunkStoreRef)
		if err != nil {
			logger.Warn("Stored chunks for %s unavailable, reprocessing: %v", entry.Name, err)
			toProcess = append(toProcess, byID[entry.FileID])
			continue
		}
		entries = append(entries, entry)
		all = append(all, chunks...)
		report.Reused++
	}

	// 4. Process new and modified files
	total := len(toProcess)
	for i, file := range toProcess {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sync cancelled: %w", err)
		}
		o.update(rootID, domain.SyncPhaseProcessing, "Processing: "+file.Name, i+1, total)

		entry, chunks, miss := o.processFile(ctx, rootID, file)
		if miss != nil {
			report.SkippedList = append(report.SkippedList, domain.SkippedFile{Name: file.Name, Reason: miss.reason})
			if miss.empty {
				report.Skipped++
			} else {
				report.Failed++
			}
			continue
		}
		entries = append(entries, *entry)
		all = append(all, chunks...)
		report.Processed++
	}

	// 5. Commit
	o.update(rootID, domain.SyncPhaseCommitting, "Saving index", total, total)
	report.Stale = len(diff.Stale)
	report.Chunks = len(all)
	report.FinishedAt = o.now()

	meta := domain.SyncMetadata{
		RootID:      rootID,
		LastSyncAt:  report.FinishedAt,
		Fingerprint: indexFingerprint(entries),
		Stats:       *report,
	}
	if err := o.index.Commit(ctx, rootID, entries, all, meta); err != nil {
		o.dropRefs(ctx, unreferenced(entries, oldIndex))
		return nil, fmt.Errorf("commit index: %w", err)
	}

	// Superseded versions and removed files.
	o.dropRefs(ctx, unreferenced(oldIndex, entries))

	o.update(rootID, domain.SyncPhaseDone, "Sync complete", total, total)
	logger.Info("Sync complete: %d scanned, %d reused, %d processed, %d skipped, %d failed, %d chunks",
		report.Scanned, report.Reused, report.Processed, report.Skipped, report.Failed, report.Chunks)
	return report, nil
}

// unreferenced returns the chunk refs of from that no entry of keep uses.
func unreferenced(from, keep []domain.IndexEntry) []domain.IndexEntry {
	kept := make(map[string]bool, len(keep))
	for _, e := range keep {
		kept[e.ChunkStoreRef] = true
	}
	var out []domain.IndexEntry
	for _, e := range from {
		if e.ChunkStoreRef != "" && !kept[e.ChunkStoreRef] {
			out = append(out, e)
		}
	}
	return out
}

// dropRefs deletes chunk sets, logging failures.
func (o *SyncOrchestrator) dropRefs(ctx context.Context, entries []domain.IndexEntry) {
	for _, e := range entries {
		if err := o.chunks.DeleteFile(ctx, e.ChunkStoreRef); err != nil {
			logger.Warn("Failed to delete chunks of %s: %v", e.Name, err)
		}
	}
}

// fileMiss explains why a file was not indexed. Empty files are skipped;
// everything else is a failure.
type fileMiss struct {
	reason string
	empty  bool
}

// processFile fetches, decodes, chunks and stores one file.
func (o *SyncOrchestrator) processFile(
	ctx context.Context, rootID string, file domain.RemoteFileDescriptor,
) (*domain.IndexEntry, []domain.Chunk, *fileMiss) {
	data, mimeType, err := o.fetch(ctx, file)
	if err != nil {
		logger.Warn("Fetch %s failed: %v", file.Name, err)
		return nil, nil, &fileMiss{reason: "fetch failed: " + err.Error()}
	}

	decoded := o.decoders.Decode(ctx, file.Name, mimeType, data)
	if !decoded.OK() {
		logger.Warn("Decode %s failed: %v", file.Name, decoded.Err)
		return nil, nil, &fileMiss{reason: decoded.Err.Error()}
	}
	if strings.TrimSpace(decoded.Text) == "" {
		return nil, nil, &fileMiss{reason: "no text content", empty: true}
	}

	chunks := o.chunker.ChunkRemote(file, decoded.Text)
	ref, err := o.chunks.PutFile(ctx, rootID, file.ID, file.ModifiedTime, chunks)
	if err != nil {
		logger.Warn("Store chunks of %s failed: %v", file.Name, err)
		return nil, nil, &fileMiss{reason: "store chunks: " + err.Error()}
	}

	logger.Debug("Processed %s: %d chunks", file.Name, len(chunks))
	return &domain.IndexEntry{
		FileID:        file.ID,
		Name:          file.Name,
		MIMEType:      file.MIMEType,
		Path:          file.Path,
		ModifiedTime:  file.ModifiedTime,
		ChunkStoreRef: ref,
		ChunkCount:    len(chunks),
	}, chunks, nil
}

// fetch downloads a file, exporting provider-native documents first.
// It returns the content and the MIME type the content is in.
func (o *SyncOrchestrator) fetch(ctx context.Context, file domain.RemoteFileDescriptor) ([]byte, string, error) {
	if target := o.provider.ExportTarget(file.MIMEType); target != "" {
		data, err := o.provider.Export(ctx, file.ID, target)
		return data, target, err
	}
	data, err := o.provider.Download(ctx, file.ID)
	return data, file.MIMEType, err
}

// supported reports whether a file's fetched form can be decoded.
func (o *SyncOrchestrator) supported(file domain.RemoteFileDescriptor) bool {
	mimeType := file.MIMEType
	if target := o.provider.ExportTarget(mimeType); target != "" {
		mimeType = target
	}
	return o.decoders.Supports(file.Name, mimeType)
}

// Status returns live progress for a root.
func (o *SyncOrchestrator) Status(_ context.Context, rootID string) (*domain.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.activeSyncs[rootID]; ok {
		// Return a copy to avoid race conditions
		cp := *status
		return &cp, nil
	}

	// Not running - return idle status
	return &domain.SyncStatus{RootID: rootID}, nil
}

// LastSync returns the metadata written by the last successful sync.
func (o *SyncOrchestrator) LastSync(ctx context.Context, rootID string) (*domain.SyncMetadata, error) {
	meta, err := o.meta.Get(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("get sync metadata: %w", err)
	}
	return meta, nil
}

// begin registers a running sync. Returns false if one is already running.
func (o *SyncOrchestrator) begin(rootID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, running := o.activeSyncs[rootID]; running {
		return false
	}
	o.activeSyncs[rootID] = &domain.SyncStatus{RootID: rootID, Running: true}
	return true
}

func (o *SyncOrchestrator) update(rootID string, phase domain.SyncPhase, msg string, current, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if status, ok := o.activeSyncs[rootID]; ok {
		status.Phase = phase
		status.Message = msg
		status.Current = current
		status.Total = total
	}
}

// clearStatus removes sync status tracking.
func (o *SyncOrchestrator) clearStatus(rootID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeSyncs, rootID)
}

// indexFingerprint hashes the committed (id, modifiedTime) pairs so two
// syncs of an unchanged tree produce the same value.
func indexFingerprint(entries []domain.IndexEntry) string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.FileID + "@" + e.ModifiedTime
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
