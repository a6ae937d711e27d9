package services

import (
	"context"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
	"github.com/custodia-labs/ragdrive/internal/logger"
)

// Ingestion defaults.
const (
	DefaultBatchSize        = 50
	DefaultMinContentLength = 5
)

// BatchFunc is called after each batch with the number of items examined so far.
type BatchFunc func(done, total int)

// IngestPipeline decodes candidate files into local documents.
type IngestPipeline struct {
	decoders   driven.DecoderRegistry
	batchSize  int
	minContent int
	onBatch    BatchFunc
	now        func() time.Time
	newID      func() string
	log        logger.Component
}

// IngestOption configures an IngestPipeline.
type IngestOption func(*IngestPipeline)

// WithBatchSize sets how many items are processed between yield points.
func WithBatchSize(n int) IngestOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithMinContentLength sets the shortest decoded text accepted, in characters.
func WithMinContentLength(n int) IngestOption {
	return func(p *IngestPipeline) {
		if n >= 0 {
			p.minContent = n
		}
	}
}

// WithBatchHook registers a callback run after every batch.
func WithBatchHook(fn BatchFunc) IngestOption {
	return func(p *IngestPipeline) {
		p.onBatch = fn
	}
}

// NewIngestPipeline creates a pipeline over the given decoders.
func NewIngestPipeline(decoders driven.DecoderRegistry, opts ...IngestOption) *IngestPipeline {
	p := &IngestPipeline{
		decoders:   decoders,
		batchSize:  DefaultBatchSize,
		minContent: DefaultMinContentLength,
		now:        time.Now,
		newID:      uuid.NewString,
		log:        logger.For("ingest"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest examines items in order, in batches. Between batches it yields
// the processor and then checks ctx; once ctx is done no further batch
// starts, but everything already processed is returned with Cancelled set.
//
// An item whose fingerprint matches an existing document, or a document
// accepted earlier in the same run, is a duplicate. Per-item failures are
// reported as outcomes and never returned as an error.
func (p *IngestPipeline) Ingest(
	ctx context.Context, items []domain.IngestItem, existing []domain.LocalDocument,
) *domain.IngestResult {
	known := make(map[string]bool, len(existing)+len(items))
	for _, doc := range existing {
		known[doc.Fingerprint] = true
	}

	result := &domain.IngestResult{}
	for start := 0; start < len(items); start += p.batchSize {
		if start > 0 {
			runtime.Gosched()
		}
		if ctx.Err() != nil {
			p.log.Info("cancelled after %d of %d items", start, len(items))
			result.Cancelled = true
			break
		}

		end := min(start+p.batchSize, len(items))
		for _, item := range items[start:end] {
			outcome, doc := p.process(ctx, item, known)
			result.Outcomes = append(result.Outcomes, outcome)
			if doc != nil {
				result.Documents = append(result.Documents, *doc)
			}
		}

		if p.onBatch != nil {
			p.onBatch(end, len(items))
		}
	}

	p.log.Info("%d items: %d success, %d skipped, %d failed, %d duplicate",
		len(result.Outcomes),
		result.Count(domain.OutcomeSuccess), result.Count(domain.OutcomeSkipped),
		result.Count(domain.OutcomeFailed), result.Count(domain.OutcomeDuplicate))
	return result
}

func (p *IngestPipeline) process(
	ctx context.Context, item domain.IngestItem, known map[string]bool,
) (domain.ProcessingOutcome, *domain.LocalDocument) {
	outcome := domain.ProcessingOutcome{
		ID:        p.newID(),
		Name:      item.Name,
		Timestamp: p.now(),
	}

	fingerprint := item.Fingerprint()
	if known[fingerprint] {
		outcome.Status = domain.OutcomeDuplicate
		outcome.Reason = "already in library"
		return outcome, nil
	}

	if !p.decoders.Supports(item.Name, item.MIMEType) {
		outcome.Status = domain.OutcomeSkipped
		outcome.Reason = "unsupported file type"
		return outcome, nil
	}

	decoded := p.decoders.Decode(ctx, item.Name, item.MIMEType, item.Data)
	if !decoded.OK() {
		p.log.Warn("%s: %v", item.Name, decoded.Err)
		outcome.Status = domain.OutcomeFailed
		outcome.Reason = decoded.Err.Error()
		return outcome, nil
	}

	content := strings.TrimSpace(decoded.Text)
	length := utf8.RuneCountInString(content)
	if length < p.minContent {
		outcome.Status = domain.OutcomeSkipped
		outcome.Reason = "no extractable text"
		outcome.ContentLength = length
		return outcome, nil
	}

	relPath := item.RelativePath
	if relPath == "" {
		relPath = item.Name
	}
	doc := &domain.LocalDocument{
		ID:           p.newID(),
		Name:         item.Name,
		Content:      content,
		UploadDate:   outcome.Timestamp,
		Source:       domain.DocSourceLocal,
		MIMEType:     item.MIMEType,
		Fingerprint:  fingerprint,
		RelativePath: relPath,
		Size:         item.Size,
	}
	known[fingerprint] = true

	outcome.Status = domain.OutcomeSuccess
	outcome.ContentLength = length
	return outcome, doc
}
