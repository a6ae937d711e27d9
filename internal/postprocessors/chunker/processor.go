// Package chunker provides a deterministic overlapping-window text chunker.
package chunker

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// DefaultWindowSize is the default number of characters per chunk.
const DefaultWindowSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// DefaultMinLength is the shortest window kept.
const DefaultMinLength = 50

// SnippetLength is the number of characters copied into Chunk.Snippet.
const SnippetLength = 100

// Processor splits text into fixed-size overlapping windows.
// Sizes and offsets count Unicode code points, not bytes.
type Processor struct {
	windowSize int
	overlap    int
	minLength  int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithWindowSize sets the window size in characters.
func WithWindowSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.windowSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithMinLength sets the minimum window length kept.
func WithMinLength(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minLength = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		windowSize: DefaultWindowSize,
		overlap:    DefaultOverlap,
		minLength:  DefaultMinLength,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must leave a positive step.
	if p.overlap >= p.windowSize {
		p.overlap = p.windowSize / 4
	}

	return p
}

// FromSettings builds a processor from configuration. Zero values keep defaults.
func FromSettings(s domain.ChunkingSettings) *Processor {
	return New(WithWindowSize(s.WindowSize), WithOverlap(s.Overlap), WithMinLength(s.MinLength))
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// WindowSize returns the configured window size.
func (p *Processor) WindowSize() int { return p.windowSize }

// Overlap returns the effective overlap.
func (p *Processor) Overlap() int { return p.overlap }

// Chunk splits text into windows starting at offset 0 and advancing by
// windowSize-overlap while the start lies inside the text. The last window
// is clipped to the end of the text. Windows shorter than the minimum
// length are dropped. The returned chunks have no Source set.
func (p *Processor) Chunk(text, fileID, fileName, path string) []domain.Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	step := p.windowSize - p.overlap

	chunks := make([]domain.Chunk, 0, n/step+1)
	for start := 0; start < n; start += step {
		end := min(start+p.windowSize, n)
		if end-start < p.minLength {
			continue
		}

		chunks = append(chunks, window(runes, start, end, fileID, fileName, path))
	}

	return chunks
}

func window(runes []rune, start, end int, fileID, fileName, path string) domain.Chunk {
	return domain.Chunk{
		ChunkID:  fileID + "_" + strconv.Itoa(start),
		FileID:   fileID,
		FileName: fileName,
		Path:     path,
		Text:     string(runes[start:end]),
		Snippet:  snippet(runes[start:end]),
	}
}

// ChunkRemote chunks the decoded text of a remote file.
func (p *Processor) ChunkRemote(file domain.RemoteFileDescriptor, text string) []domain.Chunk {
	return withSource(p.Chunk(text, file.ID, file.Name, file.Path), domain.DocSourceRemote)
}

// ChunkLocal chunks a local library document. Ingestion already applied
// its own minimum content length, so a document too short for any window
// still yields its first window.
func (p *Processor) ChunkLocal(doc domain.LocalDocument) []domain.Chunk {
	chunks := p.Chunk(doc.Content, doc.ID, doc.Name, doc.RelativePath)
	if len(chunks) == 0 && strings.TrimSpace(doc.Content) != "" {
		runes := []rune(doc.Content)
		end := min(p.windowSize, len(runes))
		chunks = []domain.Chunk{window(runes, 0, end, doc.ID, doc.Name, doc.RelativePath)}
	}
	return withSource(chunks, domain.DocSourceLocal)
}

func withSource(chunks []domain.Chunk, src domain.DocSource) []domain.Chunk {
	for i := range chunks {
		chunks[i].Source = src
	}
	return chunks
}

func snippet(r []rune) string {
	if len(r) > SnippetLength {
		r = r[:SnippetLength]
	}
	return string(r)
}
