package domain

// DocSource tells where a chunk's text came from.
type DocSource string

// Document sources.
const (
	DocSourceRemote DocSource = "remote"
	DocSourceLocal  DocSource = "local"
)

// Chunk is a contiguous window of a document's decoded text.
type Chunk struct {
	// ChunkID is "<fileID>_<startOffset>", unique within a document.
	ChunkID string `json:"chunkId"`

	// FileID is the owning document's identifier.
	FileID string `json:"fileId"`

	// FileName is the owning document's name.
	FileName string `json:"fileName"`

	// Path is the owning document's folder path, if any.
	Path string `json:"path,omitempty"`

	// Text is the window content.
	Text string `json:"text"`

	// Snippet is a short preview of Text.
	Snippet string `json:"snippet"`

	// Source is where the document came from.
	Source DocSource `json:"source"`
}

// ScoredChunk pairs a chunk with its relevance to a query.
type ScoredChunk struct {
	Chunk
	Score float64
}
