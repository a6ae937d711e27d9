package driven

import "github.com/custodia-labs/ragdrive/internal/core/domain"

// Chunker splits decoded documents into retrievable windows.
// Identical input must yield identical chunks.
type Chunker interface {
	// ChunkRemote chunks the decoded text of a remote file.
	ChunkRemote(file domain.RemoteFileDescriptor, text string) []domain.Chunk

	// ChunkLocal chunks a local library document.
	ChunkLocal(doc domain.LocalDocument) []domain.Chunk
}
