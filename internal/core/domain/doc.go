// Package domain defines the core business entities for ragdrive.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RemoteFileDescriptor: A file discovered by crawling a remote folder tree
//   - IndexEntry: The persisted record of a processed remote file
//   - Chunk: A retrievable window of text
//   - LocalDocument: A user-supplied file held in the local library
//   - ProcessingOutcome: The per-item verdict of a local ingestion run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
