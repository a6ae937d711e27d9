// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RemoteFileProvider: Lists, downloads and exports remote files
//   - KVStore: Byte-oriented key-value persistence
//   - IndexStore, ChunkStore, SyncMetaStore: Remote index persistence
//   - LocalDocumentStore, OutcomeStore: Local library persistence
//   - Decoder, DecoderRegistry: Raw bytes to text
//   - Chunker: Text to overlapping windows
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AnswerSynthesizer: Produces structured answers. Without it, only
//     retrieval is available.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or decoder package
package driven
