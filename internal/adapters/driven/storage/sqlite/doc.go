// Package sqlite provides a SQLite-backed implementation of driven.KVStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Every ragdrive store (index, chunk sets,
// sync metadata, local library, outcome log) is layered over the single kv table
// through the kv package.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.ragdrive/data/ragdrive.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. SetMany runs in a single transaction.
package sqlite
