// Package services holds the ragdrive core: the Drive crawler and diff
// engine, the sync orchestrator, chunk scoring and retrieval, and the local
// ingestion pipeline. Services depend only on ports; adapters are injected
// by the CLI wiring.
package services
