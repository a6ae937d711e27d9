package mcp

import (
	"github.com/custodia-labs/ragdrive/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Retrieval scores chunks against a query.
	Retrieval driving.RetrievalService

	// Ask synthesises answers. Optional.
	Ask driving.AskService

	// Library exposes the local documents.
	Library driving.LibraryService

	// Sync reports the state of the remote index. Optional.
	Sync driving.SyncService

	// RootID is the configured remote folder.
	RootID string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	return nil
}
