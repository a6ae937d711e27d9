// Package mcp provides an MCP (Model Context Protocol) server adapter for ragdrive.
// It lets AI assistants retrieve passages, ask questions and browse the
// local library.
package mcp

import "errors"

var (
	// ErrMissingRetrievalService is returned when the retrieval service is not provided.
	ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

	// ErrMissingLibraryService is returned when the library service is not provided.
	ErrMissingLibraryService = errors.New("mcp: library service is required")
)
