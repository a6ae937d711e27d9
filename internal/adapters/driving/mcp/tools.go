package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragdrive/internal/connectors/google/drive"
	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the question or keywords to look up"`
	Scope string `json:"scope,omitempty" jsonschema:"remote, local or both (default both)"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of passages (default from configuration)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
}

// PassageOutput is one retrieved chunk.
type PassageOutput struct {
	FileID   string  `json:"file_id"`
	FileName string  `json:"file_name"`
	Path     string  `json:"path,omitempty"`
	Source   string  `json:"source"`
	URL      string  `json:"url,omitempty"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer"`
	Scope    string `json:"scope,omitempty" jsonschema:"remote, local or both (default both)"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to answer from"`
}

// SyncStatusInput is the input schema for the sync_status tool.
type SyncStatusInput struct {
	RootID string `json:"root_id,omitempty" jsonschema:"Drive folder id (default the configured folder)"`
}

// SyncStatusOutput is the output schema for the sync_status tool.
type SyncStatusOutput struct {
	RootID      string `json:"root_id"`
	Synced      bool   `json:"synced"`
	Running     bool   `json:"running"`
	Phase       string `json:"phase,omitempty"`
	LastSyncAt  string `json:"last_sync_at,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Files       int    `json:"files"`
	Chunks      int    `json:"chunks"`
}

// errSyncUnavailable is returned by sync_status when Drive is not configured.
var errSyncUnavailable = errors.New("drive sync is not configured")

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the indexed passages most relevant to a query",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from indexed passages with cited sources",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_status",
		Description: "Report when the Drive folder was last synchronised",
	}, s.handleSyncStatus)
}

func (s *Server) retrieveOptions(scope string, topK int) (domain.RetrieveOptions, error) {
	sc, err := domain.ParseScope(scope)
	if err != nil {
		return domain.RetrieveOptions{}, err
	}
	return domain.RetrieveOptions{Scope: sc, TopK: max(topK, 0), RootID: s.ports.RootID}, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	opts, err := s.retrieveOptions(input.Scope, input.TopK)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	hits, err := s.ports.Retrieval.Retrieve(ctx, input.Query, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Passages: make([]PassageOutput, len(hits)),
		Count:    len(hits),
	}
	for i, h := range hits {
		output.Passages[i] = PassageOutput{
			FileID:   h.FileID,
			FileName: h.FileName,
			Path:     h.Path,
			Source:   string(h.Source),
			URL:      chunkURL(h.Chunk),
			Score:    h.Score,
			Text:     h.Text,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, domain.Answer, error) {
	if s.ports.Ask == nil {
		return nil, domain.Answer{}, domain.ErrLLMUnavailable
	}

	opts, err := s.retrieveOptions(input.Scope, input.TopK)
	if err != nil {
		return nil, domain.Answer{}, err
	}

	answer, hits, err := s.ports.Ask.Ask(ctx, input.Question, opts)
	if err != nil {
		return nil, domain.Answer{}, err
	}

	urls := make(map[string]string)
	for _, h := range hits {
		if u := chunkURL(h.Chunk); u != "" {
			urls[h.FileName] = u
		}
	}
	for i := range answer.Sources {
		if answer.Sources[i].URL == "" {
			answer.Sources[i].URL = urls[answer.Sources[i].Title]
		}
	}

	return nil, *answer, nil
}

// handleSyncStatus handles the sync_status tool invocation.
func (s *Server) handleSyncStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncStatusInput,
) (*mcp.CallToolResult, SyncStatusOutput, error) {
	if s.ports.Sync == nil {
		return nil, SyncStatusOutput{}, errSyncUnavailable
	}

	rootID := input.RootID
	if rootID == "" {
		rootID = s.ports.RootID
	}
	output := SyncStatusOutput{RootID: rootID}

	if status, err := s.ports.Sync.Status(ctx, rootID); err == nil && status != nil {
		output.Running = status.Running
		output.Phase = string(status.Phase)
	}

	meta, err := s.ports.Sync.LastSync(ctx, rootID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, output, nil
	}
	if err != nil {
		return nil, SyncStatusOutput{}, err
	}

	output.Synced = true
	output.LastSyncAt = meta.LastSyncAt.UTC().Format(time.RFC3339)
	output.Fingerprint = meta.Fingerprint
	output.Files = meta.Stats.Reused + meta.Stats.Processed
	output.Chunks = meta.Stats.Chunks
	return nil, output, nil
}

// chunkURL links remote chunks back to Drive.
func chunkURL(c domain.Chunk) string {
	if c.Source != domain.DocSourceRemote {
		return ""
	}
	return drive.ResolveWebURL(c.FileID, "")
}
