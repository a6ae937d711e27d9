package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

const (
	uriScheme = "ragdrive://"

	// outcomeResourceLimit caps the outcome log exposed as a resource.
	outcomeResourceLimit = 100
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Documents in the local library",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "outcomes",
		Name:        "outcomes",
		Description: "Recent ingestion outcomes, newest first",
		MIMEType:    "application/json",
	}, s.handleOutcomesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Decoded text of a library document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

// handleDocumentsResource lists the library without document content.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Library.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		RelativePath string    `json:"relative_path"`
		URI          string    `json:"uri"`
		UploadDate   time.Time `json:"upload_date"`
	}

	infos := make([]docInfo, len(docs))
	for i, d := range docs {
		infos[i] = docInfo{
			ID:           d.ID,
			Name:         d.Name,
			RelativePath: d.RelativePath,
			URI:          uriScheme + "documents/" + d.ID,
			UploadDate:   d.UploadDate,
		}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleOutcomesResource returns the recent outcome log.
func (s *Server) handleOutcomesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	log, err := s.ports.Library.Outcomes(ctx, outcomeResourceLimit)
	if err != nil {
		return nil, fmt.Errorf("reading outcome log: %w", err)
	}
	if log == nil {
		log = []domain.ProcessingOutcome{}
	}
	return jsonResult(req.Params.URI, log)
}

// handleDocumentContentResource returns the content of a specific document.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docs, err := s.ports.Library.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	for _, d := range docs {
		if d.ID == docID {
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{{
					URI:      req.Params.URI,
					MIMEType: "text/plain",
					Text:     d.Content,
				}},
			}, nil
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like ragdrive://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
