package driven

import (
	"context"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// RemoteFileProvider is the remote folder tree a crawl walks.
// Implementations return *domain.ProviderError for HTTP failures.
type RemoteFileProvider interface {
	// List returns one page of the direct, non-trashed children of a folder.
	// An empty pageToken requests the first page.
	List(ctx context.Context, folderID, pageToken string) (*domain.ListPage, error)

	// Download returns the binary content of a file.
	Download(ctx context.Context, fileID string) ([]byte, error)

	// Export converts a provider-native document to mimeType and returns it.
	Export(ctx context.Context, fileID, mimeType string) ([]byte, error)

	// ExportTarget returns the MIME type a provider-native document is
	// exported as, or "" if the file must be downloaded as is.
	ExportTarget(mimeType string) string
}
