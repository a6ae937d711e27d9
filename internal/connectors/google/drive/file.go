package drive

import (
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// Export MIME types.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxContentSize is the maximum size of a downloaded or exported file (20MB).
const MaxContentSize = 20 * 1024 * 1024

// exportTargets maps Workspace documents to the format they are exported as.
var exportTargets = map[string]string{
	MimeTypeGoogleDoc:    ExportMimeText,
	MimeTypeGoogleSheet:  ExportMimeCSV,
	MimeTypeGoogleSlides: ExportMimeText,
}

// ExportTarget returns the export MIME type for a Workspace document,
// or "" for files that are downloaded as is.
func ExportTarget(mimeType string) string {
	return exportTargets[mimeType]
}

// listFields are the file fields requested when listing a folder.
const listFields = "nextPageToken, files(id, name, mimeType, size, modifiedTime, md5Checksum)"

// toEntry converts an API file to a listing entry.
func toEntry(f *drive.File) domain.RemoteEntry {
	return domain.RemoteEntry{
		RemoteFileDescriptor: domain.RemoteFileDescriptor{
			ID:           f.Id,
			Name:         f.Name,
			MIMEType:     f.MimeType,
			Size:         f.Size,
			ModifiedTime: f.ModifiedTime,
			Checksum:     f.Md5Checksum,
		},
		IsFolder: f.MimeType == MimeTypeFolder,
	}
}

// readLimited reads a response body, failing if it exceeds limit bytes.
func readLimited(resp *http.Response, limit int64) ([]byte, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", domain.ErrInvalidInput, limit)
	}
	return data, nil
}
