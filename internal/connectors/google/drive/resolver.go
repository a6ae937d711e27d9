package drive

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

var (
	folderPath = regexp.MustCompile(`/folders/([A-Za-z0-9_-]+)`)
	docPath    = regexp.MustCompile(`/d/([A-Za-z0-9_-]+)`)
	bareID     = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ParseFolderID extracts a folder id from a Drive folder URL, a sharing
// link with an id parameter, or a bare id.
func ParseFolderID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("%w: empty folder id", domain.ErrInvalidInput)
	}

	if bareID.MatchString(s) {
		return s, nil
	}

	if m := folderPath.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if m := docPath.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if u, err := url.Parse(s); err == nil {
		if id := u.Query().Get("id"); bareID.MatchString(id) {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: cannot find a folder id in %q", domain.ErrInvalidInput, input)
}

// ResolveWebURL returns the browser link for a file. Workspace documents
// open in their editor; everything else opens in the Drive viewer.
func ResolveWebURL(fileID, mimeType string) string {
	if fileID == "" {
		return ""
	}
	switch mimeType {
	case MimeTypeGoogleDoc:
		return "https://docs.google.com/document/d/" + fileID + "/edit"
	case MimeTypeGoogleSheet:
		return "https://docs.google.com/spreadsheets/d/" + fileID + "/edit"
	case MimeTypeGoogleSlides:
		return "https://docs.google.com/presentation/d/" + fileID + "/edit"
	case MimeTypeFolder:
		return "https://drive.google.com/drive/folders/" + fileID
	}
	return "https://drive.google.com/file/d/" + fileID + "/view"
}
