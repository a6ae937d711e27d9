package drive

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/ragdrive/internal/connectors/google"
	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.RemoteFileProvider = (*Provider)(nil)

// Provider reads a Drive folder tree through the Drive v3 API.
type Provider struct {
	svc     *drive.Service
	config  *Config
	retrier *google.Retrier
}

// New creates a provider over an existing Drive service.
func New(svc *drive.Service, cfg *Config, opts ...google.RetryOption) *Provider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	limiter := google.NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst)
	return &Provider{
		svc:     svc,
		config:  cfg,
		retrier: google.NewRetrier(limiter, cfg.MaxRetries, opts...),
	}
}

// NewFromSettings authenticates with the configured credentials and
// creates a provider.
func NewFromSettings(ctx context.Context, s domain.DriveSettings, opts ...option.ClientOption) (*Provider, error) {
	cfg, err := ConfigFromSettings(s)
	if err != nil {
		return nil, err
	}
	ts, err := google.NewTokenSource(ctx, s)
	if err != nil {
		return nil, err
	}
	svc, err := google.NewDriveService(ctx, ts, opts...)
	if err != nil {
		return nil, err
	}
	return New(svc, cfg), nil
}

// RootFolderID returns the configured root folder.
func (p *Provider) RootFolderID() string {
	return p.config.RootFolderID
}

// ListQuery returns the query listing the non-trashed children of a folder.
func ListQuery(folderID string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(folderID)
	return fmt.Sprintf("'%s' in parents and trashed = false", escaped)
}

// List returns one page of a folder's children.
func (p *Provider) List(ctx context.Context, folderID, pageToken string) (*domain.ListPage, error) {
	query := ListQuery(folderID)
	call := p.svc.Files.List().
		Q(query).
		PageSize(p.config.PageSize).
		Fields(googleapi.Field(listFields)).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	var resp *drive.FileList
	err := p.retrier.Do(ctx, "list "+folderID, func(ctx context.Context) error {
		var err error
		resp, err = call.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	page := &domain.ListPage{
		Entries:       make([]domain.RemoteEntry, 0, len(resp.Files)),
		NextPageToken: resp.NextPageToken,
		Query:         query,
	}
	for _, f := range resp.Files {
		page.Entries = append(page.Entries, toEntry(f))
	}
	return page, nil
}

// Download returns the binary content of a file.
func (p *Provider) Download(ctx context.Context, fileID string) ([]byte, error) {
	var data []byte
	err := p.retrier.Do(ctx, "download "+fileID, func(ctx context.Context) error {
		resp, err := p.svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
		if err != nil {
			return err
		}
		data, err = p.read(resp)
		return err
	})
	return data, err
}

// Export converts a Workspace document to mimeType.
func (p *Provider) Export(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	var data []byte
	err := p.retrier.Do(ctx, "export "+fileID, func(ctx context.Context) error {
		resp, err := p.svc.Files.Export(fileID, mimeType).Context(ctx).Download()
		if err != nil {
			return err
		}
		data, err = p.read(resp)
		return err
	})
	return data, err
}

// ExportTarget returns the export MIME type for a Workspace document.
func (p *Provider) ExportTarget(mimeType string) string {
	return ExportTarget(mimeType)
}

func (p *Provider) read(resp *http.Response) ([]byte, error) {
	limit := p.config.MaxContentSize
	if limit <= 0 {
		limit = MaxContentSize
	}
	return readLimited(resp, limit)
}
