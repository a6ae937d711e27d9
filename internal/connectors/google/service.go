package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// NewDriveService creates a Drive API service with the given token source.
// Extra client options are appended, e.g. option.WithEndpoint in tests.
func NewDriveService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*drive.Service, error) {
	clientOpts := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	srv, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return srv, nil
}
