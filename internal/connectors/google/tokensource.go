package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// ErrNoCredentials indicates neither a service account key nor an access
// token is configured.
var ErrNoCredentials = errors.New("no drive credentials configured")

// NewTokenSource builds a token source from drive settings. A service
// account key wins over a static access token. CredentialsFile holds either
// a path to the key file or the key JSON itself.
func NewTokenSource(ctx context.Context, cfg domain.DriveSettings) (oauth2.TokenSource, error) {
	if cfg.CredentialsFile != "" {
		raw, err := readCredentials(cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		creds, err := googleoauth.CredentialsFromJSON(ctx, raw, drive.DriveReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account key: %w", err)
		}
		return creds.TokenSource, nil
	}

	if cfg.AccessToken != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.AccessToken,
			TokenType:   "Bearer",
		}), nil
	}

	return nil, ErrNoCredentials
}

func readCredentials(value string) ([]byte, error) {
	if strings.HasPrefix(strings.TrimSpace(value), "{") {
		return []byte(value), nil
	}
	raw, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}
	return raw, nil
}
