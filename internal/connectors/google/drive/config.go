package drive

import (
	"fmt"

	"github.com/custodia-labs/ragdrive/internal/connectors/google"
	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// Listing bounds. Drive rejects page sizes above 1000.
const (
	DefaultPageSize = 1000
	MaxPageSize     = 1000
)

// Config holds Google Drive provider configuration.
type Config struct {
	// RootFolderID is the folder a sync starts from.
	RootFolderID string
	// PageSize is the page size for list requests.
	PageSize int64
	// RequestsPerSecond and Burst feed the rate limiter.
	RequestsPerSecond float64
	Burst             int
	// MaxRetries bounds retries of transient failures.
	MaxRetries int
	// MaxContentSize caps a downloaded or exported file.
	MaxContentSize int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PageSize:          DefaultPageSize,
		RequestsPerSecond: google.DefaultRequestsPerSecond,
		Burst:             google.DefaultBurst,
		MaxRetries:        google.DefaultMaxRetries,
		MaxContentSize:    MaxContentSize,
	}
}

// ConfigFromSettings builds a Config from drive settings. A folder URL in
// RootFolderID is reduced to its id; unset numeric values keep defaults.
func ConfigFromSettings(s domain.DriveSettings) (*Config, error) {
	cfg := DefaultConfig()

	if s.RootFolderID != "" {
		id, err := ParseFolderID(s.RootFolderID)
		if err != nil {
			return nil, err
		}
		cfg.RootFolderID = id
	}

	if s.PageSize > 0 {
		if s.PageSize > MaxPageSize {
			return nil, fmt.Errorf("%w: drive.page_size must be at most %d", domain.ErrInvalidInput, MaxPageSize)
		}
		cfg.PageSize = s.PageSize
	}
	if s.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = s.RequestsPerSecond
	}
	if s.Burst > 0 {
		cfg.Burst = s.Burst
	}
	if s.MaxRetries >= 0 {
		cfg.MaxRetries = s.MaxRetries
	}

	return cfg, nil
}
