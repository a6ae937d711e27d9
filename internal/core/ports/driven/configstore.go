package driven

import "github.com/custodia-labs/ragdrive/internal/core/domain"

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and environment overrides.
type ConfigStore interface {
	// Settings returns the effective settings: defaults, then file values,
	// then environment overrides.
	Settings() domain.Settings

	// Get returns a configuration value by dotted key, e.g. "retrieval.top_k".
	Get(key string) (any, bool)

	// Set stores a configuration value by dotted key.
	// The value is parsed to the type of the setting and persisted immediately.
	Set(key, value string) error

	// Load reads configuration from storage.
	Load() error

	// Save persists the current file configuration.
	Save() error

	// Path returns the configuration file path.
	Path() string
}
