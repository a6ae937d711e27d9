package domain

import (
	"fmt"
	"time"
)

// StorageBackend selects the key-value store implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite persists to a SQLite database under the data directory.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps everything in process memory.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// DriveSettings configures access to the remote folder tree.
type DriveSettings struct {
	// RootFolderID is the folder to crawl. Accepts a bare id or a folder URL.
	RootFolderID string `toml:"root_folder_id"`

	// CredentialsFile is a service account JSON key file.
	CredentialsFile string `toml:"credentials_file"`

	// AccessToken is a pre-obtained OAuth access token.
	// Used when no credentials file is set.
	AccessToken string `toml:"access_token"`

	// PageSize is the listing page size.
	PageSize int64 `toml:"page_size"`

	// RequestsPerSecond and Burst bound the request rate.
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`

	// MaxRetries bounds retries of rate-limited or failed requests.
	MaxRetries int `toml:"max_retries"`
}

// IsConfigured returns true if a root folder and some credential are set.
func (d DriveSettings) IsConfigured() bool {
	return d.RootFolderID != "" && (d.CredentialsFile != "" || d.AccessToken != "")
}

// ChunkingSettings configures the overlapping-window chunker.
type ChunkingSettings struct {
	WindowSize int `toml:"window_size"`
	Overlap    int `toml:"overlap"`
	MinLength  int `toml:"min_length"`
}

// RetrievalSettings configures lexical scoring.
type RetrievalSettings struct {
	TopK          int     `toml:"top_k"`
	ContentWeight float64 `toml:"content_weight"`
	NameWeight    float64 `toml:"name_weight"`
}

// IngestSettings configures the local ingestion pipeline.
type IngestSettings struct {
	BatchSize        int `toml:"batch_size"`
	OutcomeLogLimit  int `toml:"outcome_log_limit"`
	MinContentLength int `toml:"min_content_length"`
}

// StorageSettings configures persistence.
type StorageSettings struct {
	Backend StorageBackend `toml:"backend"`

	// DataDir holds the database. Defaults to ~/.ragdrive/data.
	DataDir string `toml:"data_dir"`

	// MaxValueBytes caps a single stored value. Zero means unlimited.
	MaxValueBytes int `toml:"max_value_bytes"`

	// CacheSize is the number of chunk sets kept in memory.
	CacheSize int `toml:"cache_size"`

	// CacheTTL expires cached chunk sets.
	CacheTTL Duration `toml:"cache_ttl"`
}

// LLMSettings configures the answer synthesiser.
type LLMSettings struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// IsConfigured returns true if an API key is set.
func (l LLMSettings) IsConfigured() bool {
	return l.APIKey != ""
}

// Settings holds all application settings.
type Settings struct {
	Drive     DriveSettings     `toml:"drive"`
	Chunking  ChunkingSettings  `toml:"chunking"`
	Retrieval RetrievalSettings `toml:"retrieval"`
	Ingest    IngestSettings    `toml:"ingest"`
	Storage   StorageSettings   `toml:"storage"`
	LLM       LLMSettings       `toml:"llm"`
}

// DefaultSettings returns settings with sensible defaults.
// Credentials and the LLM key are left empty.
func DefaultSettings() Settings {
	return Settings{
		Drive: DriveSettings{
			PageSize:          1000,
			RequestsPerSecond: 8,
			Burst:             10,
			MaxRetries:        3,
		},
		Chunking: ChunkingSettings{
			WindowSize: 1000,
			Overlap:    200,
			MinLength:  50,
		},
		Retrieval: RetrievalSettings{
			TopK:          6,
			ContentWeight: 10,
			NameWeight:    20,
		},
		Ingest: IngestSettings{
			BatchSize:        50,
			OutcomeLogLimit:  500,
			MinContentLength: 5,
		},
		Storage: StorageSettings{
			Backend:   StorageSQLite,
			CacheSize: 32,
			CacheTTL:  Duration(10 * time.Minute),
		},
		LLM: LLMSettings{
			Model: "gemini-2.5-flash",
		},
	}
}

// Validate reports the first unusable setting.
func (s Settings) Validate() error {
	if problems := s.Problems(); len(problems) > 0 {
		return problems[0]
	}
	return nil
}

// Problems lists every unusable setting, one error per key.
func (s Settings) Problems() []error {
	var errs []error
	check := func(bad bool, msg string) {
		if bad {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidInput, msg))
		}
	}
	check(s.Chunking.WindowSize <= 0, "chunking.window_size must be positive")
	check(s.Chunking.Overlap < 0, "chunking.overlap must not be negative")
	check(s.Retrieval.TopK <= 0, "retrieval.top_k must be positive")
	check(s.Ingest.BatchSize <= 0, "ingest.batch_size must be positive")
	check(!s.Storage.Backend.IsValid(), fmt.Sprintf("unknown storage backend %q", s.Storage.Backend))
	return errs
}

// Duration is a time.Duration that reads and writes as text, e.g. "10m".
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	*d = Duration(v)
	return nil
}
