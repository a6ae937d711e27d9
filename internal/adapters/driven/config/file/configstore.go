package file

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Environment variables that override file values.
const (
	EnvDriveFolderID     = "GOOGLE_DRIVE_FOLDER_ID"
	EnvServiceAccountKey = "GOOGLE_SERVICE_ACCOUNT_JSON"
	EnvAccessToken       = "GOOGLE_ACCESS_TOKEN"
	EnvGeminiAPIKey      = "GEMINI_API_KEY"
	EnvAPIKey            = "API_KEY"
)

// ConfigFileName is the file created inside the config directory.
const ConfigFileName = "config.toml"

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// The file holds domain.Settings; values missing from it keep their defaults.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	settings domain.Settings
	getenv   func(string) string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.ragdrive/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".ragdrive")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, ConfigFileName),
		settings: domain.DefaultSettings(),
		getenv:   os.Getenv,
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Settings returns the file settings with environment overrides applied.
func (s *ConfigStore) Settings() domain.Settings {
	s.mu.RLock()
	settings := s.settings
	s.mu.RUnlock()

	if v := s.getenv(EnvDriveFolderID); v != "" {
		settings.Drive.RootFolderID = v
	}
	if v := s.getenv(EnvServiceAccountKey); v != "" {
		settings.Drive.CredentialsFile = v
	}
	if v := s.getenv(EnvAccessToken); v != "" {
		settings.Drive.AccessToken = v
	}
	if v := s.getenv(EnvGeminiAPIKey); v != "" {
		settings.LLM.APIKey = v
	} else if v := s.getenv(EnvAPIKey); v != "" {
		settings.LLM.APIKey = v
	}

	return settings
}

// Get returns an effective configuration value by dotted key.
func (s *ConfigStore) Get(key string) (any, bool) {
	values, err := s.Values()
	if err != nil {
		return nil, false
	}
	val, ok := values[key]
	return val, ok
}

// Values returns every effective setting keyed by dotted name.
func (s *ConfigStore) Values() (map[string]any, error) {
	data, err := toml.Marshal(s.Settings())
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	var nested map[string]any
	if err := toml.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return flattenMap(nested, ""), nil
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	var keys []string
	walkFields(reflect.TypeOf(domain.Settings{}), "", func(key string, _ []int) {
		keys = append(keys, key)
	})
	sort.Strings(keys)
	return keys
}

// Set parses value to the type of the setting named by key, validates the
// result and persists it immediately.
func (s *ConfigStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, ok := fieldIndex(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	updated := s.settings
	field := reflect.ValueOf(&updated).Elem().FieldByIndex(index)
	if err := setField(field, value); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	// A file loaded with bad values can be repaired one key at a time, so
	// only problems this change introduces are rejected.
	known := make(map[string]bool)
	for _, p := range s.settings.Problems() {
		known[p.Error()] = true
	}
	for _, p := range updated.Problems() {
		if !known[p.Error()] {
			return p
		}
	}

	s.settings = updated
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	// Write with restricted permissions, the file may hold credentials
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load reads configuration from the TOML file. A missing file leaves the
// defaults in place. Values are not validated here so that a bad file can
// still be shown and repaired; callers validate Settings before use.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.settings = settings
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	s.settings = settings
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

var textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// walkFields calls fn with the dotted toml key and field index of every
// leaf field of t.
func walkFields(t reflect.Type, prefix string, fn func(key string, index []int)) {
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if f.Type.Kind() == reflect.Struct && !reflect.PointerTo(f.Type).Implements(textUnmarshaler) {
			walkFields(f.Type, key, func(k string, idx []int) {
				fn(k, append([]int{i}, idx...))
			})
			continue
		}
		fn(key, []int{i})
	}
}

func fieldIndex(key string) ([]int, bool) {
	var found []int
	walkFields(reflect.TypeOf(domain.Settings{}), "", func(k string, index []int) {
		if k == key {
			found = index
		}
	})
	return found, found != nil
}

// setField parses value into field according to its type.
func setField(field reflect.Value, value string) error {
	if u, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText([]byte(value))
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("not an integer: %q", value)
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", value)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("not a boolean: %q", value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported setting type %s", field.Type())
	}
	return nil
}
