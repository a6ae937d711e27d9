package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdrive/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// setupConfigStore installs a config store in a temporary directory.
func setupConfigStore(t *testing.T) *file.ConfigStore {
	t.Helper()
	for _, env := range []string{"GOOGLE_DRIVE_FOLDER_ID", "GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_ACCESS_TOKEN", "GEMINI_API_KEY", "API_KEY"} {
		t.Setenv(env, "")
	}
	setupTestServices(t)
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	configStore = store
	return store
}

func TestConfigShow(t *testing.T) {
	store := setupConfigStore(t)
	require.NoError(t, store.Set("llm.api_key", "AIzaSyExampleKey1234"))

	out, _, err := execute(t, "", "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, store.Path())
	assert.Contains(t, out, "[retrieval]")
	assert.Contains(t, out, "retrieval.top_k = 6")
	assert.Contains(t, out, "llm.api_key = AIza...1234")
	assert.NotContains(t, out, "AIzaSyExampleKey1234")
	assert.Contains(t, out, "drive.access_token = (not set)")
}

func TestConfigShow_IsDefault(t *testing.T) {
	setupConfigStore(t)

	out, _, err := execute(t, "", "config")

	require.NoError(t, err)
	assert.Contains(t, out, "chunking.window_size = 1000")
}

func TestConfigSet(t *testing.T) {
	store := setupConfigStore(t)

	out, _, err := execute(t, "", "config", "set", "retrieval.top_k", "8")

	require.NoError(t, err)
	assert.Contains(t, out, "retrieval.top_k updated.")
	assert.Equal(t, 8, store.Settings().Retrieval.TopK)
}

func TestConfigSet_Invalid(t *testing.T) {
	store := setupConfigStore(t)

	_, _, err := execute(t, "", "config", "set", "retrieval.top_k", "zero")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = execute(t, "", "config", "set", "no.such_key", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, 6, store.Settings().Retrieval.TopK)
}

func TestConfigSet_SecretFromStdin(t *testing.T) {
	store := setupConfigStore(t)

	_, _, err := execute(t, "secret-token-value\n", "config", "set", "drive.access_token")

	require.NoError(t, err)
	assert.Equal(t, "secret-token-value", store.Settings().Drive.AccessToken)
}

func TestConfigSet_MissingValue(t *testing.T) {
	setupConfigStore(t)

	_, _, err := execute(t, "", "config", "set", "retrieval.top_k")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing value")
}

func TestConfigPath(t *testing.T) {
	store := setupConfigStore(t)

	out, _, err := execute(t, "", "config", "path")

	require.NoError(t, err)
	assert.Contains(t, out, store.Path())
	assert.Equal(t, file.ConfigFileName, filepath.Base(store.Path()))
}

func TestConfigKeys(t *testing.T) {
	setupConfigStore(t)

	out, _, err := execute(t, "", "config", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "drive.root_folder_id")
	assert.Contains(t, out, "storage.cache_ttl")
}

func TestDisplayValue(t *testing.T) {
	assert.Equal(t, "(not set)", displayValue("llm.api_key", ""))
	assert.Equal(t, "****", displayValue("llm.api_key", "short"))
	assert.Equal(t, "/keys/sa.json", displayValue("drive.credentials_file", "/keys/sa.json"))
	assert.Equal(t, `{"ty...ce"}`, displayValue("drive.credentials_file", `{"type":"service"}`))
	assert.Equal(t, "8", displayValue("retrieval.top_k", int64(8)))
}
