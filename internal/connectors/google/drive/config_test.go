package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdrive/internal/connectors/google"
	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, int64(1000), cfg.PageSize)
	assert.InDelta(t, 8.0, cfg.RequestsPerSecond, 0.001)
	assert.Equal(t, 10, cfg.Burst)
	assert.Equal(t, google.DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, int64(MaxContentSize), cfg.MaxContentSize)
}

func TestConfigFromSettings(t *testing.T) {
	cfg, err := ConfigFromSettings(domain.DriveSettings{
		RootFolderID:      "https://drive.google.com/drive/folders/1Root",
		PageSize:          200,
		RequestsPerSecond: 2,
		Burst:             4,
		MaxRetries:        0,
	})
	require.NoError(t, err)

	assert.Equal(t, "1Root", cfg.RootFolderID)
	assert.Equal(t, int64(200), cfg.PageSize)
	assert.InDelta(t, 2.0, cfg.RequestsPerSecond, 0.001)
	assert.Equal(t, 4, cfg.Burst)
	assert.Equal(t, 0, cfg.MaxRetries)
}

func TestConfigFromSettings_Defaults(t *testing.T) {
	cfg, err := ConfigFromSettings(domain.DriveSettings{MaxRetries: -1})
	require.NoError(t, err)

	assert.Empty(t, cfg.RootFolderID)
	assert.Equal(t, int64(DefaultPageSize), cfg.PageSize)
	assert.Equal(t, google.DefaultMaxRetries, cfg.MaxRetries)
}

func TestConfigFromSettings_Invalid(t *testing.T) {
	_, err := ConfigFromSettings(domain.DriveSettings{PageSize: 5000})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ConfigFromSettings(domain.DriveSettings{RootFolderID: "bad id!"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
