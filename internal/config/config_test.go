package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, MaxUploadSize, cfg.App.MaxUploadSize)
	assert.Equal(t, int64(10_485_760), cfg.App.MaxUploadSize)
	assert.Equal(t, 10, cfg.App.DefaultLimit)
	assert.Equal(t, 100, cfg.App.MaxLimit)
	assert.Equal(t, "order-images", cfg.S3.BucketName)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("S3_BUCKET_NAME", "fixer-images")
	t.Setenv("APP_DEFAULT_LIMIT", "24")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "fixer-images", cfg.S3.BucketName)
	assert.Equal(t, 24, cfg.App.DefaultLimit)
}

func TestLoadRejectsBadLimits(t *testing.T) {
	t.Setenv("APP_DEFAULT_LIMIT", "500")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://orders.example.com/")
	t.Setenv("GALLERY_LOCALE", "he")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "https://orders.example.com", cfg.BaseURL)
	assert.Equal(t, 12, cfg.PageLimit)
	assert.Equal(t, "he", cfg.Locale)

	t.Setenv("GALLERY_PAGE_LIMIT", "0")
	_, err = LoadClient()
	assert.Error(t, err)
}
