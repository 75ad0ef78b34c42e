package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.True(t, cfg.Importer.UseAI)
	assert.Equal(t, "gemini", cfg.Importer.Provider)
	assert.Equal(t, 10, cfg.Importer.MaxSkippedRows)
	assert.Equal(t, 5, cfg.Importer.PreviewSize)
	assert.Equal(t, 20*time.Second, cfg.Importer.ClassifierTimeout)
	assert.Equal(t, "lead_import.requested", cfg.Infrastructure.RabbitMQ.JobQueue)
	assert.Equal(t, []string{"https://localhost:9200"}, cfg.Infrastructure.OpenSearch.Addresses)
	assert.Empty(t, cfg.Clients.Crm.Url)
	assert.False(t, cfg.Jobs.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("IMPORTER_USE_AI", "false")
	t.Setenv("IMPORTER_AI_PROVIDER", "openai")
	t.Setenv("IMPORTER_CACHE_TTL", "90m")
	t.Setenv("OPENSEARCH_ADDRESSES", "http://a:9200,http://b:9200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Importer.UseAI)
	assert.Equal(t, "openai", cfg.Importer.Provider)
	assert.Equal(t, 90*time.Minute, cfg.Importer.CacheTTL)
	assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.Infrastructure.OpenSearch.Addresses)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: 9090
importer:
  provider: none
  max_skipped_rows: 25
jobs:
  enabled: true
`), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "none", cfg.Importer.Provider)
	assert.Equal(t, 25, cfg.Importer.MaxSkippedRows)
	assert.True(t, cfg.Jobs.Enabled)
	assert.Equal(t, 5, cfg.Importer.PreviewSize)
}
