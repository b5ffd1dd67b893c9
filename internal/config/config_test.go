package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultDailyQuota, cfg.Generation.DailyQuota)
	assert.Equal(t, defaultBatchCount, cfg.Generation.BatchCount)
	assert.Equal(t, defaultBatchSize, cfg.Generation.BatchSize)
	assert.Equal(t, defaultMaxAttempts, cfg.Generation.MaxAttempts)
	assert.Equal(t, defaultTargetCount, cfg.Generation.TargetCount)
	assert.True(t, cfg.Generation.QuotaFailOpen)
	assert.False(t, cfg.Generation.UseBoosters)
	assert.Equal(t, defaultWikipediaEndpoint, cfg.Boosters.WikipediaEndpoint)
	assert.True(t, cfg.IsDev())
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: production
generation:
  daily_quota: 5
  quota_fail_open: false
  use_boosters: true
ai:
  active_provider: main
  providers:
    - id: main
      type: gemini
      api_key: test-key
      enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, 5, cfg.Generation.DailyQuota)
	assert.False(t, cfg.Generation.QuotaFailOpen)
	assert.True(t, cfg.Generation.UseBoosters)
	// Unset tunables still default.
	assert.Equal(t, defaultBatchCount, cfg.Generation.BatchCount)

	require.Len(t, cfg.AI.Providers, 1)
	assert.Equal(t, "main", cfg.AI.ActiveProvider)
	assert.Equal(t, "gemini", cfg.AI.Providers[0].Type)
}

func TestLoadProviderKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	path := writeConfig(t, `
ai:
  providers:
    - id: main
      type: gemini
      enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.AI.Providers, 1)
	assert.Equal(t, "env-key", cfg.AI.Providers[0].APIKey)
}
