package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30, cfg.MaxAnalyzedRepos)
	assert.Equal(t, 1.0, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Empty(t, cfg.GithubToken)
	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("MAX_ANALYZED_REPOS", "10")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GEMINI_API_KEY", "gm_test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.MaxAnalyzedRepos)
	assert.Equal(t, "ghp_test", cfg.GithubToken)
	assert.Equal(t, "gm_test", cfg.GeminiAPIKey)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Run("non-positive ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "0s")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CACHE_TTL")
	})

	t.Run("non-positive repo limit", func(t *testing.T) {
		t.Setenv("MAX_ANALYZED_REPOS", "0")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MAX_ANALYZED_REPOS")
	})
}
