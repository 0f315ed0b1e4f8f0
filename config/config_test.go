package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/StockSage/consts"
)

func TestDefaultConfigWithRoot(t *testing.T) {
	cfg := DefaultConfigWithRoot("/srv/stocksage")

	assert.Equal(t, "QQQ", cfg.Ticker)
	assert.Equal(t, "compact", cfg.OutputSize)
	assert.Equal(t, consts.SourceAlphaVantage, cfg.DataSource)
	assert.Equal(t, consts.ProviderAnthropic, cfg.LLMProvider)
	assert.Equal(t, filepath.Join("/srv/stocksage", "data", "cache"), cfg.DataCacheDir)
	assert.False(t, cfg.SortAscending)
	assert.False(t, cfg.ShowTable)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigReadsEnvironment(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API", "av-key")
	t.Setenv("ANTHROPIC_API_KEY", "ant-key")
	t.Setenv("TICKER", "SPY")
	t.Setenv("OUTPUT_SIZE", "full")
	t.Setenv("LLM_PROVIDER", "deepseek")
	t.Setenv("SHOW_TABLE", "true")
	t.Setenv("SORT_ASCENDING", "1")
	t.Setenv("CACHE_ENABLED", "not-a-bool")

	cfg := DefaultConfig()

	assert.Equal(t, "av-key", cfg.AlphaVantageAPIKey)
	assert.Equal(t, "ant-key", cfg.AnthropicAPIKey)
	assert.Equal(t, "SPY", cfg.Ticker)
	assert.Equal(t, "full", cfg.OutputSize)
	assert.Equal(t, "deepseek", cfg.LLMProvider)
	assert.True(t, cfg.ShowTable)
	assert.True(t, cfg.SortAscending)
	assert.False(t, cfg.CacheEnabled, "unparseable booleans keep the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty ticker", func(c *Config) { c.Ticker = "  " }, "ticker must not be empty"},
		{"bad output size", func(c *Config) { c.OutputSize = "huge" }, "output size"},
		{"unknown source", func(c *Config) { c.DataSource = "bloomberg" }, "unknown data source"},
		{"unknown provider", func(c *Config) { c.LLMProvider = "ollama" }, "unknown llm provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfigWithRoot(t.TempDir())
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	cfg := DefaultConfigWithRoot(filepath.Join(t.TempDir(), "project"))
	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.ResultsDir)
	assert.DirExists(t, cfg.DataCacheDir)
}
