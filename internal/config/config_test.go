package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: 9090
oracle:
  enabled: true
  timeout: 5s
scraper:
  cache_ttl: 1h
catalog:
  inception: {id: 27205, type: movie}
rules:
  generic_support: 0.7
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Oracle.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, time.Hour, cfg.Scraper.CacheTTL)
	assert.Equal(t, "https://www.themoviedb.org", cfg.Scraper.BaseURL)
	assert.Equal(t, TitleConfig{ID: 27205, Type: "movie"}, cfg.Catalog["inception"])
	assert.Equal(t, TitleConfig{ID: 1396, Type: "tv"}, cfg.Catalog["breaking bad"])
	assert.Equal(t, 0.7, cfg.Rules.GenericSupport)
	assert.Equal(t, 0.3, cfg.Rules.GenericContradict)
	assert.NotEmpty(t, cfg.Rules.AwardKeywords)
	assert.True(t, cfg.UsesLLM())
}

func TestParse_EnvInterpolation(t *testing.T) {
	t.Setenv("CINECHECK_TEST_KEY", "sk-test")

	cfg, err := Parse([]byte(`
llm:
  provider: openai
  api_key: ${CINECHECK_TEST_KEY}
interpreter:
  use_llm: true
`))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"port", "server: {port: 70000}", "invalid port"},
		{"driver", "database: {driver: postgres}", "unsupported database driver"},
		{"provider", "llm: {provider: anthropic}", "unsupported LLM provider"},
		{"openai key", "llm: {provider: openai}\noracle: {enabled: true}", "API key"},
		{"catalog type", "catalog: {dune: {id: 438631, type: book}}", "type must be movie or tv"},
		{"thresholds", "rules: {generic_support: 0.2, generic_contradict: 0.3}", "generic_contradict"},
		{"yaml", "server: [", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config init")

	path := filepath.Join(t.TempDir(), "cinecheck.yaml")
	require.NoError(t, GenerateSample(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "ollama", cfg.LLM.Provider)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "respect_robots: true")
}
