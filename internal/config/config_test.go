package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, SourceDefault, cfg.Corpus.Source)
	assert.Equal(t, 500, cfg.Corpus.ChunkSize)
	assert.Equal(t, 50, cfg.Corpus.ChunkOverlap)
	assert.Equal(t, 5000, cfg.Embed.MaxFeatures)
	assert.True(t, cfg.Embed.UseLSA)
	assert.Equal(t, 300, cfg.Embed.LSAComponents)
	assert.Equal(t, 5, cfg.Search.TopK)
	assert.Equal(t, 2, cfg.Search.ContextRadius)
	assert.Equal(t, 15*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, "127.0.0.1:5002", cfg.Server.Addr())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".hybridrank.yaml")
	yaml := `
corpus:
  source: custom
  path: data/verses.txt
  chunk_size: 800
search:
  top_k: 10
server:
  port: 8080
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Corpus.Source)
	assert.Equal(t, "data/verses.txt", cfg.Corpus.Path)
	assert.Equal(t, 800, cfg.Corpus.ChunkSize)
	// Untouched fields keep defaults.
	assert.Equal(t, 50, cfg.Corpus.ChunkOverlap)
	assert.Equal(t, 10, cfg.Search.TopK)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
}

func TestLoad_OracleTimeoutString(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".hybridrank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("oracle:\n  timeout: 30s\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Oracle.Timeout)
	// Unset oracle fields keep defaults.
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.Oracle.Model)
}

func TestLoad_BadOracleTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".hybridrank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("oracle:\n  timeout: soon\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle.timeout")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".hybridrank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  top_k: 10\n"), 0o644))

	t.Setenv("HYBRIDRANK_TOP_K", "3")
	t.Setenv("HYBRIDRANK_CORPUS_SOURCE", "custom")
	t.Setenv("HYBRIDRANK_ORACLE_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Search.TopK)
	assert.Equal(t, "custom", cfg.Corpus.Source)
	assert.Equal(t, 5*time.Second, cfg.Oracle.Timeout)
}

func TestLoad_AnthropicKeyFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.Oracle.APIKey)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Corpus.ChunkSize)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".hybridrank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "overlap not below chunk size",
			mutate:  func(c *Config) { c.Corpus.ChunkOverlap = 500 },
			wantErr: "chunk_overlap",
		},
		{
			name:    "zero chunk size",
			mutate:  func(c *Config) { c.Corpus.ChunkSize = 0 },
			wantErr: "chunk_size",
		},
		{
			name:    "zero top k",
			mutate:  func(c *Config) { c.Search.TopK = 0 },
			wantErr: "top_k",
		},
		{
			name:    "negative context radius",
			mutate:  func(c *Config) { c.Search.ContextRadius = -1 },
			wantErr: "context_radius",
		},
		{
			name:    "lsa enabled without components",
			mutate:  func(c *Config) { c.Embed.LSAComponents = 0 },
			wantErr: "lsa_components",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Server.LogLevel = "verbose" },
			wantErr: "log_level",
		},
		{
			name:    "zero oracle timeout",
			mutate:  func(c *Config) { c.Oracle.Timeout = 0 },
			wantErr: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	cfg := NewConfig()
	cfg.Corpus.Source = "custom"
	cfg.Search.TopK = 7
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", loaded.Corpus.Source)
	assert.Equal(t, 7, loaded.Search.TopK)
}
