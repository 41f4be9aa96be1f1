// Package config loads hybridrank configuration.
//
// Configuration is applied in order of increasing precedence:
//  1. Hardcoded defaults
//  2. Config file (.hybridrank.yaml in the working directory, or --config path)
//  3. Environment variables (HYBRIDRANK_*), with a .env file loaded first
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CorpusSource selects where the corpus comes from.
const (
	// SourceDefault serves the built-in sample corpus.
	SourceDefault = "default"
	// SourceCustom chunks a structured text file from Corpus.Path.
	SourceCustom = "custom"
)

// DefaultConfigFile is the config file probed in the working directory when
// no explicit path is given.
const DefaultConfigFile = ".hybridrank.yaml"

// Config represents the complete hybridrank configuration.
type Config struct {
	Corpus CorpusConfig `yaml:"corpus" json:"corpus"`
	Embed  EmbedConfig  `yaml:"embed" json:"embed"`
	Search SearchConfig `yaml:"search" json:"search"`
	Oracle OracleConfig `yaml:"oracle" json:"oracle"`
	Server ServerConfig `yaml:"server" json:"server"`
}

// CorpusConfig configures corpus loading and chunking.
type CorpusConfig struct {
	// Source is "default" or "custom". Unrecognized values fall back to default.
	Source string `yaml:"source" json:"source"`

	// Path is the structured text file used when Source is "custom".
	Path string `yaml:"path" json:"path"`

	// ChunkSize is the maximum characters per chunk.
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`

	// ChunkOverlap is the tail overlap carried into the next chunk.
	// Must be smaller than ChunkSize.
	ChunkOverlap int `yaml:"chunk_overlap" json:"chunk_overlap"`
}

// EmbedConfig configures the TF-IDF embedding pipeline.
type EmbedConfig struct {
	// MaxFeatures caps the vocabulary size of the vectorizer.
	MaxFeatures int `yaml:"max_features" json:"max_features"`

	// UseLSA enables truncated-SVD dimensionality reduction.
	UseLSA bool `yaml:"use_lsa" json:"use_lsa"`

	// LSAComponents is the target dimension of the reduced space.
	// Clamped at fit time to the rank bound of the corpus matrix.
	LSAComponents int `yaml:"lsa_components" json:"lsa_components"`

	// CacheSize is the number of query embeddings kept in the LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// SearchConfig configures the reranking pipeline.
type SearchConfig struct {
	// TopK is the default number of results returned per query.
	TopK int `yaml:"top_k" json:"top_k"`

	// ContextRadius is the chunk-id distance covered by context expansion.
	ContextRadius int `yaml:"context_radius" json:"context_radius"`

	// OracleConcurrency bounds parallel oracle calls per query.
	OracleConcurrency int `yaml:"oracle_concurrency" json:"oracle_concurrency"`
}

// OracleConfig configures the external relevance-scoring oracle.
type OracleConfig struct {
	// Endpoint is the messages API endpoint.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Model is the model identifier sent with each request.
	Model string `yaml:"model" json:"model"`

	// APIKey authenticates requests. Usually set via HYBRIDRANK_ORACLE_API_KEY
	// or ANTHROPIC_API_KEY rather than the config file.
	APIKey string `yaml:"api_key" json:"-"`

	// Timeout is the per-call HTTP timeout. Timeout counts as oracle failure.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// ScoreCacheSize is the number of (query, document) scores kept in the LRU cache.
	ScoreCacheSize int `yaml:"score_cache_size" json:"score_cache_size"`
}

// oracleConfigYAML carries the timeout as a Go duration string ("15s"),
// which yaml.v3 cannot decode into a time.Duration directly.
type oracleConfigYAML struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key,omitempty"`
	Timeout        string `yaml:"timeout"`
	ScoreCacheSize int    `yaml:"score_cache_size"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *OracleConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw oracleConfigYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	o.Endpoint = raw.Endpoint
	o.Model = raw.Model
	o.APIKey = raw.APIKey
	o.ScoreCacheSize = raw.ScoreCacheSize

	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("oracle.timeout: %w", err)
		}
		o.Timeout = d
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (o OracleConfig) MarshalYAML() (any, error) {
	return oracleConfigYAML{
		Endpoint:       o.Endpoint,
		Model:          o.Model,
		APIKey:         o.APIKey,
		Timeout:        o.Timeout.String(),
		ScoreCacheSize: o.ScoreCacheSize,
	}, nil
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	LogLevel string `yaml:"log_level" json:"log_level"`
	LogFile  string `yaml:"log_file" json:"log_file"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Source:       SourceDefault,
			Path:         filepath.Join("data", "corpus.txt"),
			ChunkSize:    500,
			ChunkOverlap: 50,
		},
		Embed: EmbedConfig{
			MaxFeatures:   5000,
			UseLSA:        true,
			LSAComponents: 300,
			CacheSize:     1000,
		},
		Search: SearchConfig{
			TopK:              5,
			ContextRadius:     2,
			OracleConcurrency: 4,
		},
		Oracle: OracleConfig{
			Endpoint:       "https://api.anthropic.com/v1/messages",
			Model:          "claude-3-5-sonnet-20241022",
			Timeout:        15 * time.Second,
			ScoreCacheSize: 512,
		},
		Server: ServerConfig{
			Host:     "127.0.0.1",
			Port:     5002,
			LogLevel: "info",
		},
	}
}

// Load loads configuration from the given file path (empty means
// .hybridrank.yaml in the current directory, missing file is fine),
// applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	// Populate the environment from a .env file if present, matching the
	// original deployment convention. Missing file is not an error.
	_ = godotenv.Load()

	cfg := NewConfig()

	if path == "" {
		path = DefaultConfigFile
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Corpus.Source != "" {
		c.Corpus.Source = other.Corpus.Source
	}
	if other.Corpus.Path != "" {
		c.Corpus.Path = other.Corpus.Path
	}
	if other.Corpus.ChunkSize != 0 {
		c.Corpus.ChunkSize = other.Corpus.ChunkSize
	}
	if other.Corpus.ChunkOverlap != 0 {
		c.Corpus.ChunkOverlap = other.Corpus.ChunkOverlap
	}

	if other.Embed.MaxFeatures != 0 {
		c.Embed.MaxFeatures = other.Embed.MaxFeatures
	}
	// UseLSA false in a file is indistinguishable from unset; treat an
	// explicit lsa_components of 0 as "LSA disabled".
	if other.Embed.LSAComponents != 0 {
		c.Embed.LSAComponents = other.Embed.LSAComponents
		c.Embed.UseLSA = other.Embed.UseLSA
	}
	if other.Embed.CacheSize != 0 {
		c.Embed.CacheSize = other.Embed.CacheSize
	}

	if other.Search.TopK != 0 {
		c.Search.TopK = other.Search.TopK
	}
	if other.Search.ContextRadius != 0 {
		c.Search.ContextRadius = other.Search.ContextRadius
	}
	if other.Search.OracleConcurrency != 0 {
		c.Search.OracleConcurrency = other.Search.OracleConcurrency
	}

	if other.Oracle.Endpoint != "" {
		c.Oracle.Endpoint = other.Oracle.Endpoint
	}
	if other.Oracle.Model != "" {
		c.Oracle.Model = other.Oracle.Model
	}
	if other.Oracle.APIKey != "" {
		c.Oracle.APIKey = other.Oracle.APIKey
	}
	if other.Oracle.Timeout != 0 {
		c.Oracle.Timeout = other.Oracle.Timeout
	}
	if other.Oracle.ScoreCacheSize != 0 {
		c.Oracle.ScoreCacheSize = other.Oracle.ScoreCacheSize
	}

	if other.Server.Host != "" {
		c.Server.Host = other.Server.Host
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
	if other.Server.LogFile != "" {
		c.Server.LogFile = other.Server.LogFile
	}
}

// applyEnvOverrides applies HYBRIDRANK_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HYBRIDRANK_CORPUS_SOURCE"); v != "" {
		c.Corpus.Source = v
	}
	if v := os.Getenv("HYBRIDRANK_CORPUS_PATH"); v != "" {
		c.Corpus.Path = v
	}
	if v := os.Getenv("HYBRIDRANK_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Corpus.ChunkSize = n
		}
	}
	if v := os.Getenv("HYBRIDRANK_CHUNK_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Corpus.ChunkOverlap = n
		}
	}
	if v := os.Getenv("HYBRIDRANK_MAX_FEATURES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Embed.MaxFeatures = n
		}
	}
	if v := os.Getenv("HYBRIDRANK_USE_LSA"); v != "" {
		c.Embed.UseLSA = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("HYBRIDRANK_LSA_COMPONENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Embed.LSAComponents = n
		}
	}
	if v := os.Getenv("HYBRIDRANK_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Search.TopK = n
		}
	}
	if v := os.Getenv("HYBRIDRANK_CONTEXT_RADIUS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Search.ContextRadius = n
		}
	}
	if v := os.Getenv("HYBRIDRANK_ORACLE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Search.OracleConcurrency = n
		}
	}
	if v := os.Getenv("HYBRIDRANK_ORACLE_ENDPOINT"); v != "" {
		c.Oracle.Endpoint = v
	}
	if v := os.Getenv("HYBRIDRANK_ORACLE_MODEL"); v != "" {
		c.Oracle.Model = v
	}
	if v := os.Getenv("HYBRIDRANK_ORACLE_API_KEY"); v != "" {
		c.Oracle.APIKey = v
	} else if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.Oracle.APIKey == "" {
		c.Oracle.APIKey = v
	}
	if v := os.Getenv("HYBRIDRANK_ORACLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Oracle.Timeout = d
		}
	}
	if v := os.Getenv("HYBRIDRANK_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("HYBRIDRANK_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("HYBRIDRANK_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("HYBRIDRANK_LOG_FILE"); v != "" {
		c.Server.LogFile = v
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Corpus.ChunkSize <= 0 {
		return fmt.Errorf("corpus.chunk_size must be positive, got %d", c.Corpus.ChunkSize)
	}
	if c.Corpus.ChunkOverlap < 0 {
		return fmt.Errorf("corpus.chunk_overlap must be non-negative, got %d", c.Corpus.ChunkOverlap)
	}
	if c.Corpus.ChunkOverlap >= c.Corpus.ChunkSize {
		return fmt.Errorf("corpus.chunk_overlap (%d) must be smaller than corpus.chunk_size (%d)",
			c.Corpus.ChunkOverlap, c.Corpus.ChunkSize)
	}
	if c.Embed.MaxFeatures <= 0 {
		return fmt.Errorf("embed.max_features must be positive, got %d", c.Embed.MaxFeatures)
	}
	if c.Embed.UseLSA && c.Embed.LSAComponents <= 0 {
		return fmt.Errorf("embed.lsa_components must be positive when LSA is enabled, got %d", c.Embed.LSAComponents)
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("search.top_k must be positive, got %d", c.Search.TopK)
	}
	if c.Search.ContextRadius < 0 {
		return fmt.Errorf("search.context_radius must be non-negative, got %d", c.Search.ContextRadius)
	}
	if c.Search.OracleConcurrency <= 0 {
		return fmt.Errorf("search.oracle_concurrency must be positive, got %d", c.Search.OracleConcurrency)
	}
	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("oracle.timeout must be positive, got %s", c.Oracle.Timeout)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
