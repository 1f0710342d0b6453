package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the photofind tool.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Blob      BlobConfig      `yaml:"blob"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Query     QueryConfig     `yaml:"query"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Provider string `yaml:"provider"` // "bolt", "postgres"
	Path     string `yaml:"path"`     // bolt database file
	DSNEnv   string `yaml:"dsn_env"`  // environment variable holding the postgres DSN
}

// BlobConfig selects and configures the photo blob store.
type BlobConfig struct {
	Provider string `yaml:"provider"` // "local", "s3"
	Dir      string `yaml:"dir"`      // local: directory for blobs
	Bucket   string `yaml:"bucket"`   // s3: bucket name
	Prefix   string `yaml:"prefix"`   // s3: key prefix, "" for none
	Region   string `yaml:"region"`   // s3: region
	Endpoint string `yaml:"endpoint"` // s3: custom endpoint (MinIO, R2); "" for AWS
	BaseURL  string `yaml:"base_url"` // public URL prefix for stored blobs
}

// EmbeddingConfig holds embedding model configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "jina", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g., "jina-clip-v2"
	APIKeyEnv string `yaml:"api_key_env"` // environment variable for the API key
	BaseURL   string `yaml:"base_url"`    // override endpoint (required for ollama)
	Dimension int    `yaml:"dimension"`
}

// IngestConfig holds photo ingestion configuration.
type IngestConfig struct {
	Includes     []string `yaml:"includes"`
	Excludes     []string `yaml:"excludes"`
	ResizeFactor float64  `yaml:"resize_factor"` // (0, 1]
	Tags         []string `yaml:"tags"`          // applied to every ingested photo
	FailFast     bool     `yaml:"fail_fast"`     // abort the batch on the first failure
}

// QueryConfig holds retrieval configuration.
type QueryConfig struct {
	MinScore float64 `yaml:"min_score"` // treat matches below this score as no match (0 = disabled)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Provider: "bolt",
			Path:     "photofind.db",
			DSNEnv:   "PHOTOFIND_POSTGRES_DSN",
		},
		Blob: BlobConfig{
			Provider: "local",
			Dir:      "blobs",
		},
		Embedding: EmbeddingConfig{
			Provider:  "jina",
			Model:     "jina-clip-v2",
			APIKeyEnv: "JINA_API_KEY",
			Dimension: 1024,
		},
		Ingest: IngestConfig{
			Includes:     []string{"**/*.jpg", "**/*.jpeg", "**/*.png", "**/*.JPG", "**/*.JPEG", "**/*.PNG"},
			Excludes:     []string{"**/.*/**"},
			ResizeFactor: 0.5,
			Tags:         nil,
			FailFast:     false,
		},
		Query: QueryConfig{
			MinScore: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks cross-field constraints that YAML decoding cannot.
func (c *Config) Validate() error {
	if f := c.Ingest.ResizeFactor; f <= 0 || f > 1 {
		return fmt.Errorf("ingest.resize_factor must be in (0, 1], got %v", f)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding.dimension must be positive, got %d", c.Embedding.Dimension)
	}
	switch c.Store.Provider {
	case "bolt", "postgres":
	default:
		return fmt.Errorf("unsupported store provider: %s", c.Store.Provider)
	}
	switch c.Blob.Provider {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported blob provider: %s", c.Blob.Provider)
	}
	return nil
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for photofind.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "photofind.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".photofind", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
