// Package config loads runtime configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all tunables of the knowledge core.
type Config struct {
	// DataDir is the directory holding the corpus source files.
	DataDir string `yaml:"data_dir"`

	Embedding struct {
		// Enabled gates dense retrieval entirely; when false the
		// retriever is built sparse-only without touching the backend.
		Enabled   bool   `yaml:"enabled"`
		Model     string `yaml:"model"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"embedding"`

	Chunking struct {
		MaxChars        int `yaml:"max_chars"`
		Overlap         int `yaml:"overlap"`
		MaxChunksPerDoc int `yaml:"max_chunks_per_doc"`
	} `yaml:"chunking"`

	Retrieval struct {
		TopK int `yaml:"top_k"`
	} `yaml:"retrieval"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.DataDir = "data"
	cfg.Embedding.Enabled = true
	cfg.Embedding.Model = "text-embedding-3-small"
	cfg.Embedding.BatchSize = 64
	cfg.Chunking.MaxChars = 2000
	cfg.Chunking.Overlap = 150
	cfg.Chunking.MaxChunksPerDoc = 10
	cfg.Retrieval.TopK = 5
	return cfg
}

// Load reads path over the defaults. A missing file is not an error; a
// present but malformed file is. Environment variables override both.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env overrides.
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays environment variables on cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("FABKB_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("USE_EMBEDDINGS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Embedding.Enabled = b
		}
	}
	if v := os.Getenv("FABKB_TOP_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil && k > 0 {
			cfg.Retrieval.TopK = k
		}
	}
}
