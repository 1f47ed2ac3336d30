package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "data", cfg.DataDir)
	assert.True(t, cfg.Embedding.Enabled)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 64, cfg.Embedding.BatchSize)
	assert.Equal(t, 2000, cfg.Chunking.MaxChars)
	assert.Equal(t, 150, cfg.Chunking.Overlap)
	assert.Equal(t, 10, cfg.Chunking.MaxChunksPerDoc)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fabkb.yaml")
	content := `
data_dir: /srv/corpus
embedding:
  enabled: false
  model: custom-model
retrieval:
  top_k: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/corpus", cfg.DataDir)
	assert.False(t, cfg.Embedding.Enabled)
	assert.Equal(t, "custom-model", cfg.Embedding.Model)
	assert.Equal(t, 8, cfg.Retrieval.TopK)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, 2000, cfg.Chunking.MaxChars)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FABKB_DATA_DIR", "/env/data")
	t.Setenv("EMBEDDING_MODEL", "env-model")
	t.Setenv("USE_EMBEDDINGS", "false")
	t.Setenv("FABKB_TOP_K", "12")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/data", cfg.DataDir)
	assert.Equal(t, "env-model", cfg.Embedding.Model)
	assert.False(t, cfg.Embedding.Enabled)
	assert.Equal(t, 12, cfg.Retrieval.TopK)
}

func TestLoad_InvalidEnvIgnored(t *testing.T) {
	t.Setenv("USE_EMBEDDINGS", "maybe")
	t.Setenv("FABKB_TOP_K", "-2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Embedding.Enabled)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
}
