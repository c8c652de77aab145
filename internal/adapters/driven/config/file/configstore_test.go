package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/docqa/internal/core/domain"
)

func TestNewConfigStore_Defaults(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())

	cfg := store.Config()
	assert.Equal(t, DefaultChunkSize, cfg.Chunking.Size)
	assert.Equal(t, DefaultChunkOverlap, cfg.Chunking.Overlap)
	assert.Equal(t, DefaultTopK, cfg.Query.TopK)
	assert.Equal(t, DefaultMaxContextLength, cfg.Query.MaxContextLength)
	assert.Equal(t, ProviderOpenAI, cfg.Embedding.Provider)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.True(t, cfg.Store.Deduplicate)
}

func TestConfigStore_LoadPartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[chunking]
size = 500

[embedding]
provider = "ollama"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	cfg := store.Config()
	assert.Equal(t, 500, cfg.Chunking.Size)
	assert.Equal(t, ProviderOllama, cfg.Embedding.Provider)
	// Unset sections keep defaults.
	assert.Equal(t, DefaultChunkOverlap, cfg.Chunking.Overlap)
	assert.Equal(t, DefaultTopK, cfg.Query.TopK)
}

func TestConfigStore_LoadInvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[chunking]
size = 100
overlap = 100
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0o600))

	_, err := NewConfigStore(tmpDir)
	require.Error(t, err)
	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestConfigStore_SaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	cfg := store.Config()
	cfg.Query.TopK = 10
	cfg.Store.Backend = BackendMemory
	require.NoError(t, store.Update(cfg))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Config().Query.TopK)
	assert.Equal(t, BackendMemory, reloaded.Config().Store.Backend)
}

func TestConfigStore_UpdateRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	cfg := store.Config()
	cfg.Query.TopK = 50
	err = store.Update(cfg)
	require.Error(t, err)

	// The stored config is untouched.
	assert.Equal(t, DefaultTopK, store.Config().Query.TopK)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero chunk size", func(c *Config) { c.Chunking.Size = -1 }, false},
		{"overlap equals size", func(c *Config) { c.Chunking.Overlap = c.Chunking.Size }, false},
		{"negative overlap", func(c *Config) { c.Chunking.Overlap = -1 }, false},
		{"token length", func(c *Config) { c.Chunking.LengthFunction = LengthTokens }, true},
		{"unknown length function", func(c *Config) { c.Chunking.LengthFunction = "words" }, false},
		{"top_k too large", func(c *Config) { c.Query.TopK = 21 }, false},
		{"unknown embedding provider", func(c *Config) { c.Embedding.Provider = "cohere" }, false},
		{"retrieval-only llm", func(c *Config) { c.LLM.Provider = "" }, true},
		{"unknown llm provider", func(c *Config) { c.LLM.Provider = "claude" }, false},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, false},
		{"pgvector without dsn", func(c *Config) { c.Store.Backend = BackendPGVector }, false},
		{"pgvector with dsn", func(c *Config) {
			c.Store.Backend = BackendPGVector
			c.Store.ConnString = "postgres://localhost/docqa"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
