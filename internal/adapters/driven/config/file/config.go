package file

import (
	"fmt"

	"github.com/docqa/docqa/internal/core/domain"
)

// Provider names for embedding and LLM services.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Vector store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPGVector = "pgvector"
)

// Length function names for the splitter.
const (
	LengthCharacters = "characters"
	LengthTokens     = "tokens"
)

// Config holds every tunable of the ingestion and query pipelines.
// Zero values select the documented defaults; Validate rejects
// combinations the pipelines cannot run with.
type Config struct {
	Chunking  ChunkingConfig  `toml:"chunking"`
	Query     QueryConfig     `toml:"query"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Store     StoreConfig     `toml:"store"`
	Verbose   bool            `toml:"verbose"`
}

// ChunkingConfig controls the document splitter.
type ChunkingConfig struct {
	// Size is the maximum chunk length (default 1000).
	Size int `toml:"size"`

	// Overlap is carried between adjacent chunks (default 200).
	// Must be smaller than Size.
	Overlap int `toml:"overlap"`

	// LengthFunction selects how chunk length is measured:
	// "characters" (default) or "tokens".
	LengthFunction string `toml:"length_function"`

	// TokenModel names the tokeniser when LengthFunction is "tokens"
	// (default gpt-3.5-turbo).
	TokenModel string `toml:"token_model"`
}

// QueryConfig controls retrieval and context assembly.
type QueryConfig struct {
	// TopK is the default number of chunks to retrieve (default 5).
	TopK int `toml:"top_k"`

	// MaxContextLength bounds the assembled context in characters
	// (default 4000).
	MaxContextLength int `toml:"max_context_length"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	// Provider is "openai" (default) or "ollama".
	Provider string `toml:"provider"`

	// Model overrides the provider's default embedding model.
	Model string `toml:"model"`

	// BaseURL overrides the provider's API endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey is the provider credential. Left empty, the factory reads
	// it from the environment instead; keys are better kept out of the
	// config file.
	APIKey string `toml:"api_key"`

	// RequestsPerSecond throttles embedding calls. Zero disables
	// throttling.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// Burst is the throttle burst size (default 1 when throttled).
	Burst int `toml:"burst"`
}

// LLMConfig selects and tunes the answer-generation provider.
// An empty Provider disables generation; queries then return
// retrieved chunks only.
type LLMConfig struct {
	// Provider is "openai", "ollama", or "" for retrieval-only mode.
	Provider string `toml:"provider"`

	// Model overrides the provider's default chat model.
	Model string `toml:"model"`

	// BaseURL overrides the provider's API endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey is the provider credential; falls back to the environment.
	APIKey string `toml:"api_key"`
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	// Backend is "memory", "sqlite" (default) or "pgvector".
	Backend string `toml:"backend"`

	// DataDir holds the sqlite database (default ~/.docqa/data).
	DataDir string `toml:"data_dir"`

	// ConnString is the PostgreSQL DSN for the pgvector backend.
	ConnString string `toml:"conn_string"`

	// Deduplicate skips files whose exact content is already stored.
	Deduplicate bool `toml:"deduplicate"`
}

// Default chunking and query values, matching the splitter and query
// pipeline defaults.
const (
	DefaultChunkSize        = 1000
	DefaultChunkOverlap     = 200
	DefaultTopK             = 5
	DefaultMaxContextLength = 4000
	DefaultTokenModel       = "gpt-3.5-turbo"
)

// DefaultConfig returns the configuration used when no config file
// exists.
func DefaultConfig() Config {
	return Config{
		Chunking: ChunkingConfig{
			Size:           DefaultChunkSize,
			Overlap:        DefaultChunkOverlap,
			LengthFunction: LengthCharacters,
			TokenModel:     DefaultTokenModel,
		},
		Query: QueryConfig{
			TopK:             DefaultTopK,
			MaxContextLength: DefaultMaxContextLength,
		},
		Embedding: EmbeddingConfig{
			Provider: ProviderOpenAI,
		},
		Store: StoreConfig{
			Backend:     BackendSQLite,
			Deduplicate: true,
		},
	}
}

// applyDefaults fills zero values after loading a partial file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Chunking.Size == 0 {
		c.Chunking.Size = def.Chunking.Size
	}
	if c.Chunking.Overlap == 0 && c.Chunking.Size > def.Chunking.Overlap {
		c.Chunking.Overlap = def.Chunking.Overlap
	}
	if c.Chunking.LengthFunction == "" {
		c.Chunking.LengthFunction = def.Chunking.LengthFunction
	}
	if c.Chunking.TokenModel == "" {
		c.Chunking.TokenModel = def.Chunking.TokenModel
	}
	if c.Query.TopK == 0 {
		c.Query.TopK = def.Query.TopK
	}
	if c.Query.MaxContextLength == 0 {
		c.Query.MaxContextLength = def.Query.MaxContextLength
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = def.Embedding.Provider
	}
	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
}

// Validate rejects configurations the pipelines cannot run with.
// Every failure is a domain.ConfigurationError.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return domain.NewConfigurationError(fmt.Sprintf("chunk size must be positive, got %d", c.Chunking.Size))
	}
	if c.Chunking.Overlap < 0 {
		return domain.NewConfigurationError(fmt.Sprintf("chunk overlap must not be negative, got %d", c.Chunking.Overlap))
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return domain.NewConfigurationError(fmt.Sprintf("chunk overlap %d must be smaller than chunk size %d", c.Chunking.Overlap, c.Chunking.Size))
	}
	switch c.Chunking.LengthFunction {
	case LengthCharacters, LengthTokens:
	default:
		return domain.NewConfigurationError(fmt.Sprintf("unknown length function %q", c.Chunking.LengthFunction))
	}

	if c.Query.TopK < 1 || c.Query.TopK > 20 {
		return domain.NewConfigurationError(fmt.Sprintf("top_k must be in [1,20], got %d", c.Query.TopK))
	}
	if c.Query.MaxContextLength <= 0 {
		return domain.NewConfigurationError(fmt.Sprintf("max context length must be positive, got %d", c.Query.MaxContextLength))
	}

	switch c.Embedding.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return domain.NewConfigurationError(fmt.Sprintf("unknown embedding provider %q", c.Embedding.Provider))
	}
	if c.Embedding.RequestsPerSecond < 0 {
		return domain.NewConfigurationError("requests_per_second must not be negative")
	}

	switch c.LLM.Provider {
	case "", ProviderOpenAI, ProviderOllama:
	default:
		return domain.NewConfigurationError(fmt.Sprintf("unknown LLM provider %q", c.LLM.Provider))
	}

	switch c.Store.Backend {
	case BackendMemory, BackendSQLite, BackendPGVector:
	default:
		return domain.NewConfigurationError(fmt.Sprintf("unknown store backend %q", c.Store.Backend))
	}
	if c.Store.Backend == BackendPGVector && c.Store.ConnString == "" {
		return domain.NewConfigurationError("pgvector backend requires conn_string")
	}

	return nil
}
