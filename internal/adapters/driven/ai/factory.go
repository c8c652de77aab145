// Package ai wires embedding, LLM and vector store adapters together
// from configuration.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	configfile "github.com/docqa/docqa/internal/adapters/driven/config/file"
	"github.com/docqa/docqa/internal/adapters/driven/embedding"
	ollamaembed "github.com/docqa/docqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docqa/docqa/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/docqa/docqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/docqa/docqa/internal/adapters/driven/llm/openai"
	"github.com/docqa/docqa/internal/adapters/driven/vectorstore/memory"
	"github.com/docqa/docqa/internal/adapters/driven/vectorstore/pgvector"
	"github.com/docqa/docqa/internal/adapters/driven/vectorstore/sqlite"
	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for provider connectivity
// validation.
const pingTimeout = 5 * time.Second

// InitResult holds the constructed services. LLMService may be nil:
// queries then return retrieved chunks without a generated answer.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	VectorStore      driven.VectorStore

	// Warnings lists non-fatal issues, such as an unreachable LLM
	// that caused the fallback to retrieval-only mode.
	Warnings []string

	// RetrievalOnly is true when no LLM service is available.
	RetrievalOnly bool
}

// Close releases all resources held by the result.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
	if r.VectorStore != nil {
		r.VectorStore.Close()
	}
}

// Init constructs every provider adapter the pipelines need. The
// embedding service and vector store are required and any failure
// there is fatal; an unavailable LLM only degrades to retrieval-only
// mode with a warning.
func Init(ctx context.Context, cfg configfile.Config) (*InitResult, error) {
	result := &InitResult{}

	embedder, err := CreateEmbeddingService(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if err := ping(ctx, embedder.Ping); err != nil {
		embedder.Close()
		return nil, fmt.Errorf("%w: service unreachable: %w", domain.ErrEmbeddingUnavailable, err)
	}
	result.EmbeddingService = withRateLimit(embedder, cfg.Embedding)

	llm, err := CreateLLMService(cfg.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%v: %v; falling back to retrieval-only mode", domain.ErrLLMUnavailable, err))
	} else if llm != nil {
		if err := ping(ctx, llm.Ping); err != nil {
			llm.Close()
			llm = nil
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%v: service unreachable: %v; falling back to retrieval-only mode", domain.ErrLLMUnavailable, err))
		}
	}
	result.LLMService = llm
	result.RetrievalOnly = llm == nil

	store, err := CreateVectorStore(ctx, cfg.Store, embedder.Dimensions())
	if err != nil {
		result.Close()
		return nil, err
	}
	result.VectorStore = store

	return result, nil
}

// CreateEmbeddingService constructs the configured embedding provider.
func CreateEmbeddingService(cfg configfile.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case configfile.ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil

	case configfile.ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  apiKey(cfg.APIKey),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// CreateLLMService constructs the configured LLM provider. Returns
// nil, nil when no provider is configured.
func CreateLLMService(cfg configfile.LLMConfig) (driven.LLMService, error) {
	switch cfg.Provider {
	case "":
		return nil, nil

	case configfile.ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil

	case configfile.ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  apiKey(cfg.APIKey),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// CreateVectorStore constructs the configured storage backend.
// Dimensions is taken from the embedding service so stored vectors
// always match query vectors.
func CreateVectorStore(ctx context.Context, cfg configfile.StoreConfig, dimensions int) (driven.VectorStore, error) {
	switch cfg.Backend {
	case configfile.BackendMemory:
		return memory.New(), nil

	case configfile.BackendSQLite:
		return sqlite.NewStore(cfg.DataDir)

	case configfile.BackendPGVector:
		return pgvector.NewStore(ctx, pgvector.Config{
			ConnString: cfg.ConnString,
			Dimensions: dimensions,
		})

	default:
		return nil, domain.NewConfigurationError(fmt.Sprintf("unknown store backend %q", cfg.Backend))
	}
}

// withRateLimit wraps the embedder in a request throttle when one is
// configured.
func withRateLimit(svc driven.EmbeddingService, cfg configfile.EmbeddingConfig) driven.EmbeddingService {
	if cfg.RequestsPerSecond <= 0 {
		return svc
	}
	return embedding.NewRateLimited(svc, cfg.RequestsPerSecond, cfg.Burst)
}

// apiKey falls back to the environment when the config file carries no
// credential.
func apiKey(configured string) string {
	if configured != "" {
		return configured
	}
	return os.Getenv("OPENAI_API_KEY")
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}
