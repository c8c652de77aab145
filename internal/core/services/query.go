package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
	"github.com/docqa/docqa/internal/logger"
)

// Query pipeline defaults.
const (
	// DefaultTopK is the number of chunks retrieved when the caller
	// does not specify one.
	DefaultTopK = 5

	// MaxTopK bounds retrieval size at the request boundary.
	MaxTopK = 20

	// DefaultMaxContextLength is the context character budget handed
	// to the LLM.
	DefaultMaxContextLength = 4000
)

// fallbackGenerationAnswer is returned when answer generation fails.
const fallbackGenerationAnswer = "Error generating answer. Please try again."

// fallbackQueryAnswer is returned when an earlier pipeline stage fails.
const fallbackQueryAnswer = "Error processing query. Please try again."

// systemPrompt grounds the answer in retrieved context when present.
const systemPrompt = `You are a helpful assistant. Ground your answer in the provided context when it is present; if no relevant context is given, answer from general knowledge. Be concise and precise.`

// QueryPipeline answers a question in four stages: embed the query,
// retrieve similar chunks, format them into a bounded context, and
// generate an answer. Failures never escape the pipeline; they are
// encoded into the returned result with a safe fallback answer.
type QueryPipeline struct {
	embedder         driven.EmbeddingService
	store            driven.VectorStore
	llm              driven.LLMService
	defaultTopK      int
	maxContextLength int
}

// QueryPipelineOption configures the pipeline.
type QueryPipelineOption func(*QueryPipeline)

// WithDefaultTopK sets the retrieval size used when a request leaves
// TopK unset.
func WithDefaultTopK(k int) QueryPipelineOption {
	return func(p *QueryPipeline) {
		p.defaultTopK = k
	}
}

// WithMaxContextLength sets the context character budget.
func WithMaxContextLength(n int) QueryPipelineOption {
	return func(p *QueryPipeline) {
		p.maxContextLength = n
	}
}

// NewQueryPipeline creates a query pipeline. llm may be nil: queries
// then return retrieved chunks without a synthesised answer.
func NewQueryPipeline(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	llm driven.LLMService,
	opts ...QueryPipelineOption,
) *QueryPipeline {
	p := &QueryPipeline{
		embedder:         embedder,
		store:            store,
		llm:              llm,
		defaultTopK:      DefaultTopK,
		maxContextLength: DefaultMaxContextLength,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process answers one question. The result is always well formed:
// stage failures yield Success=false with a fallback answer instead of
// an error.
func (p *QueryPipeline) Process(ctx context.Context, query string, topK int, filter map[string]string) *domain.QueryResult {
	state := &queryState{
		Query:  query,
		TopK:   clampTopK(topK, p.defaultTopK),
		Filter: filter,
		Status: QueryPending,
		Start:  time.Now(),
	}

	p.embedStage(ctx, state)
	p.retrieveStage(ctx, state)
	p.formatStage(state)
	p.generateStage(ctx, state)

	return p.buildResult(state)
}

// clampTopK applies the default and bounds k to [1, MaxTopK].
func clampTopK(k, fallback int) int {
	if k == 0 {
		k = fallback
	}
	if k < 1 {
		k = 1
	}
	if k > MaxTopK {
		k = MaxTopK
	}
	return k
}

func (p *QueryPipeline) embedStage(ctx context.Context, state *queryState) {
	if state.Status == QueryFailed {
		return
	}
	logger.Debug("Embedding query: %.100s", state.Query)

	if p.embedder == nil {
		state.fail(fmt.Sprintf("Embedding error: %v", domain.ErrEmbeddingUnavailable))
		return
	}
	embedding, err := p.embedder.Embed(ctx, state.Query)
	if err != nil {
		state.fail(fmt.Sprintf("Embedding error: %v", domain.NewEmbeddingError(0, err)))
		return
	}

	state.QueryEmbedding = embedding
	state.Status = QueryEmbeddingComplete
}

func (p *QueryPipeline) retrieveStage(ctx context.Context, state *queryState) {
	if state.Status == QueryFailed {
		return
	}
	logger.Debug("Retrieving top %d chunks", state.TopK)

	chunks, err := p.store.SimilaritySearch(ctx, state.QueryEmbedding, state.TopK, state.Filter)
	if err != nil {
		state.fail(fmt.Sprintf("Retrieval error: %v", err))
		return
	}

	state.Retrieved = chunks
	state.Status = QueryRetrievalComplete
	logger.Debug("Retrieved %d chunks", len(chunks))
}

// formatStage assembles retrieved chunks into the context string,
// stopping before the block that would push the total past the
// character budget. Blocks are never truncated mid-chunk.
func (p *QueryPipeline) formatStage(state *queryState) {
	if state.Status == QueryFailed {
		return
	}

	var parts []string
	currentLength := 0
	for i, chunk := range state.Retrieved {
		block := fmt.Sprintf("[Document %d: %s]\n%s\n---\n", i+1, chunk.Metadata.Filename, chunk.Content)
		if currentLength+len(block) > p.maxContextLength {
			logger.Debug("Context budget reached after %d/%d chunks", i, len(state.Retrieved))
			break
		}
		parts = append(parts, block)
		currentLength += len(block)
	}

	state.Context = strings.Join(parts, "\n")
	state.Status = QueryFormattingComplete
}

func (p *QueryPipeline) generateStage(ctx context.Context, state *queryState) {
	if state.Status == QueryFailed {
		return
	}

	if p.llm == nil {
		// Retrieval-only mode: report the chunks without an answer.
		state.Answer = ""
		state.Status = QueryCompleted
		return
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt(state.Context, state.Query)},
	}

	answer, err := p.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		state.Answer = fallbackGenerationAnswer
		state.fail(fmt.Sprintf("Generation error: %v", err))
		return
	}
	if answer == "" {
		answer = "No answer generated."
	}

	state.Answer = answer
	state.Status = QueryCompleted
}

// userPrompt pastes the context above the question when present.
func userPrompt(context, query string) string {
	if context == "" {
		return fmt.Sprintf("Question: %s", query)
	}
	return fmt.Sprintf("Context from documents:\n\n%s\n\nQuestion: %s", context, query)
}

func (p *QueryPipeline) buildResult(state *queryState) *domain.QueryResult {
	result := &domain.QueryResult{
		Success:  state.Status == QueryCompleted,
		Answer:   state.Answer,
		Chunks:   state.Retrieved,
		Sources:  sourceFilenames(state.Retrieved),
		Duration: time.Since(state.Start),
	}
	if !result.Success {
		result.Err = strings.Join(state.Errors, "; ")
		if result.Answer == "" {
			result.Answer = fallbackQueryAnswer
		}
	}
	return result
}

// sourceFilenames lists distinct filenames in first-seen order.
func sourceFilenames(chunks []domain.RetrievedChunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	var out []string
	for _, chunk := range chunks {
		name := chunk.Metadata.Filename
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
