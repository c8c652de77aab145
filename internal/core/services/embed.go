package services

import (
	"context"
	"fmt"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
)

// embedChunks generates embeddings for every chunk in one batch and
// attaches them in order. The batch either fully succeeds or fully
// fails; provider failures come back as a domain.EmbeddingError
// carrying the batch size.
func embedChunks(ctx context.Context, embedder driven.EmbeddingService, chunks []domain.DocumentChunk) ([]domain.DocumentChunk, error) {
	if len(chunks) == 0 {
		return chunks, nil
	}
	if embedder == nil {
		return nil, domain.NewEmbeddingError(len(chunks), domain.ErrEmbeddingUnavailable)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, domain.NewEmbeddingError(len(chunks), err)
	}
	if len(embeddings) != len(chunks) {
		return nil, domain.NewEmbeddingError(len(chunks),
			fmt.Errorf("expected %d embeddings, got %d", len(chunks), len(embeddings)))
	}

	out := make([]domain.DocumentChunk, len(chunks))
	for i, chunk := range chunks {
		chunk.Embedding = embeddings[i]
		out[i] = chunk
	}
	return out, nil
}
