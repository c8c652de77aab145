// Package embedding provides decorators shared by the embedding
// service adapters.
package embedding

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/docqa/docqa/internal/core/ports/driven"
)

// Ensure RateLimited implements the interface.
var _ driven.EmbeddingService = (*RateLimited)(nil)

// RateLimited wraps an embedding service with a request rate limit.
// Providers meter embedding calls per minute; the limiter smooths
// ingestion bursts instead of letting them hit provider 429s.
type RateLimited struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter
}

// NewRateLimited wraps service so that at most requestsPerSecond calls
// reach the provider, with bursts up to burst. A non-positive rate
// disables limiting.
func NewRateLimited(service driven.EmbeddingService, requestsPerSecond float64, burst int) *RateLimited {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		inner:   service,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Embed waits for limiter clearance, then delegates.
func (s *RateLimited) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.Embed(ctx, text)
}

// EmbedBatch counts as a single request against the limit; the batch
// is the provider-facing unit, not the individual text.
func (s *RateLimited) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped service's vector size.
func (s *RateLimited) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the wrapped service's model name.
func (s *RateLimited) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates without consuming limiter tokens.
func (s *RateLimited) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the wrapped service.
func (s *RateLimited) Close() error {
	return s.inner.Close()
}
