package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService records calls and returns fixed vectors.
type stubService struct {
	embedCalls int
	batchCalls int
}

func (s *stubService) Embed(_ context.Context, _ string) ([]float32, error) {
	s.embedCalls++
	return []float32{1, 0}, nil
}

func (s *stubService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.batchCalls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (s *stubService) Dimensions() int              { return 2 }
func (s *stubService) ModelName() string            { return "stub-model" }
func (s *stubService) Ping(_ context.Context) error { return nil }
func (s *stubService) Close() error                 { return nil }

func TestRateLimited_Delegates(t *testing.T) {
	stub := &stubService{}
	limited := NewRateLimited(stub, 0, 0) // unlimited

	vec, err := limited.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, vec)

	vecs, err := limited.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)

	assert.Equal(t, 1, stub.embedCalls)
	assert.Equal(t, 1, stub.batchCalls)
	assert.Equal(t, 2, limited.Dimensions())
	assert.Equal(t, "stub-model", limited.ModelName())
	assert.NoError(t, limited.Ping(context.Background()))
	assert.NoError(t, limited.Close())
}

func TestRateLimited_BatchIsOneRequest(t *testing.T) {
	stub := &stubService{}
	// 1 req/s with burst 1: the second call must wait.
	limited := NewRateLimited(stub, 1, 1)

	start := time.Now()
	_, err := limited.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	// First batch consumes the burst token without blocking.
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 1, stub.batchCalls)
}

func TestRateLimited_ContextCancelled(t *testing.T) {
	stub := &stubService{}
	limited := NewRateLimited(stub, 0.001, 1)

	// Drain the burst token.
	_, err := limited.Embed(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = limited.Embed(ctx, "second")
	require.Error(t, err)
	assert.Equal(t, 1, stub.embedCalls)
}
