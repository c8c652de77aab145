package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/docqa/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "docqa-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testChunk(id, docID string, index int, embedding []float32) domain.DocumentChunk {
	return domain.DocumentChunk{
		ID:         id,
		DocumentID: docID,
		Content:    "content " + id,
		Index:      index,
		Metadata: domain.DocumentMetadata{
			Filename:      docID + ".txt",
			FileSizeBytes: 42,
			FileHash:      "hash-" + docID,
			UploadedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			SourceType:    domain.SourceTypeTXT,
		},
		Embedding: embedding,
	}
}

func TestNewStore_Migrates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.FileExists(t, store.Path())
}

func TestNewStore_Reopen(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "docqa-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.AddChunks(ctx, []domain.DocumentChunk{
		testChunk("c1", "d1", 0, []float32{1, 0}),
	}))
	require.NoError(t, store.Close())

	// Reopening must not re-run migrations or lose data.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAddChunks_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	in := testChunk("c1", "d1", 3, []float32{0.25, -1.5, 3})
	require.NoError(t, store.AddChunks(ctx, []domain.DocumentChunk{in}))

	results, err := store.SimilaritySearch(ctx, []float32{0.25, -1.5, 3}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, in.ID, got.ID)
	assert.Equal(t, in.DocumentID, got.DocumentID)
	assert.Equal(t, in.Content, got.Content)
	assert.Equal(t, in.Index, got.Index)
	assert.Equal(t, in.Embedding, got.Embedding)
	assert.Equal(t, in.Metadata.Filename, got.Metadata.Filename)
	assert.Equal(t, in.Metadata.FileHash, got.Metadata.FileHash)
	assert.Equal(t, in.Metadata.SourceType, got.Metadata.SourceType)
	assert.Equal(t, in.Metadata.FileSizeBytes, got.Metadata.FileSizeBytes)
	assert.True(t, in.Metadata.UploadedAt.Equal(got.Metadata.UploadedAt))
	assert.InDelta(t, 1.0, got.Score, 1e-6)
}

func TestAddChunks_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.AddChunks(context.Background(), nil))
}

func TestSimilaritySearch_Ranking(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []domain.DocumentChunk{
		testChunk("far", "d1", 0, []float32{0, 1}),
		testChunk("near", "d1", 1, []float32{1, 0}),
		testChunk("mid", "d1", 2, []float32{1, 1}),
	}))

	results, err := store.SimilaritySearch(ctx, []float32{1, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].ID)
	assert.Equal(t, "mid", results[1].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSimilaritySearch_Filter(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []domain.DocumentChunk{
		testChunk("a", "d1", 0, []float32{1, 0}),
		testChunk("b", "d2", 0, []float32{1, 0}),
		testChunk("c", "d2", 1, []float32{1, 0}),
	}))

	t.Run("by document id", func(t *testing.T) {
		results, err := store.SimilaritySearch(ctx, []float32{1, 0}, 10, map[string]string{
			domain.FilterDocumentID: "d2",
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("conjunctive", func(t *testing.T) {
		results, err := store.SimilaritySearch(ctx, []float32{1, 0}, 10, map[string]string{
			domain.FilterDocumentID: "d2",
			domain.FilterChunkIndex: "1",
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "c", results[0].ID)
	})

	t.Run("unknown field matches nothing", func(t *testing.T) {
		results, err := store.SimilaritySearch(ctx, []float32{1, 0}, 10, map[string]string{
			"mystery_field": "x",
		})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestDeleteByDocumentID(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []domain.DocumentChunk{
		testChunk("a", "d1", 0, []float32{1, 0}),
		testChunk("b", "d1", 1, []float32{1, 0}),
		testChunk("c", "d2", 0, []float32{1, 0}),
	}))

	require.NoError(t, store.DeleteByDocumentID(ctx, "d1"))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.DeleteByDocumentID(ctx, "missing"))
}

func TestHasFileHash(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []domain.DocumentChunk{
		testChunk("a", "d1", 0, []float32{1, 0}),
	}))

	ok, err := store.HasFileHash(ctx, "hash-d1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.HasFileHash(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.HasFileHash(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlobCodec(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.14159}
	out := bytesToFloat32Slice(float32SliceToBytes(in))
	assert.Equal(t, in, out)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
