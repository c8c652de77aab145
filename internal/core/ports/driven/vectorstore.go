package driven

import (
	"context"

	"github.com/docqa/docqa/internal/core/domain"
)

// VectorStore persists chunk vectors with their content and a flattened
// metadata record, and serves similarity search over them.
//
// Concurrent reads and writes from independent requests must not
// corrupt stored state; persistent backends delegate concurrency
// control to the backing engine.
//
// Every operation wraps backend failures into domain.VectorStoreError;
// callers never see backend-native errors.
type VectorStore interface {
	// AddChunks persists id, vector, content and metadata per chunk.
	// No-op on empty input.
	AddChunks(ctx context.Context, chunks []domain.DocumentChunk) error

	// SimilaritySearch returns at most k chunks in descending cosine
	// similarity to the query vector, restricted to chunks matching the
	// optional metadata filter (conjunctive equality; see
	// domain.FilterFields). Equal-score ties may be broken by insertion
	// or backend iteration order. Empty result when nothing is stored.
	SimilaritySearch(ctx context.Context, embedding []float32, k int, filter map[string]string) ([]domain.RetrievedChunk, error)

	// DeleteByDocumentID removes every chunk of the given document.
	// No-op when none match.
	DeleteByDocumentID(ctx context.Context, documentID string) error

	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// HashChecker is an optional capability of a VectorStore: fast lookup
// of whether any chunk was stored for a given file content hash. Used
// for de-duplication detection before ingesting a file.
type HashChecker interface {
	// HasFileHash reports whether any stored chunk carries the hash.
	HasFileHash(ctx context.Context, fileHash string) (bool, error)
}
