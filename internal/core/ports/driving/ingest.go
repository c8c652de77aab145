package driving

import (
	"context"

	"github.com/docqa/docqa/internal/core/domain"
)

// IngestService drives document ingestion: loading, splitting,
// embedding and storing files, one at a time.
type IngestService interface {
	// ProcessFile runs the full ingestion pipeline for one file.
	// Failures are encoded in the result, never returned as errors.
	ProcessFile(ctx context.Context, path string) domain.IngestResult

	// ProcessFiles ingests a batch sequentially with per-file failure
	// isolation. The report's Success is true iff at least one file
	// succeeded.
	ProcessFiles(ctx context.Context, paths []string) *domain.IngestReport

	// DeleteDocument removes every stored chunk of a document.
	DeleteDocument(ctx context.Context, documentID string) error

	// ChunkCount returns the total number of stored chunks.
	ChunkCount(ctx context.Context) (int, error)
}
