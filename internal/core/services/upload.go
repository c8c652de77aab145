package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
	"github.com/docqa/docqa/internal/core/ports/driving"
	"github.com/docqa/docqa/internal/loaders/fileinfo"
	"github.com/docqa/docqa/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.IngestService = (*UploadService)(nil)

// UploadService orchestrates document ingestion. Batches run strictly
// one file after another with per-file failure isolation: one corrupt
// file never aborts the rest.
type UploadService struct {
	pipeline *IngestionPipeline
	store    driven.VectorStore

	// dedup skips files whose content hash is already stored. Only
	// effective when the store implements driven.HashChecker.
	dedup bool
}

// UploadOption configures the upload service.
type UploadOption func(*UploadService)

// WithDeduplication enables skipping files whose exact content was
// already ingested.
func WithDeduplication(enabled bool) UploadOption {
	return func(s *UploadService) {
		s.dedup = enabled
	}
}

// NewUploadService creates the ingestion orchestrator.
func NewUploadService(pipeline *IngestionPipeline, store driven.VectorStore, opts ...UploadOption) *UploadService {
	s := &UploadService{
		pipeline: pipeline,
		store:    store,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessFile runs the full ingestion pipeline for one file. Failures
// are encoded in the result, never returned as errors.
func (s *UploadService) ProcessFile(ctx context.Context, path string) domain.IngestResult {
	logger.Section("Ingest " + filepath.Base(path))

	if s.dedup {
		if result, skipped := s.checkDuplicate(ctx, path); skipped {
			return result
		}
	}

	return s.pipeline.Run(ctx, path).Result()
}

// checkDuplicate reports whether the file's content is already stored.
// Hash lookup problems are ignored; the pipeline then decides the
// file's fate on its own.
func (s *UploadService) checkDuplicate(ctx context.Context, path string) (domain.IngestResult, bool) {
	checker, ok := s.store.(driven.HashChecker)
	if !ok {
		return domain.IngestResult{}, false
	}

	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.IngestResult{}, false
	}

	exists, err := checker.HasFileHash(ctx, fileinfo.Hash(data))
	if err != nil || !exists {
		return domain.IngestResult{}, false
	}

	logger.Info("Skipping %s: identical content already ingested", filepath.Base(path))
	return domain.IngestResult{
		Filename:      filepath.Base(path),
		Success:       true,
		Note:          "duplicate: identical file content already ingested",
		Duration:      time.Since(start),
		FileSizeBytes: int64(len(data)),
	}, true
}

// ProcessFiles ingests a batch sequentially. The report's Success is
// true iff at least one file succeeded.
func (s *UploadService) ProcessFiles(ctx context.Context, paths []string) *domain.IngestReport {
	report := &domain.IngestReport{
		Details: make([]domain.IngestResult, 0, len(paths)),
	}

	for _, path := range paths {
		result := s.ProcessFile(ctx, path)
		report.Details = append(report.Details, result)
		if result.Success {
			report.FilesProcessed++
			report.ChunksCreated += result.ChunksCreated
		}
	}

	report.Success = report.FilesProcessed > 0
	report.Message = fmt.Sprintf("Successfully processed %d/%d files", report.FilesProcessed, len(paths))
	return report
}

// DeleteDocument removes every stored chunk of a document.
func (s *UploadService) DeleteDocument(ctx context.Context, documentID string) error {
	if documentID == "" {
		return domain.ErrInvalidInput
	}
	return s.store.DeleteByDocumentID(ctx, documentID)
}

// ChunkCount returns the total number of stored chunks.
func (s *UploadService) ChunkCount(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
