package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
	"github.com/docqa/docqa/internal/logger"
)

// IngestionPipeline runs the fixed stage sequence for one file:
// load, split, embed, store. Stages run in order; the first error
// moves the state to failed and the remaining stages are skipped.
// There are no retries.
type IngestionPipeline struct {
	registry driven.LoaderRegistry
	splitter driven.Splitter
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewIngestionPipeline creates an ingestion pipeline. All collaborators
// are required except embedder, whose absence fails the embed stage at
// run time rather than construction.
func NewIngestionPipeline(
	registry driven.LoaderRegistry,
	splitter driven.Splitter,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
) *IngestionPipeline {
	return &IngestionPipeline{
		registry: registry,
		splitter: splitter,
		embedder: embedder,
		store:    store,
	}
}

// Run processes one file through every stage and returns the terminal
// state. The state is always well formed; callers read Status and
// Errors rather than an error return.
func (p *IngestionPipeline) Run(ctx context.Context, path string) *IngestionState {
	state := &IngestionState{
		FilePath: path,
		Filename: filepath.Base(path),
		Status:   IngestionPending,
		Start:    time.Now(),
	}

	p.loadStage(ctx, state)
	p.splitStage(ctx, state)
	p.embedStage(ctx, state)
	p.storeStage(ctx, state)

	if state.Status != IngestionFailed {
		state.Status = IngestionCompleted
	}
	return state
}

// Result converts a terminal state into the per-file ingest result.
func (s *IngestionState) Result() domain.IngestResult {
	result := domain.IngestResult{
		Filename: s.Filename,
		Success:  s.Status == IngestionCompleted,
		Duration: time.Since(s.Start),
	}
	if s.Document != nil {
		result.FileSizeBytes = s.Document.Metadata.FileSizeBytes
	}
	if result.Success {
		result.ChunksCreated = len(s.Chunks)
		result.DocumentID = s.Document.ID
	} else {
		result.Err = strings.Join(s.Errors, "; ")
	}
	return result
}

func (p *IngestionPipeline) loadStage(ctx context.Context, state *IngestionState) {
	if state.Status == IngestionFailed {
		return
	}
	logger.Debug("Loading %s", state.Filename)

	loader, err := p.registry.ForFile(state.FilePath)
	if err != nil {
		state.fail(fmt.Sprintf("Loading failed: %v", err))
		return
	}
	doc, err := loader.Load(ctx, state.FilePath)
	if err != nil {
		state.fail(fmt.Sprintf("Loading failed: %v", err))
		return
	}

	state.Document = doc
	state.Status = IngestionLoadingComplete
	logger.Debug("Loaded %s: %d bytes", state.Filename, doc.Metadata.FileSizeBytes)
}

func (p *IngestionPipeline) splitStage(ctx context.Context, state *IngestionState) {
	if state.Status == IngestionFailed {
		return
	}

	chunks, err := p.splitter.Split(ctx, state.Document)
	if err != nil {
		state.fail(fmt.Sprintf("Splitting failed: %v", err))
		return
	}

	state.Chunks = chunks
	state.Status = IngestionSplittingComplete
	logger.Debug("Split %s into %d chunks", state.Filename, len(chunks))
}

func (p *IngestionPipeline) embedStage(ctx context.Context, state *IngestionState) {
	if state.Status == IngestionFailed {
		return
	}

	chunks, err := embedChunks(ctx, p.embedder, state.Chunks)
	if err != nil {
		state.fail(fmt.Sprintf("Embedding failed: %v", err))
		return
	}

	state.Chunks = chunks
	state.Status = IngestionEmbeddingComplete
	logger.Debug("Embedded %d chunks for %s", len(chunks), state.Filename)
}

func (p *IngestionPipeline) storeStage(ctx context.Context, state *IngestionState) {
	if state.Status == IngestionFailed {
		return
	}

	if err := p.store.AddChunks(ctx, state.Chunks); err != nil {
		state.fail(fmt.Sprintf("Storage failed: %v", err))
		return
	}
	logger.Debug("Stored %d chunks for %s", len(state.Chunks), state.Filename)
}
