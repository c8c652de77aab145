package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown file format or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Nothing can be ingested or retrieved without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Retrieval still works but answer generation is disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// ProcessingError reports a document load, split or pipeline failure.
// It aborts ingestion for the affected file only.
type ProcessingError struct {
	// Filename is the file that failed to process.
	Filename string

	// Msg summarises what went wrong.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("processing %s: %s: %v", e.Filename, e.Msg, e.Err)
	}
	return fmt.Sprintf("processing %s: %s", e.Filename, e.Msg)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError wraps a failure in document processing.
func NewProcessingError(filename, msg string, cause error) *ProcessingError {
	return &ProcessingError{Filename: filename, Msg: msg, Err: cause}
}

// EmbeddingError reports an embedding provider failure. A batch either
// fully succeeds or fully fails; partial embedding is never surfaced.
type EmbeddingError struct {
	// ChunkCount is the size of the batch that failed (0 for queries).
	ChunkCount int

	// Err is the underlying provider failure.
	Err error
}

func (e *EmbeddingError) Error() string {
	if e.ChunkCount > 0 {
		return fmt.Sprintf("embedding %d chunks: %v", e.ChunkCount, e.Err)
	}
	return fmt.Sprintf("embedding: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// NewEmbeddingError wraps a provider failure for a batch of the given size.
func NewEmbeddingError(chunkCount int, cause error) *EmbeddingError {
	return &EmbeddingError{ChunkCount: chunkCount, Err: cause}
}

// VectorStoreError reports a storage backend failure. Callers never see
// backend-native errors directly.
type VectorStoreError struct {
	// Op is the store operation that failed (add, search, delete, count).
	Op string

	// Err is the backend failure.
	Err error
}

func (e *VectorStoreError) Error() string {
	return fmt.Sprintf("vector store %s: %v", e.Op, e.Err)
}

func (e *VectorStoreError) Unwrap() error {
	return e.Err
}

// NewVectorStoreError wraps a backend failure for the given operation.
func NewVectorStoreError(op string, cause error) *VectorStoreError {
	return &VectorStoreError{Op: op, Err: cause}
}

// ConfigurationError reports invalid configuration, rejected eagerly
// before any pipeline runs.
type ConfigurationError struct {
	// Msg describes the invalid setting.
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Msg
}

// NewConfigurationError reports an invalid configuration value.
func NewConfigurationError(msg string) *ConfigurationError {
	return &ConfigurationError{Msg: msg}
}
