package services

import (
	"time"

	"github.com/docqa/docqa/internal/core/domain"
)

// IngestionStatus tracks progress through the ingestion pipeline.
type IngestionStatus string

// Ingestion pipeline states, in stage order. Completed and Failed are
// terminal; Failed is reachable from any stage.
const (
	IngestionPending           IngestionStatus = "pending"
	IngestionLoadingComplete   IngestionStatus = "loading_complete"
	IngestionSplittingComplete IngestionStatus = "splitting_complete"
	IngestionEmbeddingComplete IngestionStatus = "embedding_complete"
	IngestionCompleted         IngestionStatus = "completed"
	IngestionFailed            IngestionStatus = "failed"
)

// QueryStatus tracks progress through the query pipeline.
type QueryStatus string

// Query pipeline states, in stage order.
const (
	QueryPending            QueryStatus = "pending"
	QueryEmbeddingComplete  QueryStatus = "embedding_complete"
	QueryRetrievalComplete  QueryStatus = "retrieval_complete"
	QueryFormattingComplete QueryStatus = "formatting_complete"
	QueryCompleted          QueryStatus = "completed"
	QueryFailed             QueryStatus = "failed"
)

// IngestionState is threaded through the ingestion stages. Each stage
// consumes the previous stage's artifact and either advances the
// status or appends an error and sets Failed, which short-circuits
// the remaining stages.
type IngestionState struct {
	FilePath string
	Filename string

	Document *domain.Document
	Chunks   []domain.DocumentChunk

	Status IngestionStatus
	Errors []string
	Start  time.Time
}

// fail records a stage error and moves the state to Failed.
func (s *IngestionState) fail(msg string) {
	s.Errors = append(s.Errors, msg)
	s.Status = IngestionFailed
}

// queryState is threaded through the query stages.
type queryState struct {
	Query  string
	TopK   int
	Filter map[string]string

	QueryEmbedding []float32
	Retrieved      []domain.RetrievedChunk
	Context        string
	Answer         string

	Status QueryStatus
	Errors []string
	Start  time.Time
}

// fail records a stage error and moves the state to Failed.
func (s *queryState) fail(msg string) {
	s.Errors = append(s.Errors, msg)
	s.Status = QueryFailed
}
