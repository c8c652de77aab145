package domain

import "time"

// IngestResult reports the outcome of ingesting a single file.
type IngestResult struct {
	// Filename is the base name of the processed file.
	Filename string

	// Success is true when every pipeline stage completed.
	Success bool

	// Err holds the failure message when Success is false.
	Err string

	// Note carries supplementary information on success, such as a
	// duplicate-content skip that stored nothing new.
	Note string

	// ChunksCreated is the number of chunks stored for this file.
	ChunksCreated int

	// Duration is the wall-clock processing time.
	Duration time.Duration

	// FileSizeBytes is the raw file size, when known.
	FileSizeBytes int64

	// DocumentID identifies the stored document on success.
	DocumentID string
}

// IngestReport aggregates per-file results for one batch of uploads.
// One file's failure never aborts the rest of the batch.
type IngestReport struct {
	// Success is true when at least one file succeeded.
	Success bool

	// FilesProcessed counts the files that succeeded.
	FilesProcessed int

	// ChunksCreated is the total across successful files.
	ChunksCreated int

	// Message summarises the batch outcome.
	Message string

	// Details holds one result per input file, in input order.
	Details []IngestResult
}

// QueryResult reports the outcome of one question. Query failures are
// encoded here rather than returned as errors, so callers always get a
// well-formed result.
type QueryResult struct {
	// Success is true when an answer was generated.
	Success bool

	// Answer is the generated text, or a safe fallback on failure.
	Answer string

	// Chunks are the retrieved chunks in descending similarity order.
	// All retrieved chunks are reported, including any excluded from the
	// prompt by the context length budget.
	Chunks []RetrievedChunk

	// Sources lists the distinct filenames behind Chunks, in first-seen order.
	Sources []string

	// Duration is the wall-clock query time.
	Duration time.Duration

	// Err holds the failure message when Success is false.
	Err string
}
