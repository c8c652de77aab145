package domain

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// SourceType identifies the original file format of a document.
type SourceType string

const (
	// SourceTypePDF is a PDF file parsed page by page.
	SourceTypePDF SourceType = "pdf"

	// SourceTypeTXT is a plain text file.
	SourceTypeTXT SourceType = "txt"

	// SourceTypeDOCX is a Word document in OOXML format.
	SourceTypeDOCX SourceType = "docx"
)

// SourceTypeFromPath derives the source type from a file extension.
// Returns ErrUnsupportedType for anything other than pdf, txt or docx.
func SourceTypeFromPath(path string) (SourceType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "pdf":
		return SourceTypePDF, nil
	case "txt":
		return SourceTypeTXT, nil
	case "docx":
		return SourceTypeDOCX, nil
	default:
		return "", ErrUnsupportedType
	}
}

// DocumentMetadata describes the file a document was loaded from.
// It is copied onto every chunk so that retrieval results can be
// attributed to their source without a second lookup.
type DocumentMetadata struct {
	// Filename is the original file name (base name, no directory).
	Filename string

	// FileSizeBytes is the raw file size.
	FileSizeBytes int64

	// FileHash is the SHA-256 hex digest of the raw file bytes.
	// It is a deterministic content digest usable for de-duplication.
	FileHash string

	// UploadedAt is when the file was handed to the loader.
	UploadedAt time.Time

	// SourceType is the file format the document came from.
	SourceType SourceType

	// PageCount is the number of pages for paginated formats (PDF).
	// Zero when the format has no page concept.
	PageCount int

	// Custom contains arbitrary caller-supplied key-value pairs.
	Custom map[string]string
}

// Document is the canonical representation of a loaded file.
// It is immutable once created and owned by a single ingestion run;
// only its chunks are persisted.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Content is the full extracted text.
	Content string

	// Metadata describes the source file.
	Metadata DocumentMetadata
}

// DocumentChunk is a bounded contiguous slice of a document's text,
// the unit of embedding and retrieval.
type DocumentChunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links back to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Index is the ordinal position within the document.
	// Indices are contiguous starting at 0, in source order.
	Index int

	// Metadata is a copy of the parent document's metadata.
	Metadata DocumentMetadata

	// Embedding is the vector representation. Nil until the
	// embedding stage has run.
	Embedding []float32
}

// RetrievedChunk is the query-time view of a stored chunk: the chunk
// plus its similarity score when the backend reports one.
type RetrievedChunk struct {
	DocumentChunk

	// Score is the cosine similarity to the query vector.
	Score float64

	// Scored is false when the backend does not report similarity.
	Scored bool
}

// Metadata filter fields recognised by vector stores. A filter with a
// field outside this set matches nothing.
const (
	FilterDocumentID = "document_id"
	FilterChunkIndex = "chunk_index"
	FilterFilename   = "filename"
	FilterFileHash   = "file_hash"
	FilterSourceType = "source_type"
)

// FilterFields lists every metadata field a filter may reference.
func FilterFields() []string {
	return []string{
		FilterDocumentID,
		FilterChunkIndex,
		FilterFilename,
		FilterFileHash,
		FilterSourceType,
	}
}

// MetadataFields returns the flattened metadata record stored alongside
// a chunk's vector, keyed by filter field name.
func (c *DocumentChunk) MetadataFields() map[string]string {
	return map[string]string{
		FilterDocumentID: c.DocumentID,
		FilterChunkIndex: strconv.Itoa(c.Index),
		FilterFilename:   c.Metadata.Filename,
		FilterFileHash:   c.Metadata.FileHash,
		FilterSourceType: string(c.Metadata.SourceType),
	}
}

// MatchesFilter reports whether the chunk satisfies every field of a
// metadata filter. Filtering is conjunctive equality only; a field the
// chunk does not carry never matches.
func (c *DocumentChunk) MatchesFilter(filter map[string]string) bool {
	if len(filter) == 0 {
		return true
	}
	fields := c.MetadataFields()
	for key, want := range filter {
		got, ok := fields[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}
