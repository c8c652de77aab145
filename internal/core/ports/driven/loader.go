package driven

import (
	"context"

	"github.com/docqa/docqa/internal/core/domain"
)

// Loader parses a file on disk into a Document. Each loader handles a
// single source type selected by file extension.
//
// Implementations must validate that the path exists and is a regular
// file, compute the content hash over the raw bytes, and wrap every
// parse failure into a domain.ProcessingError carrying the filename.
type Loader interface {
	// Load reads and parses the file at path.
	Load(ctx context.Context, path string) (*domain.Document, error)

	// SourceType returns the format this loader handles.
	SourceType() domain.SourceType
}

// LoaderRegistry selects the loader for a file by its extension.
type LoaderRegistry interface {
	// ForFile returns the loader for the file's source type.
	// Returns domain.ErrUnsupportedType for unknown extensions.
	ForFile(path string) (Loader, error)
}
