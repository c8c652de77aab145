package driven

import (
	"context"

	"github.com/docqa/docqa/internal/core/domain"
)

// Splitter chunks a document's content into bounded, overlapping
// segments. Splitting is pure and deterministic: the same document and
// configuration always produce the same chunk sequence.
//
// Output chunks are non-empty, carry a copy of the document metadata,
// and have contiguous indices 0..n-1 in source order.
type Splitter interface {
	// Split produces the ordered chunk sequence for a document.
	Split(ctx context.Context, doc *domain.Document) ([]domain.DocumentChunk, error)
}
