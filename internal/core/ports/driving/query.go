package driving

import (
	"context"

	"github.com/docqa/docqa/internal/core/domain"
)

// AskRequest carries one natural-language question and its retrieval
// parameters.
type AskRequest struct {
	// Query is the question text.
	Query string `validate:"required"`

	// TopK bounds how many chunks are retrieved. Zero selects the
	// configured default; otherwise it must lie in [1,20].
	TopK int `validate:"omitempty,min=1,max=20"`

	// Filter optionally restricts retrieval by metadata equality.
	Filter map[string]string
}

// AskService drives the query pipeline: embed the question, retrieve
// similar chunks, assemble context and generate a grounded answer.
type AskService interface {
	// Ask answers a question from stored document content. An error is
	// returned only for invalid requests; pipeline failures are encoded
	// in the result with Success=false and a safe fallback answer.
	Ask(ctx context.Context, req AskRequest) (*domain.QueryResult, error)
}
