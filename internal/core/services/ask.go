package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driving"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService validates questions at the boundary and hands them to the
// query pipeline.
type AskService struct {
	pipeline *QueryPipeline
	validate *validator.Validate
}

// NewAskService creates the query orchestrator.
func NewAskService(pipeline *QueryPipeline) *AskService {
	return &AskService{
		pipeline: pipeline,
		validate: validator.New(),
	}
}

// Ask answers a question from stored document content. An error is
// returned only for invalid requests; pipeline failures are encoded in
// the result.
func (s *AskService) Ask(ctx context.Context, req driving.AskRequest) (*domain.QueryResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return s.pipeline.Process(ctx, req.Query, req.TopK, req.Filter), nil
}
