// Package pdf loads PDF files using MuPDF via go-fitz.
package pdf

import (
	"context"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/google/uuid"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
	"github.com/docqa/docqa/internal/loaders/fileinfo"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles PDF files.
type Loader struct{}

// New creates a new PDF loader.
func New() *Loader {
	return &Loader{}
}

// SourceType returns the format this loader handles.
func (l *Loader) SourceType() domain.SourceType {
	return domain.SourceTypePDF
}

// Load extracts text from every page of a PDF. Pages are joined with a
// blank line and the page count is recorded in the metadata.
func (l *Loader) Load(_ context.Context, path string) (*domain.Document, error) {
	data, meta, err := fileinfo.Read(path)
	if err != nil {
		return nil, err
	}
	meta.SourceType = domain.SourceTypePDF

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, domain.NewProcessingError(meta.Filename, "invalid PDF file", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	pages := make([]string, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		text, err := doc.Text(i)
		if err != nil {
			return nil, domain.NewProcessingError(meta.Filename, "text extraction failed", err)
		}
		pages = append(pages, text)
	}
	meta.PageCount = pageCount

	return &domain.Document{
		ID:       uuid.New().String(),
		Content:  strings.TrimSpace(strings.Join(pages, "\n\n")),
		Metadata: meta,
	}, nil
}
