package loaders

import (
	"github.com/docqa/docqa/internal/loaders/docx"
	"github.com/docqa/docqa/internal/loaders/pdf"
	"github.com/docqa/docqa/internal/loaders/txt"
)

// NewDefault creates a registry with all built-in loaders registered.
func NewDefault() *Registry {
	r := NewRegistry()
	r.Register(txt.New())
	r.Register(pdf.New())
	r.Register(docx.New())
	return r
}
