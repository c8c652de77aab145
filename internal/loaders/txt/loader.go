// Package txt loads plain text files.
package txt

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
	"github.com/docqa/docqa/internal/loaders/fileinfo"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles plain text files.
type Loader struct{}

// New creates a new text loader.
func New() *Loader {
	return &Loader{}
}

// SourceType returns the format this loader handles.
func (l *Loader) SourceType() domain.SourceType {
	return domain.SourceTypeTXT
}

// Load reads a text file. Content is decoded as UTF-8 when valid and
// as Latin-1 otherwise, so loading never fails on encoding alone.
func (l *Loader) Load(_ context.Context, path string) (*domain.Document, error) {
	data, meta, err := fileinfo.Read(path)
	if err != nil {
		return nil, err
	}
	meta.SourceType = domain.SourceTypeTXT

	return &domain.Document{
		ID:       uuid.New().String(),
		Content:  strings.TrimSpace(decode(data)),
		Metadata: meta,
	}, nil
}

// decode interprets raw bytes as UTF-8, falling back to Latin-1 where
// the bytes are not valid UTF-8. Latin-1 maps every byte to the code
// point of the same value, so the fallback always succeeds.
func decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
