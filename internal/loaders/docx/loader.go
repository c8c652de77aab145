// Package docx loads Word documents in OOXML format.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
	"github.com/docqa/docqa/internal/loaders/fileinfo"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles DOCX files.
type Loader struct{}

// New creates a new DOCX loader.
func New() *Loader {
	return &Loader{}
}

// SourceType returns the format this loader handles.
func (l *Loader) SourceType() domain.SourceType {
	return domain.SourceTypeDOCX
}

// Load extracts paragraph text from word/document.xml inside the DOCX
// ZIP archive. Empty paragraphs are skipped and the rest are joined
// with a blank line.
func (l *Loader) Load(_ context.Context, path string) (*domain.Document, error) {
	data, meta, err := fileinfo.Read(path)
	if err != nil {
		return nil, err
	}
	meta.SourceType = domain.SourceTypeDOCX

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, domain.NewProcessingError(meta.Filename, "invalid DOCX file", err)
	}

	content, err := extractDocumentText(reader)
	if err != nil {
		return nil, domain.NewProcessingError(meta.Filename, "text extraction failed", err)
	}

	return &domain.Document{
		ID:       uuid.New().String(),
		Content:  content,
		Metadata: meta,
	}, nil
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", err
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}

		return parseDocumentXML(content)
	}
	return "", nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts paragraph text from the document XML.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", err
	}

	var paragraphs []string
	for _, para := range doc.Body.Paragraphs {
		var text strings.Builder
		for _, run := range para.Runs {
			for _, t := range run.Text {
				text.WriteString(t.Content)
			}
		}
		if s := text.String(); strings.TrimSpace(s) != "" {
			paragraphs = append(paragraphs, s)
		}
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n\n")), nil
}
