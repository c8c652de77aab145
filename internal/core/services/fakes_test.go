package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
)

// fakeLoader serves canned documents keyed by path base name.
type fakeLoader struct {
	docs map[string]*domain.Document
	errs map[string]error
}

func (l *fakeLoader) Load(_ context.Context, path string) (*domain.Document, error) {
	name := base(path)
	if err, ok := l.errs[name]; ok {
		return nil, err
	}
	if doc, ok := l.docs[name]; ok {
		copied := *doc
		return &copied, nil
	}
	return nil, domain.NewProcessingError(name, "file not found", errors.New("missing"))
}

func (l *fakeLoader) SourceType() domain.SourceType {
	return domain.SourceTypeTXT
}

func base(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// fakeRegistry hands every supported file to one loader.
type fakeRegistry struct {
	loader driven.Loader
}

func (r *fakeRegistry) ForFile(path string) (driven.Loader, error) {
	if _, err := domain.SourceTypeFromPath(path); err != nil {
		return nil, err
	}
	return r.loader, nil
}

// fakeSplitter cuts content on "|" so tests control chunk boundaries.
type fakeSplitter struct {
	err error
}

func (s *fakeSplitter) Split(_ context.Context, doc *domain.Document) ([]domain.DocumentChunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	var chunks []domain.DocumentChunk
	for _, part := range strings.Split(doc.Content, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, domain.DocumentChunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    part,
			Index:      len(chunks),
			Metadata:   doc.Metadata,
		})
	}
	return chunks, nil
}

// fakeEmbedder returns a fixed vector per text, in input order. Set
// vectorFor to derive a distinct vector from each text.
type fakeEmbedder struct {
	dimensions int
	err        error
	calls      int
	vectorFor  func(text string) []float32
}

func (e *fakeEmbedder) vector(text string) []float32 {
	if e.vectorFor != nil {
		return e.vectorFor(text)
	}
	dims := e.dimensions
	if dims == 0 {
		dims = 2
	}
	vec := make([]float32, dims)
	vec[0] = 1
	return vec
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.vector(text), nil
}

func (e *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vector(texts[i])
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int {
	if e.dimensions == 0 {
		return 2
	}
	return e.dimensions
}

func (e *fakeEmbedder) ModelName() string            { return "fake-embedder" }
func (e *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (e *fakeEmbedder) Close() error                 { return nil }

// failingStore wraps a VectorStore and fails selected operations.
type failingStore struct {
	driven.VectorStore
	addErr    error
	searchErr error
}

func (s *failingStore) AddChunks(ctx context.Context, chunks []domain.DocumentChunk) error {
	if s.addErr != nil {
		return s.addErr
	}
	return s.VectorStore.AddChunks(ctx, chunks)
}

func (s *failingStore) SimilaritySearch(ctx context.Context, embedding []float32, k int, filter map[string]string) ([]domain.RetrievedChunk, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.VectorStore.SimilaritySearch(ctx, embedding, k, filter)
}

// fakeLLM records the prompts it receives.
type fakeLLM struct {
	answer   string
	err      error
	messages []driven.ChatMessage
}

func (l *fakeLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return l.Chat(ctx, []driven.ChatMessage{{Role: "user", Content: prompt}}, driven.ChatOptions{})
}

func (l *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	l.messages = messages
	if l.err != nil {
		return "", l.err
	}
	if l.answer == "" {
		return "a generated answer", nil
	}
	return l.answer, nil
}

func (l *fakeLLM) ModelName() string            { return "fake-llm" }
func (l *fakeLLM) Ping(_ context.Context) error { return nil }
func (l *fakeLLM) Close() error                 { return nil }

// lastUserPrompt returns the content of the final user message.
func (l *fakeLLM) lastUserPrompt() string {
	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].Role == "user" {
			return l.messages[i].Content
		}
	}
	return ""
}

// textDoc builds a loadable document whose chunks are the "|" parts.
func textDoc(filename, content string) *domain.Document {
	return &domain.Document{
		ID:      uuid.New().String(),
		Content: content,
		Metadata: domain.DocumentMetadata{
			Filename:      filename,
			FileSizeBytes: int64(len(content)),
			FileHash:      fmt.Sprintf("hash-%s", filename),
			SourceType:    domain.SourceTypeTXT,
		},
	}
}
