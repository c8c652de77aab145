// Package splitter provides recursive character text splitting.
//
// Text is split on a separator hierarchy from coarse (paragraph break)
// to fine (single character), then the resulting pieces are greedily
// packed into chunks bounded by a size limit, with a configurable
// overlap carried between consecutive chunks.
package splitter

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
)

// Ensure RecursiveSplitter implements the interface.
var _ driven.Splitter = (*RecursiveSplitter)(nil)

// DefaultChunkSize is the default maximum chunk length in characters.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of characters shared
// between consecutive chunks.
const DefaultChunkOverlap = 200

// DefaultSeparators is the separator hierarchy tried from coarse to
// fine. The empty string means hard character splitting and always
// terminates the recursion.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// LengthFunc measures text length in configurable units (characters by
// default, tokens with WithTokenLength).
type LengthFunc func(string) int

// RecursiveSplitter splits document content on a separator hierarchy.
// It implements the Splitter interface and is pure: the same document
// and configuration always yield the same chunks.
type RecursiveSplitter struct {
	chunkSize     int
	chunkOverlap  int
	separators    []string
	keepSeparator bool
	length        LengthFunc
}

// Option configures the splitter.
type Option func(*RecursiveSplitter)

// WithChunkSize sets the maximum chunk length.
func WithChunkSize(size int) Option {
	return func(s *RecursiveSplitter) {
		s.chunkSize = size
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks.
func WithChunkOverlap(overlap int) Option {
	return func(s *RecursiveSplitter) {
		s.chunkOverlap = overlap
	}
}

// WithSeparators replaces the separator hierarchy.
func WithSeparators(separators []string) Option {
	return func(s *RecursiveSplitter) {
		s.separators = separators
	}
}

// WithKeepSeparator controls whether separators stay in chunk content.
func WithKeepSeparator(keep bool) Option {
	return func(s *RecursiveSplitter) {
		s.keepSeparator = keep
	}
}

// WithLengthFunc replaces the length measure.
func WithLengthFunc(fn LengthFunc) Option {
	return func(s *RecursiveSplitter) {
		s.length = fn
	}
}

// New creates a recursive splitter. Configuration is validated eagerly:
// chunk size must be positive and overlap strictly smaller than chunk
// size.
func New(opts ...Option) (*RecursiveSplitter, error) {
	s := &RecursiveSplitter{
		chunkSize:     DefaultChunkSize,
		chunkOverlap:  DefaultChunkOverlap,
		separators:    DefaultSeparators,
		keepSeparator: true,
		length:        runeLength,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.chunkSize <= 0 {
		return nil, domain.NewConfigurationError("chunk_size must be positive")
	}
	if s.chunkOverlap < 0 {
		return nil, domain.NewConfigurationError("chunk_overlap must not be negative")
	}
	if s.chunkOverlap >= s.chunkSize {
		return nil, domain.NewConfigurationError("chunk_overlap must be less than chunk_size")
	}
	if len(s.separators) == 0 {
		s.separators = DefaultSeparators
	}

	return s, nil
}

// Split produces the ordered chunk sequence for a document. Chunk
// indices are contiguous 0..n-1 over the emitted chunks; whitespace-only
// chunks are dropped before indices are assigned.
func (s *RecursiveSplitter) Split(_ context.Context, doc *domain.Document) ([]domain.DocumentChunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	pieces := s.splitText(doc.Content, s.separators)
	texts := s.pack(pieces)

	chunks := make([]domain.DocumentChunk, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		chunks = append(chunks, domain.DocumentChunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    text,
			Index:      len(chunks),
			Metadata:   doc.Metadata,
		})
	}

	return chunks, nil
}

// splitText reduces text to atomic pieces no longer than chunkSize,
// descending the separator hierarchy only for pieces that are still too
// large. Piece order follows source order.
func (s *RecursiveSplitter) splitText(text string, separators []string) []string {
	if text == "" {
		return nil
	}
	if s.length(text) <= s.chunkSize {
		return []string{text}
	}
	if len(separators) == 0 {
		return s.hardSplit(text)
	}

	sep := separators[0]
	rest := separators[1:]

	if sep == "" {
		return s.hardSplit(text)
	}

	parts := splitOnSeparator(text, sep, s.keepSeparator)
	if len(parts) <= 1 {
		// Separator absent; try the next finer one.
		return s.splitText(text, rest)
	}

	var pieces []string
	for _, part := range parts {
		if s.length(part) <= s.chunkSize {
			pieces = append(pieces, part)
		} else {
			pieces = append(pieces, s.splitText(part, rest)...)
		}
	}
	return pieces
}

// pack greedily accumulates pieces into chunks. When a piece would push
// the current chunk past chunkSize, the chunk is closed and the next
// one starts with the last chunkOverlap characters of its tail, taken
// verbatim from the accumulated text rather than re-derived.
func (s *RecursiveSplitter) pack(pieces []string) []string {
	var out []string
	var cur strings.Builder
	curLen := 0

	for _, piece := range pieces {
		pieceLen := s.length(piece)

		if curLen > 0 && curLen+pieceLen > s.chunkSize {
			chunk := cur.String()
			out = append(out, chunk)

			tail := tailRunes(chunk, s.chunkOverlap)
			tailLen := s.length(tail)
			if tailLen+pieceLen > s.chunkSize {
				// Overlap would not leave room for the piece itself.
				tail = ""
				tailLen = 0
			}

			cur.Reset()
			cur.WriteString(tail)
			curLen = tailLen
		}

		cur.WriteString(piece)
		curLen += pieceLen
	}

	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// hardSplit cuts text into chunkSize-rune slices. This is the fallback
// that always terminates.
func (s *RecursiveSplitter) hardSplit(text string) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// splitOnSeparator splits text on sep. With keep, separators remain
// attached to the preceding piece so that concatenating the pieces
// reproduces the input exactly.
func splitOnSeparator(text, sep string, keep bool) []string {
	var parts []string
	if keep {
		parts = strings.SplitAfter(text, sep)
	} else {
		parts = strings.Split(text, sep)
	}

	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// tailRunes returns the last n runes of text.
func tailRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}

// runeLength measures length in characters.
func runeLength(text string) int {
	return len([]rune(text))
}
