// Package memory provides an in-memory vector store. The zero setup
// makes it the default backend; contents do not survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.VectorStore = (*Store)(nil)
	_ driven.HashChecker = (*Store)(nil)
)

// Store is an in-memory implementation of driven.VectorStore. Chunks
// are kept in insertion order so equal-score search results rank
// first-stored first.
type Store struct {
	mu     sync.RWMutex
	chunks []domain.DocumentChunk
	byID   map[string]struct{}
}

// New creates an empty in-memory vector store.
func New() *Store {
	return &Store{
		byID: make(map[string]struct{}),
	}
}

// AddChunks appends chunks in the given order. A chunk with an already
// stored ID replaces the stored copy in place.
func (s *Store) AddChunks(_ context.Context, chunks []domain.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		if _, ok := s.byID[chunk.ID]; ok {
			for i := range s.chunks {
				if s.chunks[i].ID == chunk.ID {
					s.chunks[i] = chunk
					break
				}
			}
			continue
		}
		s.chunks = append(s.chunks, chunk)
		s.byID[chunk.ID] = struct{}{}
	}
	return nil
}

// SimilaritySearch ranks stored chunks by cosine similarity to the
// query vector. Ties keep insertion order.
func (s *Store) SimilaritySearch(_ context.Context, embedding []float32, k int, filter map[string]string) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []domain.RetrievedChunk
	for i := range s.chunks {
		chunk := s.chunks[i]
		if !chunk.MatchesFilter(filter) {
			continue
		}
		results = append(results, domain.RetrievedChunk{
			DocumentChunk: chunk,
			Score:         domain.CosineSimilarity(embedding, chunk.Embedding),
			Scored:        true,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// DeleteByDocumentID removes every chunk of the document.
func (s *Store) DeleteByDocumentID(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.chunks[:0]
	for _, chunk := range s.chunks {
		if chunk.DocumentID == documentID {
			delete(s.byID, chunk.ID)
			continue
		}
		kept = append(kept, chunk)
	}
	s.chunks = kept
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// HasFileHash reports whether any stored chunk came from a file with
// the given content hash.
func (s *Store) HasFileHash(_ context.Context, fileHash string) (bool, error) {
	if fileHash == "" {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.chunks {
		if s.chunks[i].Metadata.FileHash == fileHash {
			return true, nil
		}
	}
	return false, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
