// Package pgvector provides a vector store backed by PostgreSQL with
// the pgvector extension. Similarity ranking runs in the database via
// the cosine distance operator.
package pgvector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.VectorStore = (*Store)(nil)
	_ driven.HashChecker = (*Store)(nil)
)

// filterColumns maps the public filter field names to table columns.
var filterColumns = map[string]string{
	domain.FilterDocumentID: "document_id",
	domain.FilterChunkIndex: "chunk_index::text",
	domain.FilterFilename:   "filename",
	domain.FilterFileHash:   "file_hash",
	domain.FilterSourceType: "source_type",
}

// Config holds configuration for the PostgreSQL vector store.
type Config struct {
	// ConnString is the PostgreSQL connection string (required).
	ConnString string

	// Dimensions is the embedding vector size the table is created
	// with (required; must match the embedding service).
	Dimensions int

	// MaxConns caps the connection pool size (default: 10).
	MaxConns int32
}

// Store is a PostgreSQL implementation of driven.VectorStore.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to PostgreSQL, verifies connectivity and ensures
// the pgvector extension and chunks table exist.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.ConnString == "" {
		return nil, domain.NewConfigurationError("pgvector connection string is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, domain.NewConfigurationError("pgvector dimensions must be positive")
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 10
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, domain.NewConfigurationError(fmt.Sprintf("invalid pgvector connection string: %v", err))
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, domain.NewVectorStoreError("connect", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, domain.NewVectorStoreError("connect", err)
	}

	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx, cfg.Dimensions); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// ensureSchema creates the extension and chunks table when missing.
func (s *Store) ensureSchema(ctx context.Context, dimensions int) error {
	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			id              TEXT PRIMARY KEY,
			document_id     TEXT NOT NULL,
			chunk_index     INTEGER NOT NULL,
			content         TEXT NOT NULL,
			embedding       vector(%d),
			filename        TEXT NOT NULL DEFAULT '',
			file_hash       TEXT NOT NULL DEFAULT '',
			source_type     TEXT NOT NULL DEFAULT '',
			file_size_bytes BIGINT NOT NULL DEFAULT 0,
			page_count      INTEGER NOT NULL DEFAULT 0,
			uploaded_at     TIMESTAMPTZ,
			inserted_at     BIGSERIAL
		)`, dimensions),
		"CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id)",
		"CREATE INDEX IF NOT EXISTS idx_chunks_file_hash ON chunks(file_hash)",
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return domain.NewVectorStoreError("schema", err)
		}
	}
	return nil
}

// AddChunks persists chunks in one batch. A chunk with an already
// stored ID replaces the stored row.
func (s *Store) AddChunks(ctx context.Context, chunks []domain.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(
			`INSERT INTO chunks
				(id, document_id, chunk_index, content, embedding,
				 filename, file_hash, source_type, file_size_bytes, page_count, uploaded_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 ON CONFLICT (id) DO UPDATE SET
				document_id = EXCLUDED.document_id,
				chunk_index = EXCLUDED.chunk_index,
				content = EXCLUDED.content,
				embedding = EXCLUDED.embedding,
				filename = EXCLUDED.filename,
				file_hash = EXCLUDED.file_hash,
				source_type = EXCLUDED.source_type,
				file_size_bytes = EXCLUDED.file_size_bytes,
				page_count = EXCLUDED.page_count,
				uploaded_at = EXCLUDED.uploaded_at`,
			chunk.ID,
			chunk.DocumentID,
			chunk.Index,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding),
			chunk.Metadata.Filename,
			chunk.Metadata.FileHash,
			string(chunk.Metadata.SourceType),
			chunk.Metadata.FileSizeBytes,
			chunk.Metadata.PageCount,
			chunk.Metadata.UploadedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range chunks {
		if _, err := br.Exec(); err != nil {
			return domain.NewVectorStoreError("add", err)
		}
	}
	return nil
}

// SimilaritySearch ranks chunks by cosine similarity in the database.
// Equal-score ties keep insertion order via the inserted_at sequence.
func (s *Store) SimilaritySearch(ctx context.Context, embedding []float32, k int, filter map[string]string) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	where, args, ok := buildFilter(filter, 2)
	if !ok {
		return nil, nil
	}

	query := `
		SELECT id, document_id, chunk_index, content, embedding,
		       filename, file_hash, source_type, file_size_bytes, page_count, uploaded_at,
		       1 - (embedding <=> $1) AS score
		FROM chunks
		WHERE embedding IS NOT NULL`
	if where != "" {
		query += " AND " + where
	}
	query += fmt.Sprintf(" ORDER BY embedding <=> $1, inserted_at LIMIT %d", k)

	queryArgs := append([]any{pgvector.NewVector(embedding)}, args...)

	rows, err := s.pool.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, domain.NewVectorStoreError("search", err)
	}
	defer rows.Close()

	var results []domain.RetrievedChunk
	for rows.Next() {
		var (
			chunk      domain.DocumentChunk
			vec        pgvector.Vector
			sourceType string
			uploadedAt *time.Time
			score      float64
		)
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.Index,
			&chunk.Content,
			&vec,
			&chunk.Metadata.Filename,
			&chunk.Metadata.FileHash,
			&sourceType,
			&chunk.Metadata.FileSizeBytes,
			&chunk.Metadata.PageCount,
			&uploadedAt,
			&score,
		)
		if err != nil {
			return nil, domain.NewVectorStoreError("search", err)
		}
		chunk.Embedding = vec.Slice()
		chunk.Metadata.SourceType = domain.SourceType(sourceType)
		if uploadedAt != nil {
			chunk.Metadata.UploadedAt = *uploadedAt
		}
		results = append(results, domain.RetrievedChunk{
			DocumentChunk: chunk,
			Score:         score,
			Scored:        true,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewVectorStoreError("search", err)
	}
	return results, nil
}

// DeleteByDocumentID removes every chunk of the document.
func (s *Store) DeleteByDocumentID(ctx context.Context, documentID string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM chunks WHERE document_id = $1", documentID)
	if err != nil {
		return domain.NewVectorStoreError("delete", err)
	}
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count)
	if err != nil {
		return 0, domain.NewVectorStoreError("count", err)
	}
	return count, nil
}

// HasFileHash reports whether any stored chunk came from a file with
// the given content hash.
func (s *Store) HasFileHash(ctx context.Context, fileHash string) (bool, error) {
	if fileHash == "" {
		return false, nil
	}
	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM chunks WHERE file_hash = $1)", fileHash).Scan(&exists)
	if err != nil {
		return false, domain.NewVectorStoreError("hash lookup", err)
	}
	return exists, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// buildFilter translates a metadata filter into a WHERE fragment with
// placeholders starting at argOffset. The third return is false when
// the filter names an unknown field, which by contract matches nothing.
func buildFilter(filter map[string]string, argOffset int) (string, []any, bool) {
	if len(filter) == 0 {
		return "", nil, true
	}

	fields := make([]string, 0, len(filter))
	for field := range filter {
		if _, ok := filterColumns[field]; !ok {
			return "", nil, false
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	conds := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for i, field := range fields {
		conds = append(conds, fmt.Sprintf("%s = $%d", filterColumns[field], argOffset+i))
		args = append(args, filter[field])
	}
	return strings.Join(conds, " AND "), args, true
}
