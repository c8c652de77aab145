// Package sqlite provides a persistent vector store backed by SQLite.
// Embeddings are stored as little-endian float32 blobs and ranked in
// process; no vector extension is required.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docqa/docqa/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.VectorStore = (*Store)(nil)
	_ driven.HashChecker = (*Store)(nil)
)

// filterColumns maps the public filter field names to table columns.
// A filter on any other field matches nothing.
var filterColumns = map[string]string{
	domain.FilterDocumentID: "document_id",
	domain.FilterChunkIndex: "CAST(chunk_index AS TEXT)",
	domain.FilterFilename:   "filename",
	domain.FilterFileHash:   "file_hash",
	domain.FilterSourceType: "source_type",
}

// Store is a SQLite-backed implementation of driven.VectorStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite vector store at the specified data
// directory. If dataDir is empty, defaults to ~/.docqa/data/chunks.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docqa", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chunks.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// migrate applies the embedded .up.sql files newer than the recorded
// schema version, in filename order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// AddChunks persists chunks in one transaction. A chunk with an
// already stored ID replaces the stored row.
func (s *Store) AddChunks(ctx context.Context, chunks []domain.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewVectorStoreError("add", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO chunks
			(id, document_id, chunk_index, content, embedding,
			 filename, file_hash, source_type, file_size_bytes, page_count, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return domain.NewVectorStoreError("add", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		_, err := stmt.ExecContext(ctx,
			chunk.ID,
			chunk.DocumentID,
			chunk.Index,
			chunk.Content,
			float32SliceToBytes(chunk.Embedding),
			chunk.Metadata.Filename,
			chunk.Metadata.FileHash,
			string(chunk.Metadata.SourceType),
			chunk.Metadata.FileSizeBytes,
			chunk.Metadata.PageCount,
			chunk.Metadata.UploadedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return domain.NewVectorStoreError("add", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewVectorStoreError("add", err)
	}
	return nil
}

// SimilaritySearch loads the rows matching the filter and ranks them
// by cosine similarity in process. Ties keep insertion (rowid) order.
func (s *Store) SimilaritySearch(ctx context.Context, embedding []float32, k int, filter map[string]string) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	query := `
		SELECT id, document_id, chunk_index, content, embedding,
		       filename, file_hash, source_type, file_size_bytes, page_count, uploaded_at
		FROM chunks
	`
	where, args, ok := buildFilter(filter)
	if !ok {
		// Filter names a field no chunk carries.
		return nil, nil
	}
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewVectorStoreError("search", err)
	}
	defer rows.Close()

	var results []domain.RetrievedChunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, domain.NewVectorStoreError("search", err)
		}
		results = append(results, domain.RetrievedChunk{
			DocumentChunk: chunk,
			Score:         domain.CosineSimilarity(embedding, chunk.Embedding),
			Scored:        true,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewVectorStoreError("search", err)
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
func (s *Store) DeleteByDocumentID(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return domain.NewVectorStoreError("delete", err)
	}
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&count); err != nil {
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
	var exists int
	row := s.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM chunks WHERE file_hash = ?)", fileHash)
	if err := row.Scan(&exists); err != nil {
		return false, domain.NewVectorStoreError("hash lookup", err)
	}
	return exists == 1, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// buildFilter translates a metadata filter into a WHERE clause. The
// third return is false when the filter names an unknown field, which
// by contract matches nothing.
func buildFilter(filter map[string]string) (string, []any, bool) {
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
	for _, field := range fields {
		conds = append(conds, filterColumns[field]+" = ?")
		args = append(args, filter[field])
	}
	return strings.Join(conds, " AND "), args, true
}

// scanChunk reads one chunks row.
func scanChunk(rows *sql.Rows) (domain.DocumentChunk, error) {
	var (
		chunk      domain.DocumentChunk
		blob       []byte
		sourceType string
		uploadedAt sql.NullString
	)
	err := rows.Scan(
		&chunk.ID,
		&chunk.DocumentID,
		&chunk.Index,
		&chunk.Content,
		&blob,
		&chunk.Metadata.Filename,
		&chunk.Metadata.FileHash,
		&sourceType,
		&chunk.Metadata.FileSizeBytes,
		&chunk.Metadata.PageCount,
		&uploadedAt,
	)
	if err != nil {
		return domain.DocumentChunk{}, err
	}

	chunk.Embedding = bytesToFloat32Slice(blob)
	chunk.Metadata.SourceType = domain.SourceType(sourceType)
	if uploadedAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, uploadedAt.String); err == nil {
			chunk.Metadata.UploadedAt = t
		}
	}
	return chunk, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
