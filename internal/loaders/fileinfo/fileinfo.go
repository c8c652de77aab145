// Package fileinfo reads files for the document loaders and fills in
// the metadata every format shares: filename, size, content hash and
// upload time.
package fileinfo

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/docqa/docqa/internal/core/domain"
)

// Read loads the raw bytes at path and builds the common metadata.
// The caller fills in SourceType and any format-specific fields.
//
// A missing path surfaces as a ProcessingError wrapping fs.ErrNotExist;
// a directory surfaces as a ProcessingError wrapping ErrInvalidInput.
func Read(path string) ([]byte, domain.DocumentMetadata, error) {
	filename := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.DocumentMetadata{}, domain.NewProcessingError(filename, "file not found", fs.ErrNotExist)
		}
		return nil, domain.DocumentMetadata{}, domain.NewProcessingError(filename, "stat failed", err)
	}
	if info.IsDir() {
		return nil, domain.DocumentMetadata{}, domain.NewProcessingError(filename, "not a regular file", domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.DocumentMetadata{}, domain.NewProcessingError(filename, "read failed", err)
	}

	sum := sha256.Sum256(data)

	meta := domain.DocumentMetadata{
		Filename:      filename,
		FileSizeBytes: int64(len(data)),
		FileHash:      hex.EncodeToString(sum[:]),
		UploadedAt:    time.Now(),
	}

	return data, meta, nil
}

// Hash returns the SHA-256 hex digest of data. It is the same digest
// Read stores in FileHash, exposed for de-duplication checks that run
// before a full load.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
