package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/docqa/internal/core/domain"
)

func TestLoad_FileNotFound(t *testing.T) {
	loader := New()

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)

	var procErr *domain.ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "missing.pdf", procErr.Filename)
}

func TestLoad_InvalidPDF(t *testing.T) {
	loader := New()

	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o600))

	_, err := loader.Load(context.Background(), path)
	require.Error(t, err)

	var procErr *domain.ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "broken.pdf", procErr.Filename)
}

func TestSourceType(t *testing.T) {
	assert.Equal(t, domain.SourceTypePDF, New().SourceType())
}
