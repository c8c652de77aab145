package pgvector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/docqa/internal/core/domain"
)

func TestNewStore_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing connection string", func(t *testing.T) {
		_, err := NewStore(ctx, Config{Dimensions: 768})
		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("missing dimensions", func(t *testing.T) {
		_, err := NewStore(ctx, Config{ConnString: "postgres://localhost/docqa"})
		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("malformed connection string", func(t *testing.T) {
		_, err := NewStore(ctx, Config{ConnString: "://///", Dimensions: 768})
		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestBuildFilter(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		where, args, ok := buildFilter(nil, 2)
		assert.True(t, ok)
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("known fields in stable order", func(t *testing.T) {
		where, args, ok := buildFilter(map[string]string{
			domain.FilterFilename:   "a.txt",
			domain.FilterDocumentID: "d1",
		}, 2)
		require.True(t, ok)
		assert.Equal(t, "document_id = $2 AND filename = $3", where)
		assert.Equal(t, []any{"d1", "a.txt"}, args)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, _, ok := buildFilter(map[string]string{"mystery": "x"}, 2)
		assert.False(t, ok)
	})
}
