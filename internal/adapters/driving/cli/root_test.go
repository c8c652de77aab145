package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configfile "github.com/docqa/docqa/internal/adapters/driven/config/file"
	"github.com/docqa/docqa/internal/core/domain"
)

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"ingest", "query", "watch", "documents", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestIngestCmd_RequiresArgs(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	assert.Error(t, err)
}

func TestParseFilters(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		filter, err := parseFilters(nil)
		require.NoError(t, err)
		assert.Nil(t, filter)
	})

	t.Run("valid pairs", func(t *testing.T) {
		filter, err := parseFilters([]string{
			domain.FilterSourceType + "=pdf",
			domain.FilterFilename + "=report.pdf",
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			domain.FilterSourceType: "pdf",
			domain.FilterFilename:   "report.pdf",
		}, filter)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := parseFilters([]string{"author=smith"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown filter field")
		assert.Contains(t, err.Error(), domain.FilterDocumentID)
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := parseFilters([]string{"filename"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected field=value")
	})
}

func TestQueryCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query", "one", "two"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	assert.Error(t, err)
}

func TestPrintIngestResult(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	printIngestResult(rootCmd, domain.IngestResult{Filename: "a.txt", Success: true, ChunksCreated: 3})
	printIngestResult(rootCmd, domain.IngestResult{Filename: "b.txt", Err: "Loading failed: corrupt"})
	printIngestResult(rootCmd, domain.IngestResult{Filename: "c.txt", Success: true, Note: "duplicate: identical file content already ingested"})

	out := buf.String()
	assert.Contains(t, out, "ok   a.txt (3 chunks")
	assert.Contains(t, out, "fail b.txt: Loading failed: corrupt")
	assert.Contains(t, out, "skip c.txt: duplicate")
}

func TestNewSplitter(t *testing.T) {
	t.Run("character lengths", func(t *testing.T) {
		split, err := newSplitter(configfile.ChunkingConfig{
			Size:           500,
			Overlap:        50,
			LengthFunction: configfile.LengthCharacters,
		})
		require.NoError(t, err)
		assert.NotNil(t, split)
	})

	t.Run("invalid overlap", func(t *testing.T) {
		_, err := newSplitter(configfile.ChunkingConfig{
			Size:           100,
			Overlap:        100,
			LengthFunction: configfile.LengthCharacters,
		})
		assert.Error(t, err)
	})
}
