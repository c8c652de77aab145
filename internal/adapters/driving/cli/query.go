package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driving"
	"github.com/docqa/docqa/internal/logger"
)

// roundTo trims durations for display.
const roundTo = time.Millisecond

var (
	queryTopK     int
	queryDocument string
	queryFilename string
	queryFilters  []string
	queryJSON     bool
	queryChunks   bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question over ingested documents",
	Long: `Embeds the question, retrieves the most similar chunks and
generates an answer grounded in them. Without a configured LLM the
retrieved chunks are returned without an answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (1-20, 0 = configured default)")
	queryCmd.Flags().StringVar(&queryDocument, "document", "", "restrict retrieval to one document id")
	queryCmd.Flags().StringVar(&queryFilename, "filename", "", "restrict retrieval to one source file")
	queryCmd.Flags().StringArrayVar(&queryFilters, "filter", nil, "metadata equality filter as field=value (repeatable)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the result as JSON")
	queryCmd.Flags().BoolVar(&queryChunks, "chunks", false, "print the retrieved chunks")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := initServices(cmd); err != nil {
		return err
	}

	req := driving.AskRequest{
		Query: args[0],
		TopK:  queryTopK,
	}
	filter, err := parseFilters(queryFilters)
	if err != nil {
		return err
	}
	if queryDocument != "" || queryFilename != "" || len(filter) > 0 {
		req.Filter = filter
		if req.Filter == nil {
			req.Filter = map[string]string{}
		}
		if queryDocument != "" {
			req.Filter[domain.FilterDocumentID] = queryDocument
		}
		if queryFilename != "" {
			req.Filter[domain.FilterFilename] = queryFilename
		}
	}

	result, err := askService.Ask(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	if result.Answer != "" {
		cmd.Println(result.Answer)
	}
	if !result.Success {
		cmd.Printf("\nQuery failed: %s\n", result.Err)
	}

	if len(result.Sources) > 0 {
		cmd.Println("\nSources:")
		for _, source := range result.Sources {
			cmd.Printf("  - %s\n", source)
		}
	}

	if queryChunks {
		for i, chunk := range result.Chunks {
			cmd.Printf("\n[%d] %s (%.3f)\n%s\n", i+1, chunk.Metadata.Filename, chunk.Score, chunk.Content)
		}
	}

	logger.Debug("Query took %s", result.Duration.Round(roundTo))
	return nil
}

// parseFilters turns repeated field=value flags into a metadata filter,
// rejecting fields retrieval cannot match on.
func parseFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filter := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid filter %q: expected field=value", pair)
		}
		known := false
		for _, name := range domain.FilterFields() {
			if field == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown filter field %q: valid fields are %s", field, strings.Join(domain.FilterFields(), ", "))
		}
		filter[field] = value
	}
	return filter, nil
}
