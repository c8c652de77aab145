package cli

import (
	"github.com/spf13/cobra"

	"github.com/docqa/docqa/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest documents into the vector store",
	Long: `Loads, splits, embeds and stores the given files. Supported
formats: .txt, .pdf, .docx. A file that fails to process is reported
and skipped; the rest of the batch continues.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := initServices(cmd); err != nil {
		return err
	}

	report := ingestService.ProcessFiles(cmd.Context(), args)

	for _, detail := range report.Details {
		printIngestResult(cmd, detail)
	}
	cmd.Println()
	cmd.Println(report.Message)
	if report.ChunksCreated > 0 {
		cmd.Printf("Chunks stored: %d\n", report.ChunksCreated)
	}
	return nil
}

func printIngestResult(cmd *cobra.Command, result domain.IngestResult) {
	switch {
	case result.Success && result.Note != "":
		cmd.Printf("  skip %s: %s\n", result.Filename, result.Note)
	case result.Success:
		cmd.Printf("  ok   %s (%d chunks, %s)\n", result.Filename, result.ChunksCreated, result.Duration.Round(roundTo))
	default:
		cmd.Printf("  fail %s: %s\n", result.Filename, result.Err)
	}
}
