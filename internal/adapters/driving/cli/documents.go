package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage stored documents",
}

var documentsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored chunks",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsCount,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove every chunk of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

func init() {
	documentsCmd.AddCommand(documentsCountCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsCount(cmd *cobra.Command, _ []string) error {
	if err := initServices(cmd); err != nil {
		return err
	}

	count, err := ingestService.ChunkCount(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}
	cmd.Printf("%d chunks stored\n", count)
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if err := initServices(cmd); err != nil {
		return err
	}

	documentID := args[0]
	if err := ingestService.DeleteDocument(cmd.Context(), documentID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	cmd.Printf("Deleted document %s\n", documentID)
	return nil
}
