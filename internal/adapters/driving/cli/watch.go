package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docqa/docqa/internal/adapters/driving/watch"
	"github.com/docqa/docqa/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Ingest files as they appear in a directory",
	Long: `Watches a directory and ingests every supported file created in
it. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := initServices(cmd); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := watch.New(ingestService)
	watcher.OnResult = func(result domain.IngestResult) {
		printIngestResult(cmd, result)
	}

	cmd.Printf("Watching %s (ctrl-c to stop)\n", args[0])
	err := watcher.Run(ctx, args[0])
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
