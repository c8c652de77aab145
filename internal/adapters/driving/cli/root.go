// Package cli implements the docqa command line interface. Commands
// are thin drivers over the core services; all pipeline behaviour
// lives behind the driving ports.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docqa/docqa/internal/adapters/driven/ai"
	configfile "github.com/docqa/docqa/internal/adapters/driven/config/file"
	"github.com/docqa/docqa/internal/core/ports/driving"
	"github.com/docqa/docqa/internal/core/services"
	"github.com/docqa/docqa/internal/loaders"
	"github.com/docqa/docqa/internal/logger"
	"github.com/docqa/docqa/internal/splitter"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
)

// Services wired by initServices; commands check for nil before use.
var (
	ingestService driving.IngestService
	askService    driving.AskService
	aiServices    *ai.InitResult
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Question answering over your documents",
	Long: `docqa ingests text, PDF and Word documents into a vector store
and answers questions grounded in their content.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "config directory (default ~/.docqa)")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices builds the full pipeline stack from configuration.
// Commands that touch documents call it on demand so that version and
// help never require a reachable provider.
func initServices(cmd *cobra.Command) error {
	if ingestService != nil {
		return nil
	}

	store, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := store.Config()

	result, err := ai.Init(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		logger.Warn("%s", warning)
	}
	aiServices = result

	split, err := newSplitter(cfg.Chunking)
	if err != nil {
		result.Close()
		aiServices = nil
		return err
	}

	registry := loaders.NewDefault()
	pipeline := services.NewIngestionPipeline(registry, split, result.EmbeddingService, result.VectorStore)

	var uploadOpts []services.UploadOption
	if cfg.Store.Deduplicate {
		uploadOpts = append(uploadOpts, services.WithDeduplication(true))
	}
	ingestService = services.NewUploadService(pipeline, result.VectorStore, uploadOpts...)

	queryPipeline := services.NewQueryPipeline(
		result.EmbeddingService,
		result.VectorStore,
		result.LLMService,
		services.WithDefaultTopK(cfg.Query.TopK),
		services.WithMaxContextLength(cfg.Query.MaxContextLength),
	)
	askService = services.NewAskService(queryPipeline)

	return nil
}

// newSplitter builds the document splitter from chunking settings.
func newSplitter(cfg configfile.ChunkingConfig) (*splitter.RecursiveSplitter, error) {
	opts := []splitter.Option{
		splitter.WithChunkSize(cfg.Size),
		splitter.WithChunkOverlap(cfg.Overlap),
	}
	if cfg.LengthFunction == configfile.LengthTokens {
		tokenOpt, err := splitter.WithTokenLength(cfg.TokenModel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tokenOpt)
	}
	return splitter.New(opts...)
}

func closeServices() {
	if aiServices != nil {
		aiServices.Close()
		aiServices = nil
	}
	ingestService = nil
	askService = nil
}
