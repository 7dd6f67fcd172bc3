// Package cli wires the cobra command tree for the gitsurfer binary.
// Services are constructed lazily on first use so commands like version
// and help work without provider credentials.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kumar8074/GitSurfer/internal/adapters/driven/ai"
	configfile "github.com/kumar8074/GitSurfer/internal/adapters/driven/config/file"
	"github.com/kumar8074/GitSurfer/internal/adapters/driven/storage/sqlite"
	"github.com/kumar8074/GitSurfer/internal/config"
	"github.com/kumar8074/GitSurfer/internal/connectors/github"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driven"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driving"
	"github.com/kumar8074/GitSurfer/internal/core/services"
	"github.com/kumar8074/GitSurfer/internal/logger"
	"github.com/kumar8074/GitSurfer/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Tests replace these; production commands wire them
// lazily through ensureServices.
var (
	assistantService driving.AssistantService
	vectorStore      driven.VectorStore
	llmService       driven.LLMService
	embeddingService driven.EmbeddingService
	appSettings      *config.Settings
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "gitsurfer",
	Short: "Research assistant for public GitHub repositories",
	Long: `GitSurfer fetches a public GitHub repository, summarizes its structure
and indexes its files into a local vector store, then answers questions
about the code with cited sources.

Running gitsurfer without a subcommand starts an interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	RunE: runAssist,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().BoolVar(&assistForce, "force", false, "re-index even when an up-to-date index exists")
	rootCmd.Flags().BoolVar(&assistPlain, "plain", false, "use the plain line-oriented prompt instead of the TUI")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// ensureServices wires the full service graph from configuration. Repeated
// calls are no-ops once wiring succeeded.
func ensureServices(cmd *cobra.Command) error {
	if assistantService != nil {
		return nil
	}

	defaults, err := configfile.LoadDefaults("")
	if err != nil {
		return err
	}
	settings, err := config.Load(defaults)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	llm, err := ai.NewValidatedLLMService(ctx, settings.LLM)
	if err != nil {
		return err
	}
	embedding, err := ai.NewValidatedEmbeddingService(ctx, settings.Embedding)
	if err != nil {
		llm.Close()
		return err
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		llm.Close()
		embedding.Close()
		return fmt.Errorf("open vector store: %w", err)
	}

	prompts, err := configfile.NewPromptStore("")
	if err != nil {
		llm.Close()
		embedding.Close()
		store.Close()
		return err
	}

	client := github.NewClient(ctx, settings.GitHubToken)
	fetcher := github.NewFetcher(client, settings.MaxFileSize)

	ch := chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	)

	summarizer := services.NewSummarizer(llm, prompts, settings.MaxRetries, settings.RetryDelay, settings.TempDir())
	embedder := services.NewEmbedder(embedding, store, ch, settings.MaxRetries, settings.RetryDelay)
	researcher := services.NewResearcher(
		llm, embedding, store, prompts,
		settings.TopK, settings.HistoryWindow, settings.MaxRetries, settings.RetryDelay,
	)

	appSettings = settings
	vectorStore = store
	llmService = llm
	embeddingService = embedding
	assistantService = services.NewAssistant(fetcher, summarizer, embedder, researcher, store, embedding)

	logger.Debug("Services wired: llm=%s/%s embedding=%s/%s data=%s",
		settings.LLM.Provider, settings.LLM.Model,
		settings.Embedding.Provider, settings.Embedding.Model, settings.DataDir)
	return nil
}

// ensureStore wires only the vector store, for commands that read the index
// without needing provider credentials.
func ensureStore() error {
	if vectorStore != nil {
		return nil
	}

	defaults, err := configfile.LoadDefaults("")
	if err != nil {
		return err
	}
	dataDir, err := config.ResolveDataDir(defaults.DataDir)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	vectorStore = store
	return nil
}

func closeServices() {
	if llmService != nil {
		if err := llmService.Close(); err != nil {
			logger.Warn("Closing LLM service: %v", err)
		}
	}
	if embeddingService != nil {
		if err := embeddingService.Close(); err != nil {
			logger.Warn("Closing embedding service: %v", err)
		}
	}
	if vectorStore != nil {
		if err := vectorStore.Close(); err != nil {
			logger.Warn("Closing vector store: %v", err)
		}
	}
}
