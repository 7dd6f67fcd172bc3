package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kumar8074/GitSurfer/internal/core/ports/driving"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index [repo-url]",
	Short: "Fetch and index a repository without starting a session",
	Long: `Fetches the repository, summarizes its structure and indexes its files
into the local vector store, then exits. Later sessions and ask commands
reuse the index.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "re-index even when an up-to-date index exists")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	result, err := assistantService.LoadRepository(cmd.Context(), args[0], driving.LoadOptions{ForceReindex: indexForce})
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	if result.Reused {
		cmd.Printf("Index for %s is up to date (%d chunks).\n", result.Repository, result.ChunksIndexed)
		return nil
	}
	cmd.Printf("Indexed %s (%d chunks).\n", result.Repository, result.ChunksIndexed)
	if result.Summary != "" {
		cmd.Printf("\n%s\n", result.Summary)
	}
	return nil
}
