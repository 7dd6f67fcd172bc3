package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kumar8074/GitSurfer/internal/core/ports/driving"
)

var askCmd = &cobra.Command{
	Use:   "ask [repo-url] [question]",
	Short: "Ask a single question about a repository",
	Long: `Answers one question about the repository and exits. The repository is
indexed first when no up-to-date index exists.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	if _, err := assistantService.LoadRepository(cmd.Context(), args[0], driving.LoadOptions{}); err != nil {
		return fmt.Errorf("load repository: %w", err)
	}

	answer, err := assistantService.Ask(cmd.Context(), args[1])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Printf("\nsources: %s\n", strings.Join(answer.Sources, ", "))
	}
	return nil
}
