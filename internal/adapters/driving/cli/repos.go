package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
)

var reposJSON bool

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List indexed repositories",
	Long:  `Lists the repositories indexed in the local vector store.`,
	Args:  cobra.NoArgs,
	RunE:  runRepos,
}

var reposDeleteCmd = &cobra.Command{
	Use:   "delete [owner/repo@branch]",
	Short: "Delete an indexed repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runReposDelete,
}

func init() {
	reposCmd.Flags().BoolVar(&reposJSON, "json", false, "output as JSON")
	reposCmd.AddCommand(reposDeleteCmd)
	rootCmd.AddCommand(reposCmd)
}

func runRepos(cmd *cobra.Command, _ []string) error {
	if err := ensureStore(); err != nil {
		return err
	}

	namespaces, err := vectorStore.ListNamespaces(cmd.Context())
	if err != nil {
		return fmt.Errorf("list repositories: %w", err)
	}

	if reposJSON {
		data, err := json.MarshalIndent(namespaces, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal repositories: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(namespaces) == 0 {
		cmd.Println("No repositories indexed.")
		return nil
	}

	cmd.Println("Indexed repositories:")
	for _, ns := range namespaces {
		cmd.Printf("  %s/%s@%s  %d chunks  %s/%s  indexed %s\n",
			ns.Owner, ns.Repo, ns.Branch, ns.ChunkCount,
			ns.EmbeddingProvider, ns.EmbeddingModel,
			ns.IndexedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runReposDelete(cmd *cobra.Command, args []string) error {
	if err := ensureStore(); err != nil {
		return err
	}

	id, err := namespaceIDFromRef(args[0])
	if err != nil {
		return err
	}
	if err := vectorStore.DeleteNamespace(cmd.Context(), id); err != nil {
		return fmt.Errorf("delete %s: %w", args[0], err)
	}
	cmd.Printf("Deleted index for %s.\n", args[0])
	return nil
}

// namespaceIDFromRef maps a repository reference (a URL, owner/repo, or the
// owner/repo@branch form printed by repos) to a namespace ID.
func namespaceIDFromRef(ref string) (string, error) {
	base, branch, hasBranch := strings.Cut(ref, "@")
	repo, err := domain.ParseRepositoryURL(base)
	if err != nil {
		return "", err
	}
	if hasBranch {
		repo.Branch = branch
	}
	return repo.NamespaceID(), nil
}
