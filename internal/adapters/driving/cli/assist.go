package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kumar8074/GitSurfer/internal/adapters/driving/tui"
	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driving"
)

var (
	assistForce bool
	assistPlain bool
)

var assistCmd = &cobra.Command{
	Use:   "assist",
	Short: "Start an interactive research session",
	Long: `Starts an interactive session: paste a repository URL, wait for the
repository to be fetched, summarized and indexed, then ask questions
about the code. Type "exit" or "quit" to leave.

A chat TUI is used when stdout is a terminal; pass --plain for the
line-oriented prompt loop.`,
	Args: cobra.NoArgs,
	RunE: runAssist,
}

func init() {
	assistCmd.Flags().BoolVar(&assistForce, "force", false, "re-index even when an up-to-date index exists")
	assistCmd.Flags().BoolVar(&assistPlain, "plain", false, "use the plain line-oriented prompt instead of the TUI")
	rootCmd.AddCommand(assistCmd)
}

func runAssist(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	if !assistPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		return runTUISession(cmd.Context(), assistantService, assistForce)
	}
	return runPlainSession(cmd.Context(), assistantService, cmd.InOrStdin(), cmd.OutOrStdout(), assistForce)
}

func runTUISession(ctx context.Context, assistant driving.AssistantService, force bool) error {
	model := tui.New(ctx, assistant, force)
	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.FatalErr() != nil {
		return m.FatalErr()
	}
	return nil
}

// runPlainSession drives the session over a line-oriented prompt loop.
// Recoverable errors are reported and the loop continues; an unrecoverable
// error ends the session with a non-nil return.
func runPlainSession(ctx context.Context, assistant driving.AssistantService, in io.Reader, out io.Writer, force bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		prompt := "you> "
		if assistant.State() == domain.StateAwaitingRepoURL {
			prompt = "repo url> "
		}
		fmt.Fprint(out, prompt)

		if !scanner.Scan() {
			_ = assistant.End()
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			_ = assistant.End()
			fmt.Fprintln(out, "Bye.")
			return nil
		}

		var err error
		switch assistant.State() {
		case domain.StateAwaitingRepoURL:
			err = loadAndReport(ctx, assistant, out, line, force)
		case domain.StateReady:
			err = askAndReport(ctx, assistant, out, line)
		default:
			fmt.Fprintf(out, "error: session is %s, input ignored\n", assistant.State())
			continue
		}

		if err != nil {
			if !domain.IsRecoverable(err) {
				return err
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func loadAndReport(ctx context.Context, assistant driving.AssistantService, out io.Writer, url string, force bool) error {
	fmt.Fprintln(out, "Loading repository, this may take a while...")
	result, err := assistant.LoadRepository(ctx, url, driving.LoadOptions{ForceReindex: force})
	if err != nil {
		return err
	}

	if result.Reused {
		fmt.Fprintf(out, "Reusing existing index for %s (%d chunks).\n", result.Repository, result.ChunksIndexed)
	} else {
		fmt.Fprintf(out, "Indexed %s (%d chunks).\n", result.Repository, result.ChunksIndexed)
		if result.Summary != "" {
			fmt.Fprintf(out, "\n%s\n\n", result.Summary)
		}
	}
	fmt.Fprintln(out, "Ready. Ask a question about the repository.")
	return nil
}

func askAndReport(ctx context.Context, assistant driving.AssistantService, out io.Writer, question string) error {
	answer, err := assistant.Ask(ctx, question)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s\n", answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Fprintf(out, "sources: %s\n", strings.Join(answer.Sources, ", "))
	}
	fmt.Fprintln(out)
	return nil
}
