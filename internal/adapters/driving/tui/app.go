package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driving"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// loadResultMsg is delivered when LoadRepository finishes.
type loadResultMsg struct {
	result *driving.LoadResult
	err    error
}

// answerMsg is delivered when Ask finishes.
type answerMsg struct {
	question string
	answer   *driving.Answer
	err      error
}

// Model is the Bubble Tea model for the assistant chat.
type Model struct {
	assistant driving.AssistantService
	ctx       context.Context
	force     bool

	input      textinput.Model
	viewport   viewport.Model
	spin       spinner.Model
	transcript []string
	status     string
	busy       bool
	ready      bool
	fatal      error
}

// New creates the chat model. force re-indexes the repository even when an
// up-to-date namespace exists.
func New(ctx context.Context, assistant driving.AssistantService, force bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Paste a public GitHub repository URL"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		assistant: assistant,
		ctx:       ctx,
		force:     force,
		input:     ti,
		viewport:  viewport.New(0, 0),
		spin:      sp,
		status:    "Enter a repository URL to begin. Type exit or quit to leave.",
	}
}

// FatalErr returns the configuration error that ended the session, if any.
func (m Model) FatalErr() error {
	return m.fatal
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and service-completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ph := promptBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ph + ch + 1 // header, status, frames, spacer
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = maxInt(3, msg.Height-reserved-1)
		m.viewport.SetContent(strings.Join(m.transcript, "\n"))
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			_ = m.assistant.End()
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			return m.submit()
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		case "pgup":
			m.viewport.HalfPageUp()
			return m, nil
		case "pgdown":
			m.viewport.HalfPageDown()
			return m, nil
		}

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loadResultMsg:
		return m.handleLoadResult(msg)

	case answerMsg:
		return m.handleAnswer(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit dispatches the input line according to the session state.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	if line == "exit" || line == "quit" {
		_ = m.assistant.End()
		return m, tea.Quit
	}
	m.input.SetValue("")

	switch m.assistant.State() {
	case domain.StateAwaitingRepoURL:
		m.busy = true
		m.status = "Loading repository..."
		m.appendLine(userStyle.Render("repo: ") + line)
		return m, tea.Batch(m.spin.Tick, m.loadCmd(line))
	case domain.StateReady:
		m.busy = true
		m.status = "Thinking..."
		m.appendLine(userStyle.Render("you: ") + line)
		return m, tea.Batch(m.spin.Tick, m.askCmd(line))
	default:
		m.status = fmt.Sprintf("Busy (%s), please wait", m.assistant.State())
		return m, nil
	}
}

func (m Model) loadCmd(url string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.assistant.LoadRepository(m.ctx, url, driving.LoadOptions{ForceReindex: m.force})
		return loadResultMsg{result: result, err: err}
	}
}

func (m Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.assistant.Ask(m.ctx, question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m Model) handleLoadResult(msg loadResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		if !domain.IsRecoverable(msg.err) {
			m.fatal = msg.err
			return m, tea.Quit
		}
		m.appendLine(errorStyle.Render("error: " + msg.err.Error()))
		m.status = "Enter a repository URL to begin."
		m.input.Placeholder = "Paste a public GitHub repository URL"
		return m, nil
	}

	res := msg.result
	if res.Reused {
		m.appendLine(fmt.Sprintf("Reusing existing index for %s (%d chunks).", res.Repository, res.ChunksIndexed))
	} else {
		m.appendLine(fmt.Sprintf("Indexed %s (%d chunks).", res.Repository, res.ChunksIndexed))
		if res.Summary != "" {
			m.appendLine("")
			m.appendLine(headerStyle.Render("Repository summary"))
			m.appendLine(res.Summary)
		}
	}
	m.appendLine("")
	m.status = "Ready. Ask a question about the repository."
	m.input.Placeholder = "Ask about the repository"
	return m, nil
}

func (m Model) handleAnswer(msg answerMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.status = "Ready. Ask another question, or type exit."
	if msg.err != nil {
		if !domain.IsRecoverable(msg.err) {
			m.fatal = msg.err
			return m, tea.Quit
		}
		m.appendLine(errorStyle.Render("error: " + msg.err.Error()))
		return m, nil
	}

	m.appendLine(msg.answer.Text)
	if len(msg.answer.Sources) > 0 {
		m.appendLine(sourceStyle.Render("sources: " + strings.Join(msg.answer.Sources, ", ")))
	}
	m.appendLine("")
	return m, nil
}

func (m *Model) appendLine(line string) {
	m.transcript = append(m.transcript, line)
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("GitSurfer")
	status := statusStyle.Render(m.status)
	if m.busy {
		status = m.spin.View() + " " + status
	}
	chat := chatBoxStyle.Render(m.viewport.View())
	prompt := promptBoxStyle.Render(m.input.View())
	return header + "\n" + chat + "\n" + prompt + "\n" + status
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
