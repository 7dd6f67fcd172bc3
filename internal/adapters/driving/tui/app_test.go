package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driving"
)

type fakeAssistant struct {
	state   domain.SessionState
	loadErr error
	askErr  error
	ended   bool
}

func (f *fakeAssistant) State() domain.SessionState { return f.state }
func (f *fakeAssistant) Summary() string            { return "" }

func (f *fakeAssistant) LoadRepository(_ context.Context, url string, _ driving.LoadOptions) (*driving.LoadResult, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	repo, err := domain.ParseRepositoryURL(url)
	if err != nil {
		return nil, &domain.FetchError{Err: err}
	}
	f.state = domain.StateReady
	return &driving.LoadResult{Repository: repo, Summary: "Go CLI project.", ChunksIndexed: 7}, nil
}

func (f *fakeAssistant) Ask(_ context.Context, _ string) (*driving.Answer, error) {
	if f.askErr != nil {
		return nil, f.askErr
	}
	return &driving.Answer{Text: "It uses cobra.", Sources: []string{"go.mod"}}, nil
}

func (f *fakeAssistant) End() error {
	f.ended = true
	f.state = domain.StateEnded
	return nil
}

func pressEnter(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func newReadyModel(assistant driving.AssistantService) Model {
	m := New(context.Background(), assistant, false)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func TestModel_LoadAndAsk(t *testing.T) {
	assistant := &fakeAssistant{state: domain.StateAwaitingRepoURL}
	m := newReadyModel(assistant)

	m, cmd := pressEnter(t, m, "kumar8074/GitSurfer")
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	// Run the batched command and feed the load result back in.
	next, _ := m.Update(loadResultMsg{result: &driving.LoadResult{
		Repository:    domain.Repository{Owner: "kumar8074", Name: "GitSurfer", Branch: "main"},
		Summary:       "Go CLI project.",
		ChunksIndexed: 7,
	}})
	m = next.(Model)

	assert.False(t, m.busy)
	transcript := strings.Join(m.transcript, "\n")
	assert.Contains(t, transcript, "Indexed kumar8074/GitSurfer@main (7 chunks)")
	assert.Contains(t, transcript, "Go CLI project.")

	assistant.state = domain.StateReady
	m, cmd = pressEnter(t, m, "What CLI framework is used?")
	require.NotNil(t, cmd)

	next, _ = m.Update(answerMsg{
		question: "What CLI framework is used?",
		answer:   &driving.Answer{Text: "It uses cobra.", Sources: []string{"go.mod"}},
	})
	m = next.(Model)

	transcript = strings.Join(m.transcript, "\n")
	assert.Contains(t, transcript, "It uses cobra.")
	assert.Contains(t, transcript, "go.mod")
}

func TestModel_RecoverableLoadErrorStaysInteractive(t *testing.T) {
	assistant := &fakeAssistant{state: domain.StateAwaitingRepoURL}
	m := newReadyModel(assistant)

	next, cmd := m.Update(loadResultMsg{err: &domain.FetchError{Err: errors.New("not found")}})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.NoError(t, m.FatalErr())
	assert.Contains(t, strings.Join(m.transcript, "\n"), "error: fetch: not found")
}

func TestModel_ConfigErrorQuits(t *testing.T) {
	assistant := &fakeAssistant{state: domain.StateAwaitingRepoURL}
	m := newReadyModel(assistant)

	next, cmd := m.Update(loadResultMsg{err: &domain.ConfigError{Setting: "GOOGLE_API_KEY", Reason: "missing"}})
	m = next.(Model)

	require.Error(t, m.FatalErr())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ExitSentinelEndsSession(t *testing.T) {
	assistant := &fakeAssistant{state: domain.StateAwaitingRepoURL}
	m := newReadyModel(assistant)

	_, cmd := pressEnter(t, m, "exit")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, assistant.ended)
}

func TestModel_CtrlCQuits(t *testing.T) {
	assistant := &fakeAssistant{state: domain.StateAwaitingRepoURL}
	m := newReadyModel(assistant)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, assistant.ended)
}
