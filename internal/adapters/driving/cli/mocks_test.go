package cli

import (
	"context"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driving"
)

// fakeAssistant is a scriptable AssistantService for command tests.
type fakeAssistant struct {
	state    domain.SessionState
	loadErr  error
	askErr   error
	result   *driving.LoadResult
	answer   *driving.Answer
	loadURLs []string
	asked    []string
	ended    bool
}

func newFakeAssistant() *fakeAssistant {
	return &fakeAssistant{
		state: domain.StateAwaitingRepoURL,
		result: &driving.LoadResult{
			Repository:    domain.Repository{Owner: "kumar8074", Name: "GitSurfer", Branch: "main"},
			Summary:       "A CLI research assistant.",
			ChunksIndexed: 12,
		},
		answer: &driving.Answer{
			Text:    "The entry point is cmd/gitsurfer/main.go.",
			Sources: []string{"cmd/gitsurfer/main.go"},
		},
	}
}

func (f *fakeAssistant) State() domain.SessionState { return f.state }
func (f *fakeAssistant) Summary() string            { return f.result.Summary }

func (f *fakeAssistant) LoadRepository(_ context.Context, url string, _ driving.LoadOptions) (*driving.LoadResult, error) {
	f.loadURLs = append(f.loadURLs, url)
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	f.state = domain.StateReady
	return f.result, nil
}

func (f *fakeAssistant) Ask(_ context.Context, question string) (*driving.Answer, error) {
	f.asked = append(f.asked, question)
	if f.askErr != nil {
		return nil, f.askErr
	}
	return f.answer, nil
}

func (f *fakeAssistant) End() error {
	f.ended = true
	f.state = domain.StateEnded
	return nil
}
