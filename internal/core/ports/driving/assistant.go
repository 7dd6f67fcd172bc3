package driving

import (
	"context"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
)

// LoadOptions controls how a repository is loaded into the session.
type LoadOptions struct {
	// ForceReindex re-fetches and re-embeds even when an up-to-date
	// namespace already exists for the repository.
	ForceReindex bool
}

// LoadResult describes what happened while loading a repository.
type LoadResult struct {
	// Repository is the parsed repository identity.
	Repository domain.Repository

	// Summary is the LLM-produced structure summary, empty when the index
	// was reused without re-summarizing.
	Summary string

	// ChunksIndexed is the number of chunks written to the vector store.
	ChunksIndexed int

	// Reused is true when an existing namespace was reused without
	// re-fetching or re-embedding.
	Reused bool
}

// Answer is the result of one research turn.
type Answer struct {
	// Text is the assistant's answer.
	Text string

	// Sources are the deduplicated document paths the answer cites.
	Sources []string
}

// AssistantService drives a single interactive research session over one
// repository at a time.
type AssistantService interface {
	// State returns the session's current state.
	State() domain.SessionState

	// Summary returns the structure summary of the loaded repository.
	Summary() string

	// LoadRepository runs fetch, summarize and embed for the repository at
	// url. On any stage failure the session returns to AwaitingRepoURL and
	// the error is returned for display.
	LoadRepository(ctx context.Context, url string, opts LoadOptions) (*LoadResult, error)

	// Ask answers a question about the loaded repository. Permitted only in
	// the Ready state; the session returns to Ready afterwards, whether the
	// turn succeeded or recovered from an error.
	Ask(ctx context.Context, question string) (*Answer, error)

	// End terminates the session.
	End() error
}
