package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driven"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driving"
	"github.com/kumar8074/GitSurfer/internal/logger"
)

// Ensure Assistant implements the interface.
var _ driving.AssistantService = (*Assistant)(nil)

// Assistant orchestrates one interactive research session: it drives the
// fetch → summarize → embed pipeline through the session state machine and
// delegates questions to the Researcher. Any pipeline stage failure returns
// the session to AwaitingRepoURL so it is never left partially Ready.
type Assistant struct {
	mu         sync.Mutex
	fetcher    driven.RepositoryFetcher
	summarizer *Summarizer
	embedder   *Embedder
	researcher *Researcher
	store      driven.VectorStore
	embedding  driven.EmbeddingService
	session    *domain.Session
}

// NewAssistant creates an assistant with a fresh session awaiting a URL.
func NewAssistant(
	fetcher driven.RepositoryFetcher,
	summarizer *Summarizer,
	embedder *Embedder,
	researcher *Researcher,
	store driven.VectorStore,
	embedding driven.EmbeddingService,
) *Assistant {
	return &Assistant{
		fetcher:    fetcher,
		summarizer: summarizer,
		embedder:   embedder,
		researcher: researcher,
		store:      store,
		embedding:  embedding,
		session:    domain.NewSession(),
	}
}

// State returns the session's current state.
func (a *Assistant) State() domain.SessionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.State()
}

// Summary returns the structure summary of the loaded repository.
func (a *Assistant) Summary() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Summary()
}

// Repository returns the active repository.
func (a *Assistant) Repository() domain.Repository {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Repository()
}

// LoadRepository runs fetch, summarize and embed for the repository at url.
// When a namespace already exists for the repository with the configured
// embedding model, the pipeline is skipped and the index reused unless
// opts.ForceReindex is set.
func (a *Assistant) LoadRepository(
	ctx context.Context, url string, opts driving.LoadOptions,
) (*driving.LoadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	repo, err := domain.ParseRepositoryURL(url)
	if err != nil {
		// The session stays at the URL prompt.
		return nil, &domain.FetchError{Err: err}
	}

	if err := a.session.TransitionTo(domain.StateFetching); err != nil {
		return nil, err
	}

	if !opts.ForceReindex {
		if result, ok := a.reuseExistingIndex(ctx, repo); ok {
			return result, nil
		}
	}

	logger.Info("Fetching %s", repo)
	docs, err := a.fetcher.Fetch(ctx, repo)
	if err != nil {
		a.session.Reset()
		return nil, err
	}
	if len(docs) == 0 {
		a.session.Reset()
		return nil, &domain.FetchError{Repo: repo.String(), Err: domain.ErrNoEligibleFiles}
	}
	logger.Info("Fetched %d documents", len(docs))

	if err := a.session.TransitionTo(domain.StateSummarizing); err != nil {
		a.session.Reset()
		return nil, err
	}
	summary, err := a.summarizer.Summarize(ctx, repo, docs)
	if err != nil {
		a.session.Reset()
		return nil, err
	}

	if err := a.session.TransitionTo(domain.StateEmbedding); err != nil {
		a.session.Reset()
		return nil, err
	}
	indexed, err := a.embedder.Index(ctx, repo, docs)
	if err != nil {
		a.session.Reset()
		return nil, err
	}

	if err := a.session.TransitionTo(domain.StateReady); err != nil {
		a.session.Reset()
		return nil, err
	}
	a.session.SetRepository(repo, docs)
	a.session.SetSummary(summary)

	return &driving.LoadResult{
		Repository:    repo,
		Summary:       summary,
		ChunksIndexed: indexed,
	}, nil
}

// reuseExistingIndex checks for an up-to-date namespace and, when found,
// moves the session straight to Ready. Only a namespace indexed with the
// configured embedding provider and model is reusable.
func (a *Assistant) reuseExistingIndex(ctx context.Context, repo domain.Repository) (*driving.LoadResult, bool) {
	ns, err := a.store.GetNamespace(ctx, repo.NamespaceID())
	if err != nil {
		if !errors.Is(err, domain.ErrNamespaceNotFound) {
			logger.Warn("Namespace lookup failed, re-indexing: %v", err)
		}
		return nil, false
	}

	if ns.EmbeddingProvider != domain.AIProvider(a.embedding.Provider()) ||
		ns.EmbeddingModel != a.embedding.ModelName() {
		logger.Info("Namespace %s uses %s/%s, re-indexing with %s/%s",
			ns.ID, ns.EmbeddingProvider, ns.EmbeddingModel, a.embedding.Provider(), a.embedding.ModelName())
		return nil, false
	}

	if err := a.session.TransitionTo(domain.StateReady); err != nil {
		return nil, false
	}
	a.session.SetRepository(repo, nil)
	a.session.SetSummary("")
	logger.Info("Reusing existing index for %s (%d chunks)", repo, ns.ChunkCount)

	return &driving.LoadResult{
		Repository:    repo,
		ChunksIndexed: ns.ChunkCount,
		Reused:        true,
	}, true
}

// Ask answers a question about the loaded repository. Only permitted in the
// Ready state; the session returns to Ready afterwards whether the turn
// succeeded or failed recoverably.
func (a *Assistant) Ask(ctx context.Context, question string) (*driving.Answer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.session.TransitionTo(domain.StateAnswering); err != nil {
		return nil, err
	}

	answer, err := a.researcher.Answer(ctx, a.session.Repository(), question, a.session.Turns())

	// Back to Ready regardless of the outcome; only a programming error can
	// make this transition fail.
	if terr := a.session.TransitionTo(domain.StateReady); terr != nil {
		return nil, fmt.Errorf("restore session state: %w", terr)
	}

	if err != nil {
		return nil, err
	}

	a.session.AppendTurn(domain.ConversationTurn{
		Question: question,
		Answer:   answer.Text,
		Sources:  answer.Sources,
		AskedAt:  time.Now(),
	})
	return answer, nil
}

// End terminates the session. Permitted from AwaitingRepoURL and Ready.
func (a *Assistant) End() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.TransitionTo(domain.StateEnded)
}
