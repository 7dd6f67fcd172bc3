package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driven"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driving"
	"github.com/kumar8074/GitSurfer/internal/logger"
	"github.com/kumar8074/GitSurfer/internal/util"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// DefaultHistoryWindow is the number of recent turns included in the prompt.
const DefaultHistoryWindow = 5

// Researcher answers questions about an indexed repository with
// retrieval-augmented generation: embed the question, retrieve the nearest
// chunks from the repository's namespace, and ask the LLM with the
// retrieved context.
type Researcher struct {
	llm           driven.LLMService
	embedding     driven.EmbeddingService
	store         driven.VectorStore
	prompts       driven.PromptStore
	topK          int
	historyWindow int
	maxRetries    int
	retryDelay    time.Duration
}

// NewResearcher creates a researcher.
func NewResearcher(
	llm driven.LLMService,
	embedding driven.EmbeddingService,
	store driven.VectorStore,
	prompts driven.PromptStore,
	topK int,
	historyWindow int,
	maxRetries int,
	retryDelay time.Duration,
) *Researcher {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	if maxRetries <= 0 {
		maxRetries = util.DefaultRetries
	}
	if retryDelay <= 0 {
		retryDelay = util.DefaultRetryDelay
	}
	return &Researcher{
		llm:           llm,
		embedding:     embedding,
		store:         store,
		prompts:       prompts,
		topK:          topK,
		historyWindow: historyWindow,
		maxRetries:    maxRetries,
		retryDelay:    retryDelay,
	}
}

// Answer answers a question about the repository using its namespace.
// A missing namespace surfaces domain.ErrNamespaceNotFound; an embedding
// model differing from the one used at index time is a ConfigError, never
// silently tolerated.
func (r *Researcher) Answer(
	ctx context.Context, repo domain.Repository, question string, history []domain.ConversationTurn,
) (*driving.Answer, error) {
	logger.Section("Research")
	logger.Debug("Question: %q", question)

	ns, err := r.store.GetNamespace(ctx, repo.NamespaceID())
	if err != nil {
		return nil, err
	}

	if err := r.checkModel(ns); err != nil {
		return nil, err
	}

	var queryVec []float32
	err = util.Retry(ctx, r.maxRetries, r.retryDelay, func(ctx context.Context) error {
		var embedErr error
		queryVec, embedErr = r.embedding.Embed(ctx, question)
		return embedErr
	})
	if err != nil {
		return nil, &domain.ProviderError{Provider: r.embedding.Provider(), Op: "embed question", Err: err}
	}

	matches, err := r.store.Search(ctx, ns.ID, queryVec, r.topK)
	if err != nil {
		return nil, err
	}
	logger.Debug("Retrieved %d chunks", len(matches))

	messages, err := r.buildMessages(question, matches, history)
	if err != nil {
		return nil, err
	}

	var text string
	err = util.Retry(ctx, r.maxRetries, r.retryDelay, func(ctx context.Context) error {
		out, chatErr := r.llm.Chat(ctx, messages, driven.ChatOptions{})
		if chatErr != nil {
			logger.Warn("Answer generation failed: %v", chatErr)
			return chatErr
		}
		if strings.TrimSpace(out) == "" {
			return domain.ErrEmptyCompletion
		}
		text = strings.TrimSpace(out)
		return nil
	})
	if err != nil {
		return nil, &domain.ProviderError{Provider: providerName(r.llm), Op: "answer", Err: err}
	}

	return &driving.Answer{
		Text:    text,
		Sources: sourcePaths(matches),
	}, nil
}

// checkModel verifies the configured embedding provider and model match the
// namespace recorded at index time.
func (r *Researcher) checkModel(ns *domain.Namespace) error {
	provider := domain.AIProvider(r.embedding.Provider())
	model := r.embedding.ModelName()
	if ns.EmbeddingProvider == provider && ns.EmbeddingModel == model {
		return nil
	}
	return &domain.ConfigError{
		Setting: "EMBEDDING_PROVIDER",
		Reason: fmt.Sprintf("%v: namespace %s was indexed with %s/%s but %s/%s is configured; re-index with --force",
			domain.ErrModelMismatch, ns.ID, ns.EmbeddingProvider, ns.EmbeddingModel, provider, model),
	}
}

// buildMessages assembles the chat prompt: grounded system prompt with the
// retrieved context, the bounded conversation history, then the question.
func (r *Researcher) buildMessages(
	question string, matches []domain.Match, history []domain.ConversationTurn,
) ([]driven.ChatMessage, error) {
	template, err := r.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return nil, fmt.Errorf("load answer prompt: %w", err)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: fmt.Sprintf(template, contextBlock(matches))},
	}

	start := 0
	if len(history) > r.historyWindow {
		start = len(history) - r.historyWindow
	}
	for _, turn := range history[start:] {
		messages = append(messages,
			driven.ChatMessage{Role: "user", Content: turn.Question},
			driven.ChatMessage{Role: "assistant", Content: turn.Answer},
		)
	}

	return append(messages, driven.ChatMessage{Role: "user", Content: question}), nil
}

// contextBlock renders the retrieved chunks labelled by source path.
func contextBlock(matches []domain.Match) string {
	if len(matches) == 0 {
		return "(no relevant context found in the repository index)"
	}

	var b strings.Builder
	for i, match := range matches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[source: %s]\n%s", match.Record.Path, match.Record.Content)
	}
	return b.String()
}

// sourcePaths returns the matched document paths deduplicated in rank order.
func sourcePaths(matches []domain.Match) []string {
	seen := make(map[string]bool, len(matches))
	paths := make([]string, 0, len(matches))
	for _, match := range matches {
		if seen[match.Record.Path] {
			continue
		}
		seen[match.Record.Path] = true
		paths = append(paths, match.Record.Path)
	}
	return paths
}
