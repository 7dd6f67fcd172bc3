package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driven"
	"github.com/kumar8074/GitSurfer/internal/logger"
	"github.com/kumar8074/GitSurfer/internal/util"
)

// MaxTreeTextChars bounds the file-tree text sent to the LLM.
const MaxTreeTextChars = 3000

// treeTruncationMarker is appended when the tree text is cut off.
const treeTruncationMarker = "\n... (truncated)"

// Summarizer produces a structure summary of a fetched repository by
// describing its file tree to the LLM.
type Summarizer struct {
	llm        driven.LLMService
	prompts    driven.PromptStore
	maxRetries int
	retryDelay time.Duration
	tempDir    string
}

// NewSummarizer creates a summarizer. tempDir may be empty to skip writing
// the tree artifact.
func NewSummarizer(
	llm driven.LLMService, prompts driven.PromptStore, maxRetries int, retryDelay time.Duration, tempDir string,
) *Summarizer {
	if maxRetries <= 0 {
		maxRetries = util.DefaultRetries
	}
	if retryDelay <= 0 {
		retryDelay = util.DefaultRetryDelay
	}
	return &Summarizer{
		llm:        llm,
		prompts:    prompts,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		tempDir:    tempDir,
	}
}

// Summarize describes the repository's structure from its file paths.
// Provider failures are retried with exponential backoff and surfaced as
// *domain.ProviderError when the budget is exhausted.
func (s *Summarizer) Summarize(ctx context.Context, repo domain.Repository, docs []domain.Document) (string, error) {
	logger.Section("Structure Summary")

	treeText := buildTreeText(docs)
	logger.Debug("Tree text: %d chars for %d files", len(treeText), len(docs))

	s.writeTreeArtifact(repo, treeText)

	template, err := s.prompts.Load(driven.PromptStructureSummary)
	if err != nil {
		return "", fmt.Errorf("load summary prompt: %w", err)
	}
	prompt := fmt.Sprintf(template, treeText)

	var summary string
	err = util.Retry(ctx, s.maxRetries, s.retryDelay, func(ctx context.Context) error {
		out, genErr := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
		if genErr != nil {
			logger.Warn("Summary generation failed: %v", genErr)
			return genErr
		}
		if strings.TrimSpace(out) == "" {
			return domain.ErrEmptyCompletion
		}
		summary = strings.TrimSpace(out)
		return nil
	})
	if err != nil {
		return "", &domain.ProviderError{Provider: providerName(s.llm), Op: "summarize", Err: err}
	}

	logger.Debug("Summary: %d chars", len(summary))
	return summary, nil
}

// writeTreeArtifact stores the tree text under the temp dir for inspection.
// Best effort: failures are logged, never fatal.
func (s *Summarizer) writeTreeArtifact(repo domain.Repository, treeText string) {
	if s.tempDir == "" {
		return
	}
	if err := os.MkdirAll(s.tempDir, 0700); err != nil {
		logger.Warn("Cannot create temp dir: %v", err)
		return
	}
	path := filepath.Join(s.tempDir, repo.NamespaceID()+"_tree.txt")
	if err := os.WriteFile(path, []byte(treeText), 0600); err != nil {
		logger.Warn("Cannot write tree artifact: %v", err)
	}
}

// buildTreeText renders the document paths as a sorted bullet list bounded
// to MaxTreeTextChars.
func buildTreeText(docs []domain.Document) string {
	paths := make([]string, len(docs))
	for i, doc := range docs {
		paths[i] = doc.Path
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		line := "- " + path + "\n"
		if b.Len()+len(line) > MaxTreeTextChars-len(treeTruncationMarker) {
			b.WriteString(treeTruncationMarker)
			break
		}
		b.WriteString(line)
	}
	return strings.TrimRight(b.String(), "\n")
}

// providerName derives a provider label from the model name for error
// reporting when the adapter doesn't expose its identity.
func providerName(llm driven.LLMService) string {
	model := llm.ModelName()
	switch {
	case strings.HasPrefix(model, "gemini"):
		return string(domain.AIProviderGemini)
	case strings.HasPrefix(model, "gpt"), strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"):
		return string(domain.AIProviderOpenAI)
	case strings.HasPrefix(model, "claude"):
		return string(domain.AIProviderAnthropic)
	case strings.HasPrefix(model, "command"):
		return string(domain.AIProviderCohere)
	default:
		return "llm"
	}
}
