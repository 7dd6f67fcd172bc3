package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
)

func testRepo() domain.Repository {
	return domain.Repository{Owner: "kumar8074", Name: "GitSurfer", Branch: "main"}
}

func TestSummarize(t *testing.T) {
	llm := &fakeLLM{response: "A small Go CLI with one entry point."}
	s := NewSummarizer(llm, fakePrompts{}, 1, time.Millisecond, "")

	summary, err := s.Summarize(context.Background(), testRepo(), []domain.Document{
		{Path: "cmd/main.go"},
		{Path: "README.md"},
	})
	require.NoError(t, err)
	assert.Equal(t, "A small Go CLI with one entry point.", summary)

	// The prompt carries the sorted file tree.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "- README.md\n- cmd/main.go")
}

func TestSummarize_ProviderFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("upstream 500")}
	s := NewSummarizer(llm, fakePrompts{}, 2, time.Millisecond, "")

	_, err := s.Summarize(context.Background(), testRepo(), []domain.Document{{Path: "a.go"}})
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "summarize", provErr.Op)

	// Bounded retry: two attempts, then surfaced.
	assert.Len(t, llm.prompts, 2)
}

func TestSummarize_EmptyCompletion(t *testing.T) {
	llm := &fakeLLM{response: "   \n"}
	s := NewSummarizer(llm, fakePrompts{}, 1, time.Millisecond, "")

	_, err := s.Summarize(context.Background(), testRepo(), []domain.Document{{Path: "a.go"}})
	require.ErrorIs(t, err, domain.ErrEmptyCompletion)
}

func TestSummarize_WritesTreeArtifact(t *testing.T) {
	tempDir := t.TempDir()
	llm := &fakeLLM{response: "summary"}
	s := NewSummarizer(llm, fakePrompts{}, 1, time.Millisecond, tempDir)

	_, err := s.Summarize(context.Background(), testRepo(), []domain.Document{{Path: "main.go"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tempDir, "kumar8074__gitsurfer__main_tree.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "- main.go")
}

func TestBuildTreeText_Truncated(t *testing.T) {
	docs := make([]domain.Document, 200)
	for i := range docs {
		docs[i] = domain.Document{Path: fmt.Sprintf("pkg/deeply/nested/module%03d/file%03d.go", i, i)}
	}

	text := buildTreeText(docs)
	assert.LessOrEqual(t, len(text), MaxTreeTextChars)
	assert.True(t, strings.HasSuffix(text, "... (truncated)"))
}
