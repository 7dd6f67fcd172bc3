package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumar8074/GitSurfer/internal/core/ports/driven"
)

func TestPromptStore_DefaultsCreatedLazily(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Constructor performs no I/O.
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))

	prompt, err := store.Load(driven.PromptStructureSummary)
	require.NoError(t, err)
	assert.Contains(t, prompt, "%s")

	// First Load materialises the default files.
	_, statErr = os.Stat(filepath.Join(dir, driven.PromptStructureSummary+".txt"))
	require.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(dir, driven.PromptAnswerSystem+".txt"))
	require.NoError(t, statErr)
}

func TestPromptStore_UserOverride(t *testing.T) {
	dir := t.TempDir()
	custom := "My custom summary prompt:\n%s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, driven.PromptStructureSummary+".txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptStructureSummary)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_InvalidTemplateFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing placeholder", "Summarise the repository, no placeholder here."},
		{"extra placeholder", "First %s and second %s."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, driven.PromptStructureSummary+".txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			store, err := NewPromptStore(dir)
			require.NoError(t, err)

			prompt, err := store.Load(driven.PromptStructureSummary)
			require.NoError(t, err)
			assert.NotEqual(t, tt.content, prompt)
			assert.Equal(t, 1, strings.Count(prompt, "%s"))
		})
	}
}

func TestPromptStore_UnknownPromptFallsBack(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nonexistent")
	require.Error(t, err)
}

func TestPromptStore_CachesPerProcess(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	first, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)

	edited := "Edited prompt with context %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, driven.PromptAnswerSystem+".txt"), []byte(edited), 0600))

	// Edits are picked up on the next run, not mid-process.
	cached, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	fresh, err := NewPromptStore(dir)
	require.NoError(t, err)
	reloaded, err := fresh.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	assert.Equal(t, edited, reloaded)
}
