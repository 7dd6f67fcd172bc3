package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("boom")

	var fetchErr error = &FetchError{Repo: "a/b@main", Err: cause}
	require.ErrorIs(t, fetchErr, cause)
	assert.Contains(t, fetchErr.Error(), "a/b@main")

	var provErr error = &ProviderError{Provider: "gemini", Op: "chat", Err: cause}
	require.ErrorIs(t, provErr, cause)
	assert.Contains(t, provErr.Error(), "gemini")

	var storeErr error = &StoreError{Op: "replace", Err: cause}
	require.ErrorIs(t, storeErr, cause)
}

func TestIsRecoverable(t *testing.T) {
	assert.False(t, IsRecoverable(&ConfigError{Setting: "LLM_PROVIDER", Reason: "missing"}))
	assert.False(t, IsRecoverable(fmt.Errorf("startup: %w", error(&ConfigError{Setting: "x", Reason: "y"}))))

	assert.True(t, IsRecoverable(&FetchError{Err: errors.New("404")}))
	assert.True(t, IsRecoverable(&ProviderError{Provider: "openai", Op: "embed", Err: errors.New("503")}))
	assert.True(t, IsRecoverable(&StoreError{Op: "search", Err: errors.New("locked")}))
	assert.True(t, IsRecoverable(ErrNamespaceNotFound))
}

func TestSettingsValidate(t *testing.T) {
	valid := LLMSettings{Provider: AIProviderAnthropic, APIKey: "key", Model: "claude-3-sonnet-20240229"}
	require.NoError(t, valid.Validate())

	missing := LLMSettings{Provider: AIProviderAnthropic}
	err := missing.Validate()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "ANTHROPIC_API_KEY", cfgErr.Setting)

	unknown := LLMSettings{Provider: "llama", APIKey: "key"}
	require.Error(t, unknown.Validate())

	// Anthropic has no embedding API.
	embAnthropic := EmbeddingSettings{Provider: AIProviderAnthropic, APIKey: "key"}
	err = embAnthropic.Validate()
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "EMBEDDING_PROVIDER", cfgErr.Setting)
}
