// Package ai constructs LLM and embedding service adapters from provider
// settings. It is the single place that maps a provider name onto a concrete
// HTTP adapter.
package ai

import (
	"context"
	"fmt"
	"time"

	cohereemb "github.com/kumar8074/GitSurfer/internal/adapters/driven/embedding/cohere"
	geminiemb "github.com/kumar8074/GitSurfer/internal/adapters/driven/embedding/gemini"
	openaiemb "github.com/kumar8074/GitSurfer/internal/adapters/driven/embedding/openai"
	"github.com/kumar8074/GitSurfer/internal/adapters/driven/llm/anthropic"
	coherelm "github.com/kumar8074/GitSurfer/internal/adapters/driven/llm/cohere"
	geminilm "github.com/kumar8074/GitSurfer/internal/adapters/driven/llm/gemini"
	openailm "github.com/kumar8074/GitSurfer/internal/adapters/driven/llm/openai"
	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driven"
)

// pingTimeout bounds the connectivity check on validated construction.
const pingTimeout = 5 * time.Second

// NewLLMService creates an LLM service for the configured provider.
func NewLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminilm.NewLLMService(geminilm.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
	case domain.AIProviderOpenAI:
		return openailm.NewLLMService(openailm.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
	case domain.AIProviderAnthropic:
		return anthropic.NewLLMService(anthropic.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
	case domain.AIProviderCohere:
		return coherelm.NewLLMService(coherelm.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
	default:
		return nil, &domain.ConfigError{
			Setting: "LLM_PROVIDER",
			Reason:  fmt.Sprintf("unsupported provider %q", settings.Provider),
		}
	}
}

// NewEmbeddingService creates an embedding service for the configured
// provider. Anthropic is rejected here: it has no embedding API.
func NewEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminiemb.NewEmbeddingService(geminiemb.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
	case domain.AIProviderOpenAI:
		return openaiemb.NewEmbeddingService(openaiemb.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
	case domain.AIProviderCohere:
		return cohereemb.NewEmbeddingService(cohereemb.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
	default:
		return nil, &domain.ConfigError{
			Setting: "EMBEDDING_PROVIDER",
			Reason:  fmt.Sprintf("unsupported provider %q", settings.Provider),
		}
	}
}

// NewValidatedLLMService creates an LLM service and validates connectivity
// with a lightweight ping. The service is closed again when the ping fails.
func NewValidatedLLMService(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	svc, err := NewLLMService(settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, &domain.ProviderError{Provider: string(settings.Provider), Op: "ping", Err: err}
	}
	return svc, nil
}

// NewValidatedEmbeddingService creates an embedding service and validates
// connectivity with a lightweight ping. The service is closed again when the
// ping fails.
func NewValidatedEmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := NewEmbeddingService(settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, &domain.ProviderError{Provider: string(settings.Provider), Op: "ping", Err: err}
	}
	return svc, nil
}
