package domain

import "fmt"

// AIProvider identifies a hosted LLM or embedding provider.
type AIProvider string

// Supported providers. Anthropic offers no embedding API, so it is valid
// only as an LLM provider.
const (
	AIProviderGemini    AIProvider = "gemini"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
	AIProviderCohere    AIProvider = "cohere"
)

// LLMProviders returns the providers usable for completions.
func LLMProviders() []AIProvider {
	return []AIProvider{AIProviderGemini, AIProviderOpenAI, AIProviderAnthropic, AIProviderCohere}
}

// EmbeddingProviders returns the providers usable for embeddings.
func EmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderGemini, AIProviderOpenAI, AIProviderCohere}
}

// LLMSettings selects and configures the active LLM provider.
type LLMSettings struct {
	// Provider is the active LLM provider.
	Provider AIProvider

	// APIKey is the credential for the active provider.
	APIKey string

	// Model is the model name for the active provider.
	Model string

	// BaseURL overrides the provider's API endpoint. Empty selects the
	// provider's public endpoint.
	BaseURL string
}

// Validate checks the settings are complete for the selected provider.
func (s LLMSettings) Validate() error {
	if !contains(LLMProviders(), s.Provider) {
		return &ConfigError{Setting: "LLM_PROVIDER", Reason: fmt.Sprintf("unsupported provider %q", s.Provider)}
	}
	if s.APIKey == "" {
		return &ConfigError{Setting: apiKeySetting(s.Provider), Reason: "API key is required for the selected LLM provider"}
	}
	return nil
}

// EmbeddingSettings selects and configures the active embedding provider.
type EmbeddingSettings struct {
	// Provider is the active embedding provider.
	Provider AIProvider

	// APIKey is the credential for the active provider.
	APIKey string

	// Model is the model name for the active provider.
	Model string

	// BaseURL overrides the provider's API endpoint. Empty selects the
	// provider's public endpoint.
	BaseURL string
}

// Validate checks the settings are complete for the selected provider.
func (s EmbeddingSettings) Validate() error {
	if !contains(EmbeddingProviders(), s.Provider) {
		return &ConfigError{Setting: "EMBEDDING_PROVIDER", Reason: fmt.Sprintf("unsupported provider %q", s.Provider)}
	}
	if s.APIKey == "" {
		return &ConfigError{Setting: apiKeySetting(s.Provider), Reason: "API key is required for the selected embedding provider"}
	}
	return nil
}

// apiKeySetting maps a provider to its environment variable name.
// Gemini keys come from GOOGLE_API_KEY, matching the Google AI SDK convention.
func apiKeySetting(p AIProvider) string {
	switch p {
	case AIProviderGemini:
		return "GOOGLE_API_KEY"
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case AIProviderCohere:
		return "COHERE_API_KEY"
	default:
		return "API_KEY"
	}
}

func contains(providers []AIProvider, p AIProvider) bool {
	for _, candidate := range providers {
		if candidate == p {
			return true
		}
	}
	return false
}
