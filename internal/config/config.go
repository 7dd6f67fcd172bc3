// Package config loads GitSurfer settings from environment variables.
// A .env file in the working directory is honoured, and a config file may
// supply defaults (see adapters/driven/config/file); the environment always
// wins. Missing credentials for the selected providers is a fatal
// ConfigError at startup.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
)

// Default model names per provider, matching each provider's current
// general-purpose offering.
const (
	DefaultGeminiLLMModel       = "gemini-2.0-flash"
	DefaultGeminiEmbeddingModel = "text-embedding-004"

	DefaultOpenAILLMModel       = "gpt-4o"
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"

	DefaultAnthropicLLMModel = "claude-3-sonnet-20240229"

	DefaultCohereLLMModel       = "command"
	DefaultCohereEmbeddingModel = "embed-english-v3.0"
)

// Pipeline defaults.
const (
	DefaultChunkSize     = 1000
	DefaultChunkOverlap  = 200
	DefaultTopK          = 5
	DefaultHistoryWindow = 5
	DefaultMaxFileSize   = 1 << 20 // 1 MiB
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = time.Second
)

// Defaults are file-sourced fallbacks applied beneath the environment.
type Defaults struct {
	// LLMProvider is the default LLM provider name.
	LLMProvider string

	// EmbeddingProvider is the default embedding provider name.
	EmbeddingProvider string

	// DataDir is the default data directory.
	DataDir string
}

// Settings is the process-wide configuration, constructed once at startup
// and passed by reference into each component. There is no ambient global
// configuration state.
type Settings struct {
	// LLM selects and configures the active LLM provider.
	LLM domain.LLMSettings

	// Embedding selects and configures the active embedding provider.
	Embedding domain.EmbeddingSettings

	// GitHubToken authenticates hosting-API calls. Optional: public
	// repositories work unauthenticated at a lower rate limit.
	GitHubToken string

	// DataDir is the root for persisted state (vector store, artifacts).
	DataDir string

	// ChunkSize and ChunkOverlap configure the embedder's chunker.
	ChunkSize    int
	ChunkOverlap int

	// TopK is the number of chunks retrieved per question.
	TopK int

	// HistoryWindow is the number of recent conversation turns included in
	// research prompts.
	HistoryWindow int

	// MaxFileSize excludes repository files larger than this many bytes.
	MaxFileSize int64

	// MaxRetries and RetryDelay bound provider-call retries.
	MaxRetries int
	RetryDelay time.Duration
}

// Load reads settings from the environment on top of the given defaults
// and validates them. A .env file is loaded first if present.
func Load(defaults Defaults) (*Settings, error) {
	_ = godotenv.Load() // Missing .env is fine.

	llmProvider := domain.AIProvider(getEnv("LLM_PROVIDER", fallback(defaults.LLMProvider, string(domain.AIProviderGemini))))
	embProvider := domain.AIProvider(getEnv("EMBEDDING_PROVIDER", fallback(defaults.EmbeddingProvider, string(domain.AIProviderGemini))))

	s := &Settings{
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			APIKey:   llmAPIKey(llmProvider),
			Model:    llmModel(llmProvider),
			BaseURL:  os.Getenv("LLM_BASE_URL"),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: embProvider,
			APIKey:   embeddingAPIKey(embProvider),
			Model:    embeddingModel(embProvider),
			BaseURL:  os.Getenv("EMBEDDING_BASE_URL"),
		},
		GitHubToken:   os.Getenv("GITHUB_TOKEN"),
		ChunkSize:     getEnvInt("GITSURFER_CHUNK_SIZE", DefaultChunkSize),
		ChunkOverlap:  getEnvInt("GITSURFER_CHUNK_OVERLAP", DefaultChunkOverlap),
		TopK:          getEnvInt("GITSURFER_TOP_K", DefaultTopK),
		HistoryWindow: getEnvInt("GITSURFER_HISTORY_WINDOW", DefaultHistoryWindow),
		MaxFileSize:   int64(getEnvInt("GITSURFER_MAX_FILE_SIZE", DefaultMaxFileSize)),
		MaxRetries:    getEnvInt("GITSURFER_MAX_RETRIES", DefaultMaxRetries),
		RetryDelay:    getEnvDuration("GITSURFER_RETRY_DELAY", DefaultRetryDelay),
	}

	dataDir, err := ResolveDataDir(defaults.DataDir)
	if err != nil {
		return nil, err
	}
	s.DataDir = dataDir

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ResolveDataDir resolves the data directory: the GITSURFER_DATA_DIR
// environment variable wins, then the file-sourced default, then
// ~/.gitsurfer/data.
func ResolveDataDir(fileDefault string) (string, error) {
	if dir := getEnv("GITSURFER_DATA_DIR", fileDefault); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &domain.ConfigError{Setting: "GITSURFER_DATA_DIR", Reason: "cannot determine home directory: " + err.Error()}
	}
	return filepath.Join(home, ".gitsurfer", "data"), nil
}

// Validate checks provider selections, credentials and pipeline bounds.
func (s *Settings) Validate() error {
	if err := s.LLM.Validate(); err != nil {
		return err
	}
	if err := s.Embedding.Validate(); err != nil {
		return err
	}
	if s.ChunkSize <= 0 {
		return &domain.ConfigError{Setting: "GITSURFER_CHUNK_SIZE", Reason: "must be positive"}
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return &domain.ConfigError{Setting: "GITSURFER_CHUNK_OVERLAP", Reason: "must be non-negative and smaller than the chunk size"}
	}
	if s.TopK <= 0 {
		return &domain.ConfigError{Setting: "GITSURFER_TOP_K", Reason: "must be positive"}
	}
	if s.MaxRetries < 1 || s.MaxRetries > 10 {
		return &domain.ConfigError{Setting: "GITSURFER_MAX_RETRIES", Reason: "must be between 1 and 10"}
	}
	return nil
}

// TempDir returns the directory for temporary artifacts (tree summaries).
func (s *Settings) TempDir() string {
	return filepath.Join(s.DataDir, "tmp")
}

// llmAPIKey returns the configured API key for an LLM provider.
func llmAPIKey(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderGemini:
		return os.Getenv("GOOGLE_API_KEY")
	case domain.AIProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case domain.AIProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case domain.AIProviderCohere:
		return os.Getenv("COHERE_API_KEY")
	default:
		return ""
	}
}

// embeddingAPIKey returns the configured API key for an embedding provider.
func embeddingAPIKey(p domain.AIProvider) string {
	// Embedding credentials are shared with the LLM key of the same provider.
	return llmAPIKey(p)
}

// llmModel returns the model for an LLM provider, honouring overrides.
func llmModel(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderGemini:
		return getEnv("GEMINI_LLM_MODEL", DefaultGeminiLLMModel)
	case domain.AIProviderOpenAI:
		return getEnv("OPENAI_LLM_MODEL", DefaultOpenAILLMModel)
	case domain.AIProviderAnthropic:
		return getEnv("ANTHROPIC_LLM_MODEL", DefaultAnthropicLLMModel)
	case domain.AIProviderCohere:
		return getEnv("COHERE_LLM_MODEL", DefaultCohereLLMModel)
	default:
		return ""
	}
}

// embeddingModel returns the model for an embedding provider, honouring overrides.
func embeddingModel(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderGemini:
		return getEnv("GEMINI_EMBEDDING_MODEL", DefaultGeminiEmbeddingModel)
	case domain.AIProviderOpenAI:
		return getEnv("OPENAI_EMBEDDING_MODEL", DefaultOpenAIEmbeddingModel)
	case domain.AIProviderCohere:
		return getEnv("COHERE_EMBEDDING_MODEL", DefaultCohereEmbeddingModel)
	default:
		return ""
	}
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
