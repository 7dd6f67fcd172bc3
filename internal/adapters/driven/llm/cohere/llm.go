// Package cohere provides an LLM service adapter using the Cohere API.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kumar8074/GitSurfer/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.cohere.com/v1"
	DefaultModel   = "command"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Cohere LLM service.
type Config struct {
	// APIKey is the Cohere API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.cohere.com/v1).
	BaseURL string

	// Model is the LLM model to use (default: command).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using the Cohere API.
type LLMService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// chatRequest is the Cohere /chat request format. The latest user message
// goes in Message; prior turns ride along as ChatHistory.
type chatRequest struct {
	Model       string        `json:"model"`
	Message     string        `json:"message"`
	Preamble    string        `json:"preamble,omitempty"`
	ChatHistory []historyItem `json:"chat_history,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// historyItem is the Cohere chat history format. Roles are upper-case:
// USER and CHATBOT.
type historyItem struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// chatResponse is the Cohere /chat response format.
type chatResponse struct {
	Text    string `json:"text"`
	Message string `json:"message,omitempty"` // error detail on non-200
}

// NewLLMService creates a new Cohere LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	messages := []driven.ChatMessage{
		{Role: "user", Content: prompt},
	}
	chatOpts := driven.ChatOptions{
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	return s.Chat(ctx, messages, chatOpts)
}

// Chat conducts a multi-turn conversation. The final user message becomes the
// request message; earlier user/assistant turns become chat history and
// system messages become the preamble.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	var preamble, message string
	var history []historyItem

	// Find the last user message; everything before it is history.
	last := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			last = i
			break
		}
	}
	if last == -1 {
		return "", fmt.Errorf("cohere: conversation has no user message")
	}
	message = messages[last].Content

	for i, msg := range messages {
		if i == last {
			continue
		}
		switch msg.Role {
		case "system":
			if preamble != "" {
				preamble += "\n\n"
			}
			preamble += msg.Content
		case "user":
			history = append(history, historyItem{Role: "USER", Message: msg.Content})
		case "assistant":
			history = append(history, historyItem{Role: "CHATBOT", Message: msg.Content})
		}
	}

	reqBody := chatRequest{
		Model:       s.model,
		Message:     message,
		Preamble:    preamble,
		ChatHistory: history,
	}
	if opts.MaxTokens > 0 {
		reqBody.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		reqBody.Temperature = opts.Temperature
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var cohereResp chatResponse
	if err := json.Unmarshal(body, &cohereResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if cohereResp.Message != "" {
			return "", fmt.Errorf("cohere error: %s", cohereResp.Message)
		}
		return "", fmt.Errorf("cohere error (status %d): %s", resp.StatusCode, string(body))
	}

	if cohereResp.Text == "" {
		return "", fmt.Errorf("cohere: empty response text")
	}

	return cohereResp.Text, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /models endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("cohere: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("cohere: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("cohere: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("cohere: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
