package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the core.
var (
	// ErrInvalidRepoURL indicates the repository URL could not be parsed.
	ErrInvalidRepoURL = errors.New("invalid repository URL")

	// ErrNoEligibleFiles indicates a repository was fetched successfully but
	// contained no text-bearing files to index.
	ErrNoEligibleFiles = errors.New("repository has no eligible files to index")

	// ErrNamespaceNotFound indicates no index exists yet for a repository.
	// This is an expected condition, distinct from a store failure and from
	// "no relevant results found".
	ErrNamespaceNotFound = errors.New("no index exists for this repository")

	// ErrEmptyCompletion indicates the LLM returned an empty or invalid completion.
	ErrEmptyCompletion = errors.New("provider returned an empty completion")

	// ErrModelMismatch indicates the configured embedding model differs from the
	// one used at index time. Querying with a different model is a configuration
	// error, never silently tolerated.
	ErrModelMismatch = errors.New("embedding model does not match the indexed namespace")

	// ErrSessionState indicates an operation is not permitted in the session's
	// current state.
	ErrSessionState = errors.New("operation not permitted in current session state")

	// ErrSessionEnded indicates the session has reached its terminal state.
	ErrSessionEnded = errors.New("session has ended")
)

// ConfigError is a fatal startup failure: missing or invalid settings.
type ConfigError struct {
	// Setting names the offending configuration key.
	Setting string

	// Reason explains what is wrong with it.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Setting, e.Reason)
}

// FetchError wraps hosting-API, network and malformed-URL failures.
// Recoverable: the orchestrator returns to the URL prompt.
type FetchError struct {
	// Repo is the repository that was being fetched, if known.
	Repo string

	// Err is the underlying cause.
	Err error
}

func (e *FetchError) Error() string {
	if e.Repo == "" {
		return fmt.Sprintf("fetch: %v", e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Repo, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ProviderError wraps LLM or embedding provider call failures, surfaced after
// a bounded retry.
type ProviderError struct {
	// Provider is the provider name (gemini, openai, anthropic, cohere).
	Provider string

	// Op is the operation that failed (e.g. "chat", "embed").
	Op string

	// Err is the underlying cause.
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StoreError wraps vector store read/write failures. A missing namespace is
// ErrNamespaceNotFound, not a StoreError.
type StoreError struct {
	// Op is the store operation that failed.
	Op string

	// Err is the underlying cause.
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsRecoverable reports whether the session can continue after err, or the
// process should terminate. Only configuration errors are fatal.
func IsRecoverable(err error) bool {
	var cfgErr *ConfigError
	return !errors.As(err, &cfgErr)
}
