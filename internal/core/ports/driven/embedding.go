package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The same provider and model must be used at index time and query time;
// the Researcher rejects a namespace indexed with a different model.
//
// Implementations:
//   - Gemini (text-embedding-004)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Cohere (embed-english-v3.0)
type EmbeddingService interface {
	// Embed generates a vector embedding for a query text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple document texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 768, 1024, 1536).
	Dimensions() int

	// Provider returns the provider identity.
	Provider() string

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
