package driven

import (
	"context"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
)

// VectorStore persists embedding records partitioned by repository namespace
// and answers nearest-neighbour queries within one namespace.
//
// The store is a derived, append-only index: every record's metadata resolves
// back to a document that was part of the set at index time. Replace is the
// only write path, so re-indexing a repository can never duplicate records.
type VectorStore interface {
	// GetNamespace returns namespace metadata, or domain.ErrNamespaceNotFound.
	GetNamespace(ctx context.Context, id string) (*domain.Namespace, error)

	// ListNamespaces returns all indexed namespaces.
	ListNamespaces(ctx context.Context) ([]domain.Namespace, error)

	// Replace atomically replaces the namespace's entire content with the
	// given documents and records. A failure leaves the previous content
	// intact; the namespace never claims success for a partial write.
	Replace(ctx context.Context, ns domain.Namespace, docs []domain.Document, records []domain.EmbeddingRecord) error

	// DeleteNamespace removes a namespace and all of its records.
	DeleteNamespace(ctx context.Context, id string) error

	// CountRecords returns the number of records in a namespace.
	CountRecords(ctx context.Context, id string) (int, error)

	// Search returns the k records nearest to the query vector by cosine
	// similarity. An empty namespace yields an empty result, not an error.
	Search(ctx context.Context, id string, query []float32, k int) ([]domain.Match, error)

	// Close releases resources.
	Close() error
}
