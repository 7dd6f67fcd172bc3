package driven

import (
	"context"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
)

// RepositoryFetcher retrieves the text-bearing files of a hosted repository.
type RepositoryFetcher interface {
	// Fetch returns the eligible documents of the repository. An empty
	// repository returns an empty slice and no error; failures (missing
	// repository, rate limiting, network) return a *domain.FetchError.
	Fetch(ctx context.Context, repo domain.Repository) ([]domain.Document, error)
}
