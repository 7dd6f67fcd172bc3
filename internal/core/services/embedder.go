package services

import (
	"context"
	"time"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driven"
	"github.com/kumar8074/GitSurfer/internal/logger"
	"github.com/kumar8074/GitSurfer/internal/postprocessors/chunker"
	"github.com/kumar8074/GitSurfer/internal/util"
)

// DefaultEmbedBatchSize is the number of chunks embedded per provider call.
const DefaultEmbedBatchSize = 64

// Embedder chunks fetched documents, embeds the chunks and replaces the
// repository's namespace in the vector store.
type Embedder struct {
	embedding  driven.EmbeddingService
	store      driven.VectorStore
	chunker    *chunker.Chunker
	batchSize  int
	maxRetries int
	retryDelay time.Duration
}

// NewEmbedder creates an embedder.
func NewEmbedder(
	embedding driven.EmbeddingService,
	store driven.VectorStore,
	ch *chunker.Chunker,
	maxRetries int,
	retryDelay time.Duration,
) *Embedder {
	if ch == nil {
		ch = chunker.New()
	}
	if maxRetries <= 0 {
		maxRetries = util.DefaultRetries
	}
	if retryDelay <= 0 {
		retryDelay = util.DefaultRetryDelay
	}
	return &Embedder{
		embedding:  embedding,
		store:      store,
		chunker:    ch,
		batchSize:  DefaultEmbedBatchSize,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Index chunks and embeds the documents, then atomically replaces the
// repository's namespace content. Returns the number of chunks indexed.
// Re-running Index for the same repository can never duplicate records.
func (e *Embedder) Index(ctx context.Context, repo domain.Repository, docs []domain.Document) (int, error) {
	logger.Section("Embedding")

	chunks := e.chunker.SplitAll(docs)
	logger.Debug("Split %d documents into %d chunks", len(docs), len(chunks))

	records := make([]domain.EmbeddingRecord, 0, len(chunks))
	for start := 0; start < len(chunks); start += e.batchSize {
		end := start + e.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}

		var vectors [][]float32
		err := util.Retry(ctx, e.maxRetries, e.retryDelay, func(ctx context.Context) error {
			var embedErr error
			vectors, embedErr = e.embedding.EmbedBatch(ctx, texts)
			return embedErr
		})
		if err != nil {
			return 0, &domain.ProviderError{Provider: e.embedding.Provider(), Op: "embed", Err: err}
		}

		for i, chunk := range batch {
			records = append(records, domain.EmbeddingRecord{
				Chunk:     chunk,
				Embedding: vectors[i],
			})
		}
		logger.Debug("Embedded %d/%d chunks", len(records), len(chunks))
	}

	ns := domain.Namespace{
		ID:                repo.NamespaceID(),
		Owner:             repo.Owner,
		Repo:              repo.Name,
		Branch:            repo.Branch,
		EmbeddingProvider: domain.AIProvider(e.embedding.Provider()),
		EmbeddingModel:    e.embedding.ModelName(),
		Dimensions:        e.embedding.Dimensions(),
		IndexedAt:         time.Now().UTC(),
	}

	if err := e.store.Replace(ctx, ns, docs, records); err != nil {
		return 0, err
	}

	logger.Info("Indexed %d chunks into namespace %s", len(records), ns.ID)
	return len(records), nil
}
