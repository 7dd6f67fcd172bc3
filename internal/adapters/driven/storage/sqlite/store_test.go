package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func testNamespace(id string) domain.Namespace {
	return domain.Namespace{
		ID:                id,
		Owner:             "kumar8074",
		Repo:              "GitSurfer",
		Branch:            "main",
		EmbeddingProvider: domain.AIProviderGemini,
		EmbeddingModel:    "text-embedding-004",
		Dimensions:        4,
	}
}

func testRecords(vectors ...[]float32) []domain.EmbeddingRecord {
	records := make([]domain.EmbeddingRecord, len(vectors))
	for i, vec := range vectors {
		records[i] = domain.EmbeddingRecord{
			Chunk: domain.Chunk{
				ID:       string(rune('a' + i)),
				Path:     "main.go",
				Content:  "package main",
				Position: i,
				Offset:   i * 800,
			},
			Embedding: vec,
		}
	}
	return records
}

func TestGetNamespace_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetNamespace(context.Background(), "missing__repo__main")
	require.ErrorIs(t, err, domain.ErrNamespaceNotFound)
}

func TestReplace_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ns := testNamespace("kumar8074__gitsurfer__main")
	docs := []domain.Document{
		{Path: "main.go", Content: "package main", Size: 12, SHA: "abc123"},
	}
	records := testRecords([]float32{1, 0, 0, 0}, []float32{0, 1, 0, 0})

	require.NoError(t, store.Replace(ctx, ns, docs, records))

	got, err := store.GetNamespace(ctx, ns.ID)
	require.NoError(t, err)
	assert.Equal(t, ns.Owner, got.Owner)
	assert.Equal(t, ns.Repo, got.Repo)
	assert.Equal(t, domain.AIProviderGemini, got.EmbeddingProvider)
	assert.Equal(t, "text-embedding-004", got.EmbeddingModel)
	assert.Equal(t, 2, got.ChunkCount)
	assert.WithinDuration(t, time.Now(), got.IndexedAt, time.Minute)

	count, err := store.CountRecords(ctx, ns.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestReplace_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ns := testNamespace("kumar8074__gitsurfer__main")
	records := testRecords([]float32{1, 0, 0, 0}, []float32{0, 1, 0, 0}, []float32{0, 0, 1, 0})

	// Indexing the same content twice must not grow the namespace.
	require.NoError(t, store.Replace(ctx, ns, nil, records))
	require.NoError(t, store.Replace(ctx, ns, nil, records))

	count, err := store.CountRecords(ctx, ns.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSearch_ExactMatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ns := testNamespace("kumar8074__gitsurfer__main")
	records := testRecords(
		[]float32{1, 0, 0, 0},
		[]float32{0, 1, 0, 0},
		[]float32{0.7, 0.7, 0, 0},
	)
	require.NoError(t, store.Replace(ctx, ns, nil, records))

	// Querying with a stored vector must rank that record first with
	// similarity ~1.
	matches, err := store.Search(ctx, ns.ID, []float32{0, 1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, records[1].ID, matches[0].Record.ID)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-6)
	assert.Greater(t, matches[0].Similarity, matches[1].Similarity)
}

func TestSearch_EmptyNamespace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ns := testNamespace("kumar8074__gitsurfer__main")
	require.NoError(t, store.Replace(ctx, ns, nil, nil))

	matches, err := store.Search(ctx, ns.ID, []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearch_MissingNamespace(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Search(context.Background(), "missing__repo__main", []float32{1}, 5)
	require.ErrorIs(t, err, domain.ErrNamespaceNotFound)
}

func TestDeleteNamespace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ns := testNamespace("kumar8074__gitsurfer__main")
	require.NoError(t, store.Replace(ctx, ns, nil, testRecords([]float32{1, 0, 0, 0})))

	require.NoError(t, store.DeleteNamespace(ctx, ns.ID))
	_, err := store.GetNamespace(ctx, ns.ID)
	require.ErrorIs(t, err, domain.ErrNamespaceNotFound)

	require.ErrorIs(t, store.DeleteNamespace(ctx, ns.ID), domain.ErrNamespaceNotFound)
}

func TestListNamespaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := testNamespace("kumar8074__older__main")
	older.IndexedAt = time.Now().Add(-time.Hour)
	newer := testNamespace("kumar8074__newer__main")
	newer.IndexedAt = time.Now()

	require.NoError(t, store.Replace(ctx, older, nil, nil))
	require.NoError(t, store.Replace(ctx, newer, nil, nil))

	namespaces, err := store.ListNamespaces(ctx)
	require.NoError(t, err)
	require.Len(t, namespaces, 2)
	assert.Equal(t, newer.ID, namespaces[0].ID)
	assert.Equal(t, older.ID, namespaces[1].ID)
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	vec := []float32{1.5, -0.25, 0, 3.14159}
	assert.Equal(t, vec, bytesToFloat32Slice(float32SliceToBytes(vec)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
