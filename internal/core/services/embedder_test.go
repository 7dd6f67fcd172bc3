package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/postprocessors/chunker"
)

func TestIndex(t *testing.T) {
	store := newMemoryStore()
	embedding := newFakeEmbedding()
	e := NewEmbedder(embedding, store, chunker.New(), 1, time.Millisecond)

	repo := testRepo()
	docs := []domain.Document{
		{Path: "main.go", Content: strings.Repeat("package main\n", 200)},
		{Path: "README.md", Content: "GitSurfer"},
	}

	indexed, err := e.Index(context.Background(), repo, docs)
	require.NoError(t, err)
	assert.Greater(t, indexed, 1)

	ns, err := store.GetNamespace(context.Background(), repo.NamespaceID())
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGemini, ns.EmbeddingProvider)
	assert.Equal(t, "text-embedding-004", ns.EmbeddingModel)
	assert.Equal(t, 8, ns.Dimensions)
	assert.Equal(t, indexed, ns.ChunkCount)
}

func TestIndex_Idempotent(t *testing.T) {
	store := newMemoryStore()
	e := NewEmbedder(newFakeEmbedding(), store, chunker.New(), 1, time.Millisecond)

	repo := testRepo()
	docs := []domain.Document{{Path: "main.go", Content: strings.Repeat("x", 2500)}}

	first, err := e.Index(context.Background(), repo, docs)
	require.NoError(t, err)
	second, err := e.Index(context.Background(), repo, docs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	count, err := store.CountRecords(context.Background(), repo.NamespaceID())
	require.NoError(t, err)
	assert.Equal(t, first, count)
}

func TestIndex_ProviderFailure(t *testing.T) {
	store := newMemoryStore()
	embedding := newFakeEmbedding()
	embedding.err = errors.New("quota exceeded")
	e := NewEmbedder(embedding, store, chunker.New(), 2, time.Millisecond)

	repo := testRepo()
	_, err := e.Index(context.Background(), repo, []domain.Document{{Path: "a.go", Content: "package a"}})
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "embed", provErr.Op)

	// Nothing was written for the failed run.
	_, err = store.GetNamespace(context.Background(), repo.NamespaceID())
	require.ErrorIs(t, err, domain.ErrNamespaceNotFound)
}

func TestIndex_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.replaceErr = &domain.StoreError{Op: "replace", Err: errors.New("disk full")}
	e := NewEmbedder(newFakeEmbedding(), store, chunker.New(), 1, time.Millisecond)

	_, err := e.Index(context.Background(), testRepo(), []domain.Document{{Path: "a.go", Content: "package a"}})
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
}
