package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driven"
)

// fakeFetcher returns canned documents or a canned error.
type fakeFetcher struct {
	docs  []domain.Document
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ domain.Repository) ([]domain.Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

// fakeLLM returns a canned completion or error, recording prompts.
type fakeLLM struct {
	response string
	err      error
	prompts  []string
	chats    [][]driven.ChatMessage
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	f.chats = append(f.chats, messages)
	return f.response, f.err
}

func (f *fakeLLM) ModelName() string            { return "fake-model" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

// fakeEmbedding deterministically embeds text by hashing characters into a
// small vector, so identical texts embed identically.
type fakeEmbedding struct {
	provider string
	model    string
	err      error
}

func newFakeEmbedding() *fakeEmbedding {
	return &fakeEmbedding{provider: "gemini", model: "text-embedding-004"}
}

func (f *fakeEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return hashVector(text), nil
}

func (f *fakeEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = hashVector(text)
	}
	return vectors, nil
}

func (f *fakeEmbedding) Dimensions() int              { return 8 }
func (f *fakeEmbedding) Provider() string             { return f.provider }
func (f *fakeEmbedding) ModelName() string            { return f.model }
func (f *fakeEmbedding) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedding) Close() error                 { return nil }

func hashVector(text string) []float32 {
	vec := make([]float32, 8)
	for i, r := range text {
		vec[i%8] += float32(r%97) / 97
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}

// memoryStore is an in-memory VectorStore for orchestration tests.
type memoryStore struct {
	namespaces map[string]*nsEntry
	replaceErr error
}

type nsEntry struct {
	ns      domain.Namespace
	docs    []domain.Document
	records []domain.EmbeddingRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{namespaces: make(map[string]*nsEntry)}
}

func (m *memoryStore) GetNamespace(_ context.Context, id string) (*domain.Namespace, error) {
	entry, ok := m.namespaces[id]
	if !ok {
		return nil, domain.ErrNamespaceNotFound
	}
	ns := entry.ns
	return &ns, nil
}

func (m *memoryStore) ListNamespaces(_ context.Context) ([]domain.Namespace, error) {
	out := make([]domain.Namespace, 0, len(m.namespaces))
	for _, entry := range m.namespaces {
		out = append(out, entry.ns)
	}
	return out, nil
}

func (m *memoryStore) Replace(
	_ context.Context, ns domain.Namespace, docs []domain.Document, records []domain.EmbeddingRecord,
) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	ns.ChunkCount = len(records)
	m.namespaces[ns.ID] = &nsEntry{ns: ns, docs: docs, records: records}
	return nil
}

func (m *memoryStore) DeleteNamespace(_ context.Context, id string) error {
	if _, ok := m.namespaces[id]; !ok {
		return domain.ErrNamespaceNotFound
	}
	delete(m.namespaces, id)
	return nil
}

func (m *memoryStore) CountRecords(_ context.Context, id string) (int, error) {
	entry, ok := m.namespaces[id]
	if !ok {
		return 0, domain.ErrNamespaceNotFound
	}
	return len(entry.records), nil
}

func (m *memoryStore) Search(_ context.Context, id string, query []float32, k int) ([]domain.Match, error) {
	entry, ok := m.namespaces[id]
	if !ok {
		return nil, domain.ErrNamespaceNotFound
	}

	matches := make([]domain.Match, 0, len(entry.records))
	for _, rec := range entry.records {
		matches = append(matches, domain.Match{
			Record:     rec,
			Similarity: cosine(query, rec.Embedding),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (m *memoryStore) Close() error { return nil }

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// fakePrompts serves in-memory prompt templates.
type fakePrompts struct{}

func (fakePrompts) Load(name string) (string, error) {
	switch name {
	case driven.PromptStructureSummary:
		return "Describe this repository:\n%s", nil
	case driven.PromptAnswerSystem:
		return "Answer from the context below.\nCONTEXT:\n%s", nil
	default:
		return "", fmt.Errorf("unknown prompt %q", name)
	}
}
