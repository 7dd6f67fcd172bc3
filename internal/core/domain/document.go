package domain

import "time"

// Document is a single text-bearing file fetched from a repository.
// Documents are immutable once fetched and live in memory for the session;
// only what the Embedder persists survives past session end.
type Document struct {
	// Path is the file path within the repository.
	Path string

	// Content is the decoded text content of the file.
	Content string

	// Size is the blob size in bytes as reported by the hosting API.
	Size int

	// SHA is the blob SHA, kept for traceability back to the fetched tree.
	SHA string
}

// Chunk is a bounded-size slice of a Document's text, the unit of
// embedding and retrieval. One Document yields zero or more Chunks.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Path is the source document path.
	Path string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Offset is the character offset of this chunk within the document.
	Offset int
}

// EmbeddingRecord is a Chunk plus its vector representation, persisted in
// the vector store under a repository namespace. Created once per Chunk at
// index time and read-only thereafter.
type EmbeddingRecord struct {
	Chunk

	// Embedding is the vector representation produced by the embedding provider.
	Embedding []float32
}

// Match is a similarity search result against a namespace.
type Match struct {
	// Record is the matched embedding record.
	Record EmbeddingRecord

	// Similarity is the cosine similarity score (-1 to 1, higher is closer).
	Similarity float64
}

// Namespace is a logical partition of the vector store holding all
// EmbeddingRecords for one repository. Its metadata pins the embedding
// provider and model used at index time so queries can detect mismatches.
type Namespace struct {
	// ID is the namespace key derived from the repository identity.
	ID string

	// Owner, Repo and Branch identify the indexed repository.
	Owner  string
	Repo   string
	Branch string

	// EmbeddingProvider is the provider used at index time.
	EmbeddingProvider AIProvider

	// EmbeddingModel is the model used at index time.
	EmbeddingModel string

	// Dimensions is the embedding vector size.
	Dimensions int

	// ChunkCount is the number of records indexed.
	ChunkCount int

	// IndexedAt is when the namespace was last (re)indexed.
	IndexedAt time.Time
}
