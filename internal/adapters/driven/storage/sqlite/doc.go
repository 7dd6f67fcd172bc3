// Package sqlite provides the persistent vector store backed by SQLite.
// Embeddings are stored as little-endian float32 blobs and searched with a
// brute-force cosine scan within one namespace, which is fast enough for
// single-repository indexes.
package sqlite
