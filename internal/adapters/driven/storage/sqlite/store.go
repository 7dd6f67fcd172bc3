package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kumar8074/GitSurfer/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store partitioned by repository namespace.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.gitsurfer/data/gitsurfer.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".gitsurfer", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "gitsurfer.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// GetNamespace returns namespace metadata, or domain.ErrNamespaceNotFound.
func (s *Store) GetNamespace(ctx context.Context, id string) (*domain.Namespace, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, repo, branch, embedding_provider, embedding_model,
		       dimensions, chunk_count, indexed_at
		FROM namespaces WHERE id = ?
	`, id)

	ns, err := scanNamespace(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNamespaceNotFound
		}
		return nil, &domain.StoreError{Op: "get namespace", Err: err}
	}
	return ns, nil
}

// ListNamespaces returns all indexed namespaces ordered by most recent.
func (s *Store) ListNamespaces(ctx context.Context) ([]domain.Namespace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, repo, branch, embedding_provider, embedding_model,
		       dimensions, chunk_count, indexed_at
		FROM namespaces
		ORDER BY indexed_at DESC
	`)
	if err != nil {
		return nil, &domain.StoreError{Op: "list namespaces", Err: err}
	}
	defer rows.Close()

	var namespaces []domain.Namespace //nolint:prealloc // size unknown from query
	for rows.Next() {
		ns, err := scanNamespace(rows.Scan)
		if err != nil {
			return nil, &domain.StoreError{Op: "list namespaces", Err: err}
		}
		namespaces = append(namespaces, *ns)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "list namespaces", Err: err}
	}

	return namespaces, nil
}

// Replace atomically replaces the namespace's entire content. Prior records
// are deleted and the new documents and records inserted in one transaction,
// so a failure leaves the previous index intact and a success can never hold
// duplicates.
func (s *Store) Replace(
	ctx context.Context, ns domain.Namespace, docs []domain.Document, records []domain.EmbeddingRecord,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "replace", Err: fmt.Errorf("beginning transaction: %w", err)}
	}
	defer tx.Rollback() //nolint:errcheck

	if ns.IndexedAt.IsZero() {
		ns.IndexedAt = time.Now().UTC()
	}
	ns.ChunkCount = len(records)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO namespaces
			(id, owner, repo, branch, embedding_provider, embedding_model, dimensions, chunk_count, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner = excluded.owner,
			repo = excluded.repo,
			branch = excluded.branch,
			embedding_provider = excluded.embedding_provider,
			embedding_model = excluded.embedding_model,
			dimensions = excluded.dimensions,
			chunk_count = excluded.chunk_count,
			indexed_at = excluded.indexed_at
	`, ns.ID, ns.Owner, ns.Repo, ns.Branch, string(ns.EmbeddingProvider),
		ns.EmbeddingModel, ns.Dimensions, ns.ChunkCount, ns.IndexedAt)
	if err != nil {
		return &domain.StoreError{Op: "replace", Err: fmt.Errorf("saving namespace: %w", err)}
	}

	// Clear any previous index for this namespace.
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE namespace_id = ?", ns.ID); err != nil {
		return &domain.StoreError{Op: "replace", Err: fmt.Errorf("clearing documents: %w", err)}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE namespace_id = ?", ns.ID); err != nil {
		return &domain.StoreError{Op: "replace", Err: fmt.Errorf("clearing chunks: %w", err)}
	}

	docStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (namespace_id, path, size, sha)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return &domain.StoreError{Op: "replace", Err: fmt.Errorf("preparing document statement: %w", err)}
	}
	defer docStmt.Close()

	for _, doc := range docs {
		if _, err := docStmt.ExecContext(ctx, ns.ID, doc.Path, doc.Size, doc.SHA); err != nil {
			return &domain.StoreError{Op: "replace", Err: fmt.Errorf("saving document %s: %w", doc.Path, err)}
		}
	}

	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, namespace_id, path, content, position, start_offset, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return &domain.StoreError{Op: "replace", Err: fmt.Errorf("preparing chunk statement: %w", err)}
	}
	defer chunkStmt.Close()

	for _, rec := range records {
		embeddingBlob := float32SliceToBytes(rec.Embedding)
		if _, err := chunkStmt.ExecContext(ctx, rec.ID, ns.ID, rec.Path, rec.Content,
			rec.Position, rec.Offset, embeddingBlob); err != nil {
			return &domain.StoreError{Op: "replace", Err: fmt.Errorf("saving chunk %s: %w", rec.ID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "replace", Err: fmt.Errorf("committing transaction: %w", err)}
	}
	return nil
}

// DeleteNamespace removes a namespace and all of its records.
func (s *Store) DeleteNamespace(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM namespaces WHERE id = ?", id)
	if err != nil {
		return &domain.StoreError{Op: "delete namespace", Err: err}
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return domain.ErrNamespaceNotFound
	}
	return nil
}

// CountRecords returns the number of records in a namespace.
func (s *Store) CountRecords(ctx context.Context, id string) (int, error) {
	if _, err := s.GetNamespace(ctx, id); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE namespace_id = ?", id).Scan(&count)
	if err != nil {
		return 0, &domain.StoreError{Op: "count records", Err: err}
	}
	return count, nil
}

// Search returns the k records nearest to the query vector by cosine
// similarity. The namespace must exist; an empty namespace yields an empty
// result rather than an error.
func (s *Store) Search(ctx context.Context, id string, query []float32, k int) ([]domain.Match, error) {
	if _, err := s.GetNamespace(ctx, id); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, content, position, start_offset, embedding
		FROM chunks WHERE namespace_id = ?
	`, id)
	if err != nil {
		return nil, &domain.StoreError{Op: "search", Err: err}
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var rec domain.EmbeddingRecord
		var embeddingBlob []byte
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.Content, &rec.Position,
			&rec.Offset, &embeddingBlob); err != nil {
			return nil, &domain.StoreError{Op: "search", Err: fmt.Errorf("scanning chunk: %w", err)}
		}
		rec.Embedding = bytesToFloat32Slice(embeddingBlob)

		matches = append(matches, domain.Match{
			Record:     rec,
			Similarity: cosineSimilarity(query, rec.Embedding),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "search", Err: err}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Mismatched lengths and zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// scanNamespace scans a namespace row via the given scan function.
func scanNamespace(scan func(...any) error) (*domain.Namespace, error) {
	var ns domain.Namespace
	var provider string
	var indexedAt sql.NullTime
	if err := scan(&ns.ID, &ns.Owner, &ns.Repo, &ns.Branch, &provider,
		&ns.EmbeddingModel, &ns.Dimensions, &ns.ChunkCount, &indexedAt); err != nil {
		return nil, err
	}

	ns.EmbeddingProvider = domain.AIProvider(provider)
	if indexedAt.Valid {
		ns.IndexedAt = indexedAt.Time
	}
	return &ns, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
