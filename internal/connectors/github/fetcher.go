package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
	"github.com/kumar8074/GitSurfer/internal/core/ports/driven"
	"github.com/kumar8074/GitSurfer/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.RepositoryFetcher = (*Fetcher)(nil)

// DefaultMaxFileSize excludes files larger than 1MB from fetching.
const DefaultMaxFileSize = 1 << 20

// Fetcher retrieves the text-bearing files of a GitHub repository.
type Fetcher struct {
	client      *Client
	maxFileSize int64
}

// NewFetcher creates a repository fetcher on top of a GitHub client.
// maxFileSize <= 0 selects the default limit.
func NewFetcher(client *Client, maxFileSize int64) *Fetcher {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Fetcher{
		client:      client,
		maxFileSize: maxFileSize,
	}
}

// Fetch returns the eligible documents of the repository. Failures are
// wrapped in *domain.FetchError so the session can recover to the URL
// prompt; an empty repository yields an empty slice and no error.
func (f *Fetcher) Fetch(ctx context.Context, repo domain.Repository) ([]domain.Document, error) {
	branch, err := f.resolveBranch(ctx, repo)
	if err != nil {
		return nil, &domain.FetchError{Repo: repo.String(), Err: err}
	}

	tree, err := f.client.GetTree(ctx, repo.Owner, repo.Name, branch)
	if err != nil {
		if IsNotFound(err) {
			err = fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
		}
		return nil, &domain.FetchError{Repo: repo.String(), Err: err}
	}

	if tree.GetTruncated() {
		logger.Warn("Tree listing for %s was truncated; some files will be skipped", repo)
	}

	docs := make([]domain.Document, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if !f.eligible(entry) {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, &domain.FetchError{Repo: repo.String(), Err: ctx.Err()}
		default:
		}

		content, err := f.fetchBlobContent(ctx, repo.Owner, repo.Name, entry.GetSHA())
		if err != nil {
			// Unreadable blobs are skipped rather than failing the fetch.
			logger.Debug("Skipping %s: %v", entry.GetPath(), err)
			continue
		}

		docs = append(docs, domain.Document{
			Path:    entry.GetPath(),
			Content: content,
			Size:    entry.GetSize(),
			SHA:     entry.GetSHA(),
		})
	}

	logger.Debug("Fetched %d documents from %s", len(docs), repo)
	return docs, nil
}

// resolveBranch confirms the repository exists and picks the branch to
// fetch. When the caller asked for the conventional default but the
// repository uses a different default branch, the repository's own default
// wins.
func (f *Fetcher) resolveBranch(ctx context.Context, repo domain.Repository) (string, error) {
	repository, err := f.client.GetRepository(ctx, repo.Owner, repo.Name)
	if err != nil {
		if IsNotFound(err) {
			return "", fmt.Errorf("%w: %s/%s", ErrRepoNotFound, repo.Owner, repo.Name)
		}
		return "", err
	}

	branch := repo.Branch
	if branch == "" || branch == domain.DefaultBranch {
		if def := repository.GetDefaultBranch(); def != "" {
			branch = def
		}
	}
	return branch, nil
}

// eligible reports whether a tree entry should be fetched: regular text
// files within the size limit.
func (f *Fetcher) eligible(entry *gh.TreeEntry) bool {
	if entry.GetType() != "blob" {
		return false
	}
	if isBinaryExtension(entry.GetPath()) {
		return false
	}
	if int64(entry.GetSize()) > f.maxFileSize {
		return false
	}
	return true
}

// fetchBlobContent fetches a blob and decodes its content to text.
func (f *Fetcher) fetchBlobContent(ctx context.Context, owner, repo, sha string) (string, error) {
	blob, err := f.client.GetBlob(ctx, owner, repo, sha)
	if err != nil {
		return "", err
	}

	if blob.GetEncoding() == "base64" {
		// Remove any whitespace from base64 content
		raw := strings.ReplaceAll(blob.GetContent(), "\n", "")
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return "", fmt.Errorf("decode blob %s: %w", sha, err)
		}
		return string(decoded), nil
	}

	return blob.GetContent(), nil
}

// binaryExts lists file extensions that indicate binary content.
var binaryExts = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".7z": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true, ".webp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".bin": true, ".dat": true, ".db": true, ".sqlite": true,
	".pyc": true, ".pyo": true, ".class": true, ".o": true, ".a": true,
}

// isBinaryExtension checks if a file extension indicates a binary file.
func isBinaryExtension(path string) bool {
	return binaryExts[strings.ToLower(filepath.Ext(path))]
}
