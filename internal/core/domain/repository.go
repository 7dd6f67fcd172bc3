package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Repository identifies a hosted repository to analyse.
type Repository struct {
	// Owner is the user or organisation that owns the repository.
	Owner string

	// Name is the repository name.
	Name string

	// Branch is the git ref to fetch. Defaults to "main".
	Branch string
}

// DefaultBranch is used when a URL does not name a branch.
const DefaultBranch = "main"

// repoURLPatterns accept the formats users paste into the prompt:
// a full https URL, a bare github.com URL, or owner/repo shorthand,
// each optionally followed by /tree/<branch>.
var repoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https://github\.com/([^/\s]+)/([^/\s]+?)(?:/tree/([^/\s]+))?/?$`),
	regexp.MustCompile(`^github\.com/([^/\s]+)/([^/\s]+?)(?:/tree/([^/\s]+))?/?$`),
	regexp.MustCompile(`^([^/\s]+)/([^/\s]+?)(?:/tree/([^/\s]+))?/?$`),
}

// ParseRepositoryURL extracts owner, repo and branch from a repository URL.
// Returns ErrInvalidRepoURL when no supported format matches.
func ParseRepositoryURL(url string) (Repository, error) {
	trimmed := strings.TrimSpace(url)
	for _, pattern := range repoURLPatterns {
		match := pattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}

		repo := Repository{
			Owner:  match[1],
			Name:   strings.TrimSuffix(match[2], ".git"),
			Branch: match[3],
		}
		if repo.Branch == "" {
			repo.Branch = DefaultBranch
		}
		if repo.Owner == "" || repo.Name == "" {
			break
		}
		return repo, nil
	}

	return Repository{}, fmt.Errorf("%w: %q", ErrInvalidRepoURL, url)
}

// String returns the canonical owner/name@branch form.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name + "@" + r.Branch
}

// NamespaceID derives the vector store namespace key for this repository.
// Slashes are flattened so the key is safe to use in file paths.
func (r Repository) NamespaceID() string {
	return strings.ToLower(r.Owner + "__" + r.Name + "__" + r.Branch)
}

// WebURL returns the browsable URL for the repository.
func (r Repository) WebURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", r.Owner, r.Name)
}
