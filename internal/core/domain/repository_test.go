package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepositoryURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Repository
	}{
		{
			name: "full https URL",
			url:  "https://github.com/kumar8074/GitSurfer",
			want: Repository{Owner: "kumar8074", Name: "GitSurfer", Branch: "main"},
		},
		{
			name: "https URL with branch",
			url:  "https://github.com/kumar8074/GitSurfer/tree/develop",
			want: Repository{Owner: "kumar8074", Name: "GitSurfer", Branch: "develop"},
		},
		{
			name: "bare domain",
			url:  "github.com/golang/go",
			want: Repository{Owner: "golang", Name: "go", Branch: "main"},
		},
		{
			name: "owner/repo shorthand",
			url:  "torvalds/linux",
			want: Repository{Owner: "torvalds", Name: "linux", Branch: "main"},
		},
		{
			name: "shorthand with branch",
			url:  "torvalds/linux/tree/v6.1",
			want: Repository{Owner: "torvalds", Name: "linux", Branch: "v6.1"},
		},
		{
			name: "trailing .git stripped",
			url:  "https://github.com/kumar8074/GitSurfer.git",
			want: Repository{Owner: "kumar8074", Name: "GitSurfer", Branch: "main"},
		},
		{
			name: "trailing slash",
			url:  "https://github.com/kumar8074/GitSurfer/",
			want: Repository{Owner: "kumar8074", Name: "GitSurfer", Branch: "main"},
		},
		{
			name: "surrounding whitespace",
			url:  "  kumar8074/GitSurfer  ",
			want: Repository{Owner: "kumar8074", Name: "GitSurfer", Branch: "main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepositoryURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRepositoryURL_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"justarepo",
		"https://gitlab.com/owner/repo",
		"https://github.com/onlyowner",
		"owner repo",
	}

	for _, url := range invalid {
		t.Run(url, func(t *testing.T) {
			_, err := ParseRepositoryURL(url)
			require.ErrorIs(t, err, ErrInvalidRepoURL)
		})
	}
}

func TestRepository_NamespaceID(t *testing.T) {
	repo := Repository{Owner: "Kumar8074", Name: "GitSurfer", Branch: "Main"}
	assert.Equal(t, "kumar8074__gitsurfer__main", repo.NamespaceID())
}

func TestRepository_String(t *testing.T) {
	repo := Repository{Owner: "kumar8074", Name: "GitSurfer", Branch: "main"}
	assert.Equal(t, "kumar8074/GitSurfer@main", repo.String())
	assert.Equal(t, "https://github.com/kumar8074/GitSurfer", repo.WebURL())
}
