package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
)

func TestSplit_RoundTrip(t *testing.T) {
	// Dropping the overlap from every chunk after the first reconstructs
	// the original content exactly.
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
		content   string
	}{
		{"defaults", DefaultChunkSize, DefaultChunkOverlap, strings.Repeat("abcdefghij", 350)},
		{"no overlap", 100, 0, strings.Repeat("x", 1000)},
		{"small chunks", 10, 3, "the quick brown fox jumps over the lazy dog"},
		{"content shorter than chunk", 1000, 200, "short"},
		{"content exactly one chunk", 50, 10, strings.Repeat("y", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithChunkSize(tt.chunkSize), WithOverlap(tt.overlap))
			chunks := c.Split(domain.Document{Path: "f.txt", Content: tt.content})
			require.NotEmpty(t, chunks)

			var rebuilt strings.Builder
			rebuilt.WriteString(chunks[0].Content)
			for _, chunk := range chunks[1:] {
				rebuilt.WriteString(chunk.Content[c.Overlap():])
			}
			assert.Equal(t, tt.content, rebuilt.String())
		})
	}
}

func TestSplit_ChunkBounds(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(20))
	content := strings.Repeat("z", 450)
	chunks := c.Split(domain.Document{Path: "f.txt", Content: content})

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 100)
		assert.Equal(t, i, chunk.Position)
		assert.Equal(t, i*80, chunk.Offset)
		assert.Equal(t, "f.txt", chunk.Path)
		assert.NotEmpty(t, chunk.ID)
	}

	// Consecutive chunks share the configured overlap.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Content
		assert.Equal(t, prev[len(prev)-20:], chunks[i].Content[:20])
	}
}

func TestSplit_Empty(t *testing.T) {
	c := New()
	assert.Nil(t, c.Split(domain.Document{Path: "empty.txt"}))
}

func TestNew_ClampsOverlap(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(100))
	assert.Equal(t, 25, c.Overlap())

	c = New(WithChunkSize(100), WithOverlap(500))
	assert.Equal(t, 25, c.Overlap())
}

func TestSplitAll(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(0))
	chunks := c.SplitAll([]domain.Document{
		{Path: "a.txt", Content: strings.Repeat("a", 25)},
		{Path: "b.txt", Content: "bb"},
		{Path: "empty.txt", Content: ""},
	})

	require.Len(t, chunks, 4)
	assert.Equal(t, "a.txt", chunks[0].Path)
	assert.Equal(t, "b.txt", chunks[3].Path)
}
