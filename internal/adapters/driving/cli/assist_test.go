package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumar8074/GitSurfer/internal/core/domain"
)

func TestPlainSession_FullConversation(t *testing.T) {
	assistant := newFakeAssistant()
	in := strings.NewReader("https://github.com/kumar8074/GitSurfer\nWhere is the entry point?\nexit\n")
	out := new(bytes.Buffer)

	err := runPlainSession(context.Background(), assistant, in, out, false)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "repo url>")
	assert.Contains(t, output, "Indexed kumar8074/GitSurfer@main (12 chunks)")
	assert.Contains(t, output, "A CLI research assistant.")
	assert.Contains(t, output, "you>")
	assert.Contains(t, output, "The entry point is cmd/gitsurfer/main.go.")
	assert.Contains(t, output, "sources: cmd/gitsurfer/main.go")
	assert.Contains(t, output, "Bye.")

	assert.Equal(t, []string{"https://github.com/kumar8074/GitSurfer"}, assistant.loadURLs)
	assert.Equal(t, []string{"Where is the entry point?"}, assistant.asked)
	assert.True(t, assistant.ended)
}

func TestPlainSession_RecoverableErrorKeepsPrompting(t *testing.T) {
	assistant := newFakeAssistant()
	assistant.loadErr = &domain.FetchError{Err: errors.New("repository not found")}
	in := strings.NewReader("bad/url/here/deep\nquit\n")
	out := new(bytes.Buffer)

	err := runPlainSession(context.Background(), assistant, in, out, false)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "error: fetch: repository not found")
	// Back at the URL prompt after the failure.
	assert.GreaterOrEqual(t, strings.Count(out.String(), "repo url>"), 2)
}

func TestPlainSession_ConfigErrorIsFatal(t *testing.T) {
	assistant := newFakeAssistant()
	assistant.loadErr = &domain.ConfigError{Setting: "EMBEDDING_PROVIDER", Reason: "model mismatch"}
	in := strings.NewReader("https://github.com/a/b\nquit\n")
	out := new(bytes.Buffer)

	err := runPlainSession(context.Background(), assistant, in, out, false)
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.False(t, assistant.ended)
}

func TestPlainSession_QuitBeforeLoad(t *testing.T) {
	assistant := newFakeAssistant()
	in := strings.NewReader("quit\n")
	out := new(bytes.Buffer)

	err := runPlainSession(context.Background(), assistant, in, out, false)
	require.NoError(t, err)
	assert.True(t, assistant.ended)
	assert.Empty(t, assistant.loadURLs)
}

func TestPlainSession_EOFEndsSession(t *testing.T) {
	assistant := newFakeAssistant()
	in := strings.NewReader("")
	out := new(bytes.Buffer)

	err := runPlainSession(context.Background(), assistant, in, out, false)
	require.NoError(t, err)
	assert.True(t, assistant.ended)
}

func TestPlainSession_BlankLinesIgnored(t *testing.T) {
	assistant := newFakeAssistant()
	in := strings.NewReader("\n\n   \nexit\n")
	out := new(bytes.Buffer)

	err := runPlainSession(context.Background(), assistant, in, out, false)
	require.NoError(t, err)
	assert.Empty(t, assistant.loadURLs)
	assert.Empty(t, assistant.asked)
}

func TestAssistCmd_Flags(t *testing.T) {
	require.NotNil(t, assistCmd.Flags().Lookup("force"))
	require.NotNil(t, assistCmd.Flags().Lookup("plain"))
}
