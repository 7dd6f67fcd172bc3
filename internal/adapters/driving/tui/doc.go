// Package tui implements the interactive chat interface for GitSurfer
// using Bubble Tea. The model mirrors the assistant's session flow: it
// prompts for a repository URL, shows pipeline progress while the
// repository is fetched, summarized and embedded, and then runs the
// question/answer loop with cited sources.
package tui
