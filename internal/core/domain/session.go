package domain

import (
	"fmt"
	"time"
)

// SessionState is a named state of the assistant's control flow.
type SessionState string

// Session states. Ready is the only state where questions are accepted;
// Ended is terminal.
const (
	StateAwaitingRepoURL SessionState = "awaiting_repo_url"
	StateFetching        SessionState = "fetching"
	StateSummarizing     SessionState = "summarizing"
	StateEmbedding       SessionState = "embedding"
	StateReady           SessionState = "ready"
	StateAnswering       SessionState = "answering"
	StateEnded           SessionState = "ended"
)

// sessionTransitions enumerates the permitted state transitions.
// Any fetch/summarize/embed failure transitions back to AwaitingRepoURL.
var sessionTransitions = map[SessionState][]SessionState{
	StateAwaitingRepoURL: {StateFetching, StateEnded},
	StateFetching:        {StateSummarizing, StateReady, StateAwaitingRepoURL},
	StateSummarizing:     {StateEmbedding, StateAwaitingRepoURL},
	StateEmbedding:       {StateReady, StateAwaitingRepoURL},
	StateReady:           {StateAnswering, StateFetching, StateEnded},
	StateAnswering:       {StateReady},
	StateEnded:           {},
}

// ConversationTurn is a question/answer pair from the interactive loop.
// Turns are session-scoped and never persisted.
type ConversationTurn struct {
	// Question is the user's question.
	Question string

	// Answer is the assistant's response.
	Answer string

	// Sources are the document paths cited in the answer.
	Sources []string

	// AskedAt is when the question was submitted.
	AskedAt time.Time
}

// Session holds the state for one interactive assistant run: the loaded
// repository, its document set, the structure summary and the conversation
// history. Exactly one repository is active at a time.
type Session struct {
	state      SessionState
	repository Repository
	documents  []Document
	summary    string
	turns      []ConversationTurn
}

// NewSession creates a session awaiting a repository URL.
func NewSession() *Session {
	return &Session{state: StateAwaitingRepoURL}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	return s.state
}

// TransitionTo moves the session to the target state, enforcing the
// permitted transitions. Returns ErrSessionState on an illegal move.
func (s *Session) TransitionTo(target SessionState) error {
	if s.state == StateEnded {
		return ErrSessionEnded
	}
	for _, allowed := range sessionTransitions[s.state] {
		if allowed == target {
			s.state = target
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrSessionState, s.state, target)
}

// Reset clears all repository state and returns to AwaitingRepoURL.
// Used when a pipeline stage fails so no partial session is left Ready.
func (s *Session) Reset() {
	s.state = StateAwaitingRepoURL
	s.repository = Repository{}
	s.documents = nil
	s.summary = ""
	s.turns = nil
}

// SetRepository records the active repository and its fetched document set.
func (s *Session) SetRepository(repo Repository, docs []Document) {
	s.repository = repo
	s.documents = docs
}

// Repository returns the active repository.
func (s *Session) Repository() Repository {
	return s.repository
}

// Documents returns the fetched document set.
func (s *Session) Documents() []Document {
	return s.documents
}

// SetSummary records the structure summary for the active repository.
func (s *Session) SetSummary(summary string) {
	s.summary = summary
}

// Summary returns the structure summary.
func (s *Session) Summary() string {
	return s.summary
}

// AppendTurn appends a completed question/answer pair to the transcript.
func (s *Session) AppendTurn(turn ConversationTurn) {
	s.turns = append(s.turns, turn)
}

// RecentTurns returns up to limit of the most recent conversation turns,
// oldest first.
func (s *Session) RecentTurns(limit int) []ConversationTurn {
	if limit <= 0 || len(s.turns) == 0 {
		return nil
	}
	if len(s.turns) <= limit {
		return s.turns
	}
	return s.turns[len(s.turns)-limit:]
}

// Turns returns the full transcript.
func (s *Session) Turns() []ConversationTurn {
	return s.turns
}
