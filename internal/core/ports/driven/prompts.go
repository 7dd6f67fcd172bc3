package driven

// Prompt names understood by PromptStore implementations.
const (
	// PromptStructureSummary asks the LLM to describe a repository's layout
	// from its file tree. Takes one %s placeholder (the tree text).
	PromptStructureSummary = "structure_summary"

	// PromptAnswerSystem is the system prompt for grounded question
	// answering. Takes one %s placeholder (the retrieved context).
	PromptAnswerSystem = "answer_system"
)

// PromptStore loads prompt templates, allowing users to customise them.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
