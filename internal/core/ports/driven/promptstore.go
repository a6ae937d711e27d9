package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load from files or fall back to built-in defaults.
type PromptStore interface {
	// Load returns the prompt template with the given name.
	Load(name string) (string, error)
}

// Prompt names.
const (
	// PromptAnswerSystem is the system instruction for answer synthesis.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerQuery frames the query and the retrieved passages.
	// Placeholders: %s query, %s passages.
	PromptAnswerQuery = "answer_query"
)
