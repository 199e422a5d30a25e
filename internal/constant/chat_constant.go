package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleModel     = "model"

	// DefaultModel is used whenever the settings resource does not name one.
	DefaultModel = "gemini-3-flash-preview"

	// GenerationFailedMessage replaces the assistant message content when a
	// generation fails. It carries no citations.
	GenerationFailedMessage = "Something went wrong. Please try again."

	// EmptyAnswerMessage is shown when the provider returns an empty answer
	// on the grounded path.
	EmptyAnswerMessage = "No answer could be generated."

	// PersistTimelineTopic carries timeline-changed events from the
	// conversation service to the debounced history flusher.
	PersistTimelineTopic = "PERSIST_CHAT_TIMELINE"
)

// DefaultSystemPrompt backs the grounded path when no prompt has been saved
// through the admin surface.
const DefaultSystemPrompt = `You are a friendly, professional AI assistant.

## Role
- Provide accurate and helpful answers to user questions.
- When document-based retrieval (RAG) is active, answer from the provided documents.

## Answer style
- Give clear, structured answers.
- Use lists or step-by-step explanations when helpful.

## Caution
- Do not guess when unsure; say you do not know.
- When information comes from a document, make the source explicit.`
