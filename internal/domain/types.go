package domain

// Source is a single plain-text input, typically one uploaded document or
// one OCR-recovered page. Extraction from binary formats happens upstream.
type Source struct {
	Name string
	Text string
}

// DocumentChunk is a word-bounded slice of a source's text. Chunks are
// immutable once created and live for one processing session.
type DocumentChunk struct {
	ChunkID    string
	SourceName string
	Text       string
}

// SearchResult represents a matching chunk with a relevance score in [0, 1].
type SearchResult struct {
	Chunk DocumentChunk
	Score float64
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in the session's chat history.
type ConversationTurn struct {
	Role Role
	Text string
}

// AnswerMode reports which policy produced an answer.
type AnswerMode string

const (
	// ModeGenerated marks answers returned verbatim from the language model.
	ModeGenerated AnswerMode = "generated"
	// ModeFallback marks deterministic answers built without a model call.
	ModeFallback AnswerMode = "fallback"
)

// Answer is the result of answering a question. Fallback answers carry a
// short Reason describing why the model path was not used.
type Answer struct {
	Text   string
	Mode   AnswerMode
	Reason string
}

// Generator produces an answer grounded in retrieved chunks. Implementations
// must degrade to fallback text instead of returning errors.
type Generator interface {
	Answer(question string, results []SearchResult, history []ConversationTurn) Answer
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
