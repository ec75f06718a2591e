// Package service holds the session-scoped state of the document chatbot:
// the current chunk set, the retrieval index built over it, and the
// conversation history. One question is fully resolved before the next is
// accepted; processing new sources replaces the index wholesale.
package service

import (
	"fmt"
	"strings"

	"docchat/internal/chunker"
	"docchat/internal/domain"
	"docchat/internal/index"
)

// Service owns the processing session. Create it once, call Process on
// upload, then Search/Ask per question. Not safe for concurrent use.
type Service struct {
	chunker    *chunker.WordChunker
	generator  domain.Generator
	summarizer domain.Summarizer

	topK                int
	minScore            float64
	summaryMaxSentences int

	index   *index.TfidfIndex
	history []domain.ConversationTurn
}

// ProcessResult reports the outcome of indexing a batch of sources.
type ProcessResult struct {
	Chunks []domain.DocumentChunk
	// Summary is a short description of the processed corpus.
	Summary string
	// EmptySources lists sources that yielded no chunks; they are skipped,
	// not fatal.
	EmptySources []string
}

// NewService wires the session components together.
func NewService(c *chunker.WordChunker, g domain.Generator, s domain.Summarizer, topK int, minScore float64, summaryMaxSentences int) *Service {
	if topK <= 0 {
		topK = index.DefaultTopK
	}
	return &Service{
		chunker:             c,
		generator:           g,
		summarizer:          s,
		topK:                topK,
		minScore:            minScore,
		summaryMaxSentences: summaryMaxSentences,
	}
}

// Process chunks every source and rebuilds the index from scratch,
// replacing any previous session state including the chat history. It fails
// only when no source yields readable text.
func (s *Service) Process(sources []domain.Source) (*ProcessResult, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources to process")
	}

	var allChunks []domain.DocumentChunk
	var emptySources []string
	var corpus strings.Builder
	for _, src := range sources {
		chunks, err := s.chunker.ChunkSource(src)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", src.Name, err)
		}
		if len(chunks) == 0 {
			emptySources = append(emptySources, src.Name)
			continue
		}
		allChunks = append(allChunks, chunks...)
		corpus.WriteString("\n")
		corpus.WriteString(src.Text)
	}
	if len(allChunks) == 0 {
		return nil, fmt.Errorf("no readable text found in the provided sources")
	}

	summary := ""
	if s.summarizer != nil {
		var err error
		summary, err = s.summarizer.Summarize(corpus.String(), s.summaryMaxSentences)
		if err != nil {
			return nil, fmt.Errorf("summarize corpus: %w", err)
		}
	}

	// Replace the session atomically: the new index, chunk set, and an
	// empty history become visible together.
	s.index = index.Build(allChunks)
	s.history = nil

	return &ProcessResult{Chunks: allChunks, Summary: summary, EmptySources: emptySources}, nil
}

// Ready reports whether sources have been processed into an index.
func (s *Service) Ready() bool { return s.index != nil }

// Chunks returns the current session's chunk set.
func (s *Service) Chunks() []domain.DocumentChunk {
	if s.index == nil {
		return nil
	}
	return s.index.Chunks()
}

// History returns the conversation so far.
func (s *Service) History() []domain.ConversationTurn { return s.history }

// Search runs the configured retrieval over the current index. Before any
// sources are processed it returns no results.
func (s *Service) Search(query string) []domain.SearchResult {
	if s.index == nil {
		return nil
	}
	return s.index.Search(query, s.topK, s.minScore)
}

// Ask answers a question against the current index and records both turns
// in the history. The generator sees the history as it stood before this
// question so follow-ups keep their context.
func (s *Service) Ask(question string) (domain.Answer, []domain.SearchResult) {
	results := s.Search(question)
	answer := s.generator.Answer(question, results, s.history)

	s.history = append(s.history,
		domain.ConversationTurn{Role: domain.RoleUser, Text: question},
		domain.ConversationTurn{Role: domain.RoleAssistant, Text: answer.Text},
	)
	return answer, results
}

// Reset clears the conversation history, keeping the indexed documents.
func (s *Service) Reset() { s.history = nil }
