// Package llm generates answers grounded in retrieved document chunks,
// calling an OpenAI-compatible chat endpoint when a credential is
// configured and degrading to deterministic excerpt-based answers
// otherwise. Remote failures never surface to the caller.
package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"docchat/internal/domain"
	"docchat/internal/prompt"
)

const (
	// NoInformationMessage is returned whenever retrieval produced no results.
	NoInformationMessage = "I could not find relevant text in the uploaded documents for that question."
	// FallbackMarker opens every excerpt-based answer so callers can
	// recognize that no language model was used.
	FallbackMarker = "I found relevant passages, but no LLM is configured."

	DefaultHistoryWindow = 8

	fallbackResultLimit = 3
	excerptLimit        = 320
)

const systemPrompt = `You are a careful assistant for question-answering over uploaded documents.
Only use the provided context snippets.
If the context does not contain the answer, say you do not know.
When possible, include short citations in parentheses using chunk ids.`

// Config holds resolved settings for the answer generator. An empty APIKey
// selects the fallback policy for every call.
type Config struct {
	BaseURL         string
	APIKey          string
	Model           string
	Timeout         time.Duration
	HistoryWindow   int
	MaxContextChars int
}

// Generator produces grounded answers with a remote-model path and a
// deterministic fallback path.
type Generator struct {
	cfg    Config
	client *http.Client
}

// NewGenerator applies defaults and builds the HTTP client. It never fails:
// a missing credential simply means every answer uses the fallback policy.
func NewGenerator(cfg Config) *Generator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = prompt.DefaultMaxChars
	}
	return &Generator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Answer returns an answer grounded in the retrieved chunks. It never
// returns an error: empty results yield a fixed message, a missing
// credential or any remote failure yields the deterministic fallback.
func (g *Generator) Answer(question string, results []domain.SearchResult, history []domain.ConversationTurn) domain.Answer {
	if len(results) == 0 {
		return domain.Answer{Text: NoInformationMessage, Mode: domain.ModeFallback, Reason: "no results"}
	}
	if g.cfg.APIKey == "" {
		return domain.Answer{Text: g.fallbackText(results), Mode: domain.ModeFallback, Reason: "no API key configured"}
	}

	text, err := g.complete(question, results, history)
	if err != nil {
		log.Printf("llm: completion failed, falling back: %v", err)
		return domain.Answer{Text: g.fallbackText(results), Mode: domain.ModeFallback, Reason: err.Error()}
	}
	return domain.Answer{Text: text, Mode: domain.ModeGenerated}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// complete issues a single chat-completions request. There is no retry;
// any failure transitions the call to the fallback policy.
func (g *Generator) complete(question string, results []domain.SearchResult, history []domain.ConversationTurn) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       g.cfg.Model,
		Messages:    g.buildMessages(question, results, history),
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(g.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat completions failed: %s", resp.Status)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty completion")
	}
	return content, nil
}

// buildMessages assembles the system instruction, a bounded window of
// recent turns, and a user prompt embedding the question with its context.
func (g *Generator) buildMessages(question string, results []domain.SearchResult, history []domain.ConversationTurn) []chatMessage {
	messages := []chatMessage{{Role: "system", Content: systemPrompt}}

	if len(history) > g.cfg.HistoryWindow {
		history = history[len(history)-g.cfg.HistoryWindow:]
	}
	for _, turn := range history {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		if turn.Role != domain.RoleUser && turn.Role != domain.RoleAssistant {
			continue
		}
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: text})
	}

	context := prompt.BuildContext(results, g.cfg.MaxContextChars)
	userPrompt := fmt.Sprintf(
		"Answer the question using only the context snippets below.\n"+
			"If information is missing, say you do not know.\n\n"+
			"Question:\n%s\n\nContext snippets:\n%s",
		question, context)
	return append(messages, chatMessage{Role: "user", Content: userPrompt})
}

// fallbackText composes the deterministic excerpt-based answer from the
// top results, each capped to a short preview with source attribution.
func (g *Generator) fallbackText(results []domain.SearchResult) string {
	lines := []string{
		FallbackMarker,
		"Set OPENAI_API_KEY in your .env file for full conversational answers.",
		"",
		"Closest excerpts:",
	}
	limit := fallbackResultLimit
	if limit > len(results) {
		limit = len(results)
	}
	for _, result := range results[:limit] {
		excerpt := strings.TrimSpace(strings.ReplaceAll(result.Chunk.Text, "\n", " "))
		if len(excerpt) > excerptLimit {
			excerpt = excerpt[:excerptLimit-3] + "..."
		}
		lines = append(lines, fmt.Sprintf("- %s (%s, score=%.3f): %s",
			result.Chunk.SourceName, result.Chunk.ChunkID, result.Score, excerpt))
	}
	return strings.Join(lines, "\n")
}
