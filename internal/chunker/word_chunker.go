package chunker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"docchat/internal/domain"
)

const (
	DefaultChunkSize = 220
	DefaultOverlap   = 40
)

var slugPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// WordChunker splits source text into overlapping word-bounded chunks.
type WordChunker struct {
	chunkSize int
	overlap   int
}

// NewWordChunker validates the window parameters once so later calls
// cannot fail on configuration.
func NewWordChunker(chunkSize, overlap int) (*WordChunker, error) {
	if err := validate(chunkSize, overlap); err != nil {
		return nil, err
	}
	return &WordChunker{chunkSize: chunkSize, overlap: overlap}, nil
}

func validate(chunkSize, overlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be greater than zero, got %d", chunkSize)
	}
	if overlap < 0 {
		return fmt.Errorf("chunk overlap cannot be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, chunkSize)
	}
	return nil
}

// ChunkText splits text into word windows of up to chunkSize words, each
// window starting chunkSize-overlap words after the previous one. The last
// window may be shorter. Empty text yields no chunks.
func ChunkText(text string, chunkSize, overlap int) ([]string, error) {
	if err := validate(chunkSize, overlap); err != nil {
		return nil, err
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}
	step := chunkSize - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks, nil
}

// ChunkSource wraps each fragment of the source's text into a DocumentChunk
// with a deterministic id derived from the source name and a 1-based
// sequence number.
func (c *WordChunker) ChunkSource(source domain.Source) ([]domain.DocumentChunk, error) {
	fragments, err := ChunkText(source.Text, c.chunkSize, c.overlap)
	if err != nil {
		return nil, err
	}
	slug := Slugify(source.Name)
	chunks := make([]domain.DocumentChunk, 0, len(fragments))
	for i, fragment := range fragments {
		chunks = append(chunks, domain.DocumentChunk{
			ChunkID:    slug + "-chunk-" + strconv.Itoa(i+1),
			SourceName: source.Name,
			Text:       fragment,
		})
	}
	return chunks, nil
}

// Slugify lowercases a source name and collapses runs of non-alphanumeric
// characters into single dashes, so chunk ids stay readable in citations.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "document"
	}
	return slug
}
