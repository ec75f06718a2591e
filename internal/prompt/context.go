// Package prompt turns ranked search results into bounded text blocks for
// language-model prompting.
package prompt

import (
	"fmt"
	"strings"

	"docchat/internal/domain"
)

// DefaultMaxChars bounds the assembled context so prompts stay a
// predictable size.
const DefaultMaxChars = 8000

// BuildContext formats retrieval hits into a context string. Each block is
// prefixed with the chunk id, source name, and score so answers can cite
// exact sources. Blocks are added in rank order until the character budget
// would be exceeded; the budget is enforced at chunk boundaries and the
// first block is always included.
func BuildContext(results []domain.SearchResult, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var sections []string
	totalChars := 0
	for _, result := range results {
		header := fmt.Sprintf("[%s | %s | score=%.3f]",
			result.Chunk.ChunkID, result.Chunk.SourceName, result.Score)
		block := strings.TrimSpace(header + "\n" + result.Chunk.Text)
		estimated := len(block) + 2

		if len(sections) > 0 && totalChars+estimated > maxChars {
			break
		}
		sections = append(sections, block)
		totalChars += estimated
	}
	return strings.Join(sections, "\n\n")
}
