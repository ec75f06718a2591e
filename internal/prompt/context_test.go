package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func result(id, text string, score float64) domain.SearchResult {
	return domain.SearchResult{
		Chunk: domain.DocumentChunk{ChunkID: id, SourceName: "sample.docx", Text: text},
		Score: score,
	}
}

func TestBuildContext_EmptyResults(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil, DefaultMaxChars))
}

func TestBuildContext_FormatsHeaders(t *testing.T) {
	context := BuildContext([]domain.SearchResult{
		result("chunk-1", "solar panels convert sunlight", 0.9),
	}, DefaultMaxChars)

	assert.Contains(t, context, "[chunk-1 | sample.docx | score=0.900]")
	assert.Contains(t, context, "solar panels convert sunlight")
}

func TestBuildContext_TruncatesAtChunkBoundary(t *testing.T) {
	first := result("chunk-1", strings.Repeat("A", 120), 0.9)
	second := result("chunk-2", strings.Repeat("B", 40), 0.8)

	context := BuildContext([]domain.SearchResult{first, second}, 60)

	assert.Contains(t, context, "chunk-1")
	assert.NotContains(t, context, "chunk-2")
	assert.Contains(t, context, "score=0.900")
}

func TestBuildContext_FirstBlockAlwaysIncluded(t *testing.T) {
	oversized := result("chunk-1", strings.Repeat("X", 500), 0.7)
	context := BuildContext([]domain.SearchResult{oversized}, 10)
	assert.Contains(t, context, "chunk-1")
}

func TestBuildContext_PreservesRankOrder(t *testing.T) {
	context := BuildContext([]domain.SearchResult{
		result("top", "first passage", 0.9),
		result("next", "second passage", 0.5),
	}, DefaultMaxChars)

	require.Contains(t, context, "top")
	require.Contains(t, context, "next")
	assert.Less(t, strings.Index(context, "top"), strings.Index(context, "next"))

	blocks := strings.Split(context, "\n\n")
	assert.Len(t, blocks, 2)
}
