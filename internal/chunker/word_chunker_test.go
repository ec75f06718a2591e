package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func TestChunkText_RejectsInvalidParameters(t *testing.T) {
	_, err := ChunkText("some text", 0, 0)
	assert.Error(t, err)

	_, err = ChunkText("some text", 5, -1)
	assert.Error(t, err)

	_, err = ChunkText("some text", 5, 5)
	assert.Error(t, err)

	_, err = ChunkText("some text", 5, 8)
	assert.Error(t, err)
}

func TestChunkText_EmptyTextYieldsNoChunks(t *testing.T) {
	chunks, err := ChunkText("", 5, 2)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = ChunkText("   \n\t  ", 5, 2)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkText_ShortTextYieldsSingleChunk(t *testing.T) {
	chunks, err := ChunkText("just three words", 10, 2)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just three words", chunks[0])
}

func TestChunkText_TwelveWordsSizeFiveOverlapTwo(t *testing.T) {
	words := []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7", "w8", "w9", "w10", "w11", "w12"}
	chunks, err := ChunkText(strings.Join(words, " "), 5, 2)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	assert.Equal(t, "w1 w2 w3 w4 w5", chunks[0])
	assert.Equal(t, "w4 w5 w6 w7 w8", chunks[1])
	assert.Equal(t, "w7 w8 w9 w10 w11", chunks[2])
	assert.Equal(t, "w10 w11 w12", chunks[3])
}

func TestChunkText_CoversEveryWordExactlyOncePerStep(t *testing.T) {
	text := "a b c d e f g h i j k l m n o p q r s t u v w"
	original := strings.Fields(text)

	for _, tc := range []struct{ size, overlap int }{
		{1, 0}, {3, 0}, {4, 1}, {5, 2}, {7, 3}, {23, 10}, {50, 12},
	} {
		chunks, err := ChunkText(text, tc.size, tc.overlap)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)

		// Stitch the chunks back together, skipping each chunk's leading
		// overlap words, and compare against the source word sequence.
		var rebuilt []string
		for i, chunk := range chunks {
			words := strings.Fields(chunk)
			if i > 0 {
				skip := tc.overlap
				if skip > len(words) {
					skip = len(words)
				}
				words = words[skip:]
			}
			rebuilt = append(rebuilt, words...)
		}
		assert.Equal(t, original, rebuilt, "size=%d overlap=%d", tc.size, tc.overlap)
	}
}

func TestChunkSource_AssignsDeterministicIDs(t *testing.T) {
	c, err := NewWordChunker(3, 1)
	require.NoError(t, err)

	chunks, err := c.ChunkSource(domain.Source{
		Name: "Annual Report (2024).pdf",
		Text: "one two three four five",
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "annual-report-2024-pdf-chunk-1", chunks[0].ChunkID)
	assert.Equal(t, "annual-report-2024-pdf-chunk-2", chunks[1].ChunkID)
	assert.Equal(t, "Annual Report (2024).pdf", chunks[0].SourceName)
	assert.Equal(t, "one two three", chunks[0].Text)
	assert.Equal(t, "three four five", chunks[1].Text)
}

func TestNewWordChunker_RejectsOverlapNotSmallerThanSize(t *testing.T) {
	_, err := NewWordChunker(40, 40)
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "notes-txt", Slugify("Notes.txt"))
	assert.Equal(t, "document", Slugify("???"))
	assert.Equal(t, "a-b-c", Slugify("  a__b  c  "))
}
