package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnitutor/internal/domain"
)

func collect(text string, size int) []string {
	var out []string
	for s := range Split(text, size) {
		out = append(out, s)
	}
	return out
}

func TestSplitExactMultiple(t *testing.T) {
	text := strings.Repeat("a", 1460)
	chunks := collect(text, 730)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 730)
	assert.Len(t, chunks[1], 730)
}

func TestSplitRemainder(t *testing.T) {
	text := strings.Repeat("x", 1000)
	chunks := collect(text, 730)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 730)
	assert.Len(t, chunks[1], 270)
}

func TestSplitShortText(t *testing.T) {
	chunks := collect("hello", 730)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello", chunks[0])
}

func TestSplitEmptyText(t *testing.T) {
	assert.Empty(t, collect("", 730))
}

func TestSplitConcatReproducesInput(t *testing.T) {
	texts := []string{
		"short",
		strings.Repeat("abc", 500),
		strings.Repeat("z", 731),
	}
	for _, text := range texts {
		for _, size := range []int{1, 7, 730} {
			chunks := collect(text, size)
			assert.Equal(t, text, strings.Join(chunks, ""))
			want := (len(text) + size - 1) / size
			assert.Len(t, chunks, want)
			for i, c := range chunks {
				if i < len(chunks)-1 {
					assert.Len(t, c, size)
				}
			}
		}
	}
}

func TestSplitKeepsRuneBoundaries(t *testing.T) {
	text := strings.Repeat("汉", 1000)
	chunks := collect(text, 730)
	require.Len(t, chunks, 2)
	assert.Equal(t, 730, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 270, utf8.RuneCountInString(chunks[1]))
	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %d is not valid UTF-8", i)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitMixedWidthRunes(t *testing.T) {
	// 1500 runes mixing one-, two- and three-byte encodings.
	text := strings.Repeat("aé汉", 500)
	chunks := collect(text, 730)
	require.Len(t, chunks, 3)
	total := 0
	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %d is not valid UTF-8", i)
		if i < len(chunks)-1 {
			assert.Equal(t, 730, utf8.RuneCountInString(c))
		}
		total += utf8.RuneCountInString(c)
	}
	assert.Equal(t, 1500, total)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitRestartable(t *testing.T) {
	seq := Split(strings.Repeat("q", 2000), 730)
	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, first, second)
	assert.Equal(t, 3, first)
}

func TestFixedChunkerIndexes(t *testing.T) {
	c := NewFixedChunker(4)
	chunks, err := c.Chunk(domain.Document{ID: "doc1", Content: "abcdefghij"})
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, ch := range chunks {
		assert.Equal(t, "doc1", ch.SourceID)
		assert.Equal(t, i, ch.Index)
	}
	assert.Equal(t, "abcd", chunks[0].Text)
	assert.Equal(t, "ij", chunks[2].Text)
}

func TestChunkAllPreservesSourceOrder(t *testing.T) {
	c := NewFixedChunker(730)
	docs := []domain.Document{
		{ID: "a", Content: strings.Repeat("1", 1460)},
		{ID: "b", Content: strings.Repeat("2", 1460)},
	}
	all, err := ChunkAll(c, docs)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "a", all[0].SourceID)
	assert.Equal(t, "a", all[1].SourceID)
	assert.Equal(t, "b", all[2].SourceID)
	assert.Equal(t, "b", all[3].SourceID)
}
