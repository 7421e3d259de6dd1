package chunker

import (
	"fmt"
	"iter"

	"omnitutor/internal/domain"
)

// DefaultChunkSize is the number of characters per chunk. Tuned for the
// context budget of the generation prompts, not derived from content.
const DefaultChunkSize = 730

// Split cuts text into consecutive non-overlapping substrings of size
// runes, the last possibly shorter. Slicing is rune-aligned, so a
// multi-byte character is never broken; no trimming or sentence
// awareness, a chunk may still split a word. Empty text yields an
// empty sequence. The returned sequence is lazy and can be ranged over
// multiple times.
func Split(text string, size int) iter.Seq[string] {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return func(yield func(string) bool) {
		start := 0
		runes := 0
		for i := range text {
			if runes == size {
				if !yield(text[start:i]) {
					return
				}
				start = i
				runes = 0
			}
			runes++
		}
		if start < len(text) {
			yield(text[start:])
		}
	}
}

// FixedChunker splits documents into fixed-size chunks.
type FixedChunker struct {
	size int
}

func NewFixedChunker(size int) *FixedChunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &FixedChunker{size: size}
}

// Chunk materializes the chunks of one document in insertion order.
func (c *FixedChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	idx := 0
	for text := range Split(document.Content, c.size) {
		chunks = append(chunks, domain.Chunk{
			SourceID: document.ID,
			Text:     text,
			Index:    idx,
		})
		idx++
	}
	return chunks, nil
}

var _ domain.Chunker = (*FixedChunker)(nil)

// ChunkAll chunks every document in source-list order and returns the
// combined collection.
func ChunkAll(c domain.Chunker, documents []domain.Document) ([]domain.Chunk, error) {
	var all []domain.Chunk
	for _, d := range documents {
		chunks, err := c.Chunk(d)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", d.Path, err)
		}
		all = append(all, chunks...)
	}
	return all, nil
}
