package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"omnitutor/internal/domain"
	"omnitutor/internal/vectorindex"
)

// Index is a flat in-memory index performing exact squared-Euclidean
// nearest-neighbor search over L2-normalized vectors. The corpus in
// this domain is a handful of documents, so a linear scan beats any
// approximate structure on both correctness and simplicity.
type Index struct {
	embedder domain.Embedder

	mu        sync.RWMutex
	dimension int
	chunks    []domain.Chunk
	vectors   [][]float64
	built     bool
}

// NewIndex creates an empty index backed by the given embedder.
func NewIndex(embedder domain.Embedder) *Index {
	return &Index{embedder: embedder}
}

var _ vectorindex.Index = (*Index)(nil)

// Build embeds all chunks in one batch, normalizes the vectors in
// place and performs the bulk insert. The dimension is fixed here and
// never changes.
func (x *Index) Build(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return &domain.IndexBuildError{Reason: "no chunks to index"}
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	if err := x.embedder.Prepare(ctx, texts); err != nil {
		return &domain.IndexBuildError{Reason: "prepare embedder", Err: err}
	}
	vectors, err := x.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return &domain.IndexBuildError{Reason: "embed chunks", Err: err}
	}
	if len(vectors) != len(chunks) {
		return &domain.IndexBuildError{
			Reason: fmt.Sprintf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks)),
		}
	}
	dimension := len(vectors[0])
	for _, v := range vectors {
		if len(v) != dimension {
			return &domain.IndexBuildError{Reason: "inconsistent vector dimensions"}
		}
		vectorindex.Normalize(v)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.dimension = dimension
	x.chunks = append([]domain.Chunk(nil), chunks...)
	x.vectors = vectors
	x.built = true
	return nil
}

// Query performs an exact linear scan. Results come back in ascending
// distance order; equal distances keep insertion order.
func (x *Index) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if !x.built {
		return nil, errors.New("index not built")
	}
	if k <= 0 {
		return nil, nil
	}
	vec, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vec) != x.dimension {
		return nil, fmt.Errorf("query dimension %d, index dimension %d", len(vec), x.dimension)
	}
	vectorindex.Normalize(vec)

	distances := make([]float64, len(x.vectors))
	for i, stored := range x.vectors {
		distances[i] = squaredDistance(stored, vec)
	}
	ids := make([]int, len(distances))
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(a, b int) bool {
		return distances[ids[a]] < distances[ids[b]]
	})
	if k > len(ids) {
		k = len(ids)
	}
	results := make([]domain.ScoredChunk, 0, k)
	for _, id := range ids[:k] {
		results = append(results, domain.ScoredChunk{Chunk: x.chunks[id], Distance: distances[id]})
	}
	return results, nil
}

// Len returns the number of stored vectors.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chunks)
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
