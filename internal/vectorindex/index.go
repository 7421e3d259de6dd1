package vectorindex

import (
	"context"
	"math"

	"omnitutor/internal/domain"
)

// Index embeds chunks into a similarity-searchable structure. It is
// built once per session with a bulk insert and is read-only afterwards.
type Index interface {
	// Build embeds every chunk, L2-normalizes the vectors and inserts
	// them. An empty chunk set is a build error, never a silent empty
	// index.
	Build(ctx context.Context, chunks []domain.Chunk) error

	// Query embeds text, normalizes the query vector and returns the k
	// nearest chunks by squared Euclidean distance in ascending order,
	// ties broken by lower insertion id. Returns at most
	// min(k, stored) results.
	Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error)

	// Len returns the number of stored vectors.
	Len() int
}

// Normalize scales vec to unit L2 norm in place. Zero vectors are left
// untouched.
func Normalize(vec []float64) {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] /= norm
	}
}
