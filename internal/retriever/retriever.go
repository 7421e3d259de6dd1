package retriever

import (
	"context"
	"log"

	"omnitutor/internal/vectorindex"
)

// TopK is the number of chunks injected as grounding context per
// generation call. Fixed to balance context size against prompt length.
const TopK = 3

// Retriever wraps the vector index with a text-in/text-out contract.
// Retrieval is advisory context, not a correctness requirement, so
// index and embedding failures degrade to an empty result instead of
// aborting generation.
type Retriever struct {
	index vectorindex.Index
	k     int
}

// New creates a retriever over a built index.
func New(index vectorindex.Index) *Retriever {
	return &Retriever{index: index, k: TopK}
}

// Retrieve returns the texts of the up-to-k chunks most similar to
// query, closest first. A failed lookup returns an empty result.
func (r *Retriever) Retrieve(ctx context.Context, query string) []string {
	results, err := r.index.Query(ctx, query, r.k)
	if err != nil {
		log.Printf("retrieval degraded to empty context: %v", err)
		return nil
	}
	texts := make([]string, 0, len(results))
	for _, res := range results {
		texts = append(texts, res.Chunk.Text)
	}
	return texts
}
