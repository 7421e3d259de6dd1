package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"omnitutor/internal/domain"
	"omnitutor/internal/vectorindex"
)

// Index is a minimal REST client to Qdrant honoring the same contract
// as the in-memory index. Point ids equal insertion order; Qdrant does
// not define an order among equal scores, so Query re-sorts hits by
// (score, id) client-side to keep the tie-break deterministic.
type Index struct {
	embedder   domain.Embedder
	url        string
	apiKey     string
	collection string
	dimension  int
	size       int
	built      bool
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewIndex creates a Qdrant-backed index using the given embedder.
func NewIndex(embedder domain.Embedder, cfg Config) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		embedder:   embedder,
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

var _ vectorindex.Index = (*Index)(nil)

// Build embeds all chunks, recreates the collection and uploads the
// normalized vectors in one upsert.
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

	// Drop any previous collection; the index is rebuilt per session.
	req, _ := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/collections/%s", x.url, x.collection), nil)
	x.setAuth(req)
	if resp, err := x.client.Do(req); err == nil {
		_ = resp.Body.Close()
	}

	create := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Euclid",
		},
	}
	if err := x.putJSON(ctx, fmt.Sprintf("%s/collections/%s", x.url, x.collection), create); err != nil {
		return &domain.IndexBuildError{Reason: "create collection", Err: err}
	}

	points := make([]map[string]any, len(chunks))
	for i := range chunks {
		points[i] = map[string]any{
			"id":     i,
			"vector": vectors[i],
			"payload": map[string]any{
				"source_id": chunks[i].SourceID,
				"index":     chunks[i].Index,
				"text":      chunks[i].Text,
			},
		}
	}
	body := map[string]any{"points": points}
	if err := x.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", x.url, x.collection), body); err != nil {
		return &domain.IndexBuildError{Reason: "upsert points", Err: err}
	}
	x.dimension = dimension
	x.size = len(chunks)
	x.built = true
	return nil
}

// Query embeds the text and searches the collection. Qdrant reports
// Euclidean distance for Euclid collections; it is squared here to
// match the index contract.
func (x *Index) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	if !x.built {
		return nil, fmt.Errorf("index not built")
	}
	if k <= 0 {
		return nil, nil
	}
	vec, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	vectorindex.Normalize(vec)
	req := map[string]any{
		"vector":       vec,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      int            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := x.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", x.url, x.collection), req, &resp); err != nil {
		return nil, err
	}
	sort.Slice(resp.Result, func(a, b int) bool {
		if resp.Result[a].Score != resp.Result[b].Score {
			return resp.Result[a].Score < resp.Result[b].Score
		}
		return resp.Result[a].ID < resp.Result[b].ID
	})
	results := make([]domain.ScoredChunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := domain.Chunk{}
		if v, ok := r.Payload["source_id"].(string); ok {
			chunk.SourceID = v
		}
		if v, ok := r.Payload["index"].(float64); ok {
			chunk.Index = int(v)
		}
		if v, ok := r.Payload["text"].(string); ok {
			chunk.Text = v
		}
		results = append(results, domain.ScoredChunk{Chunk: chunk, Distance: r.Score * r.Score})
	}
	return results, nil
}

// Len returns the number of stored vectors.
func (x *Index) Len() int { return x.size }

func (x *Index) setAuth(req *http.Request) {
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}
}

func (x *Index) putJSON(ctx context.Context, url string, body any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	x.setAuth(req)
	resp, err := x.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (x *Index) postJSON(ctx context.Context, url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	x.setAuth(req)
	resp, err := x.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
