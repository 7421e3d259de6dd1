package qdrant

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnitutor/internal/domain"
)

// stubEmbedder maps every text to the same unit vector.
type stubEmbedder struct{}

func (stubEmbedder) Name() string { return "stub" }

func (stubEmbedder) Prepare(ctx context.Context, corpus []string) error { return nil }

func (stubEmbedder) Dimension() int { return 2 }

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return []float64{1, 0}, nil
}

func (stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0}
	}
	return out, nil
}

func TestQueryEqualScoresOrderedByID(t *testing.T) {
	// The server reports three equal-score hits with shuffled ids.
	searchResp := `{"result":[` +
		`{"id":2,"score":1.0,"payload":{"source_id":"d","index":2,"text":"c2"}},` +
		`{"id":0,"score":1.0,"payload":{"source_id":"d","index":0,"text":"c0"}},` +
		`{"id":1,"score":1.0,"payload":{"source_id":"d","index":1,"text":"c1"}}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/points/search") {
			_, _ = io.WriteString(w, searchResp)
			return
		}
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	x := NewIndex(stubEmbedder{}, Config{URL: srv.URL, Collection: "c"})
	chunks := []domain.Chunk{
		{SourceID: "d", Text: "c0", Index: 0},
		{SourceID: "d", Text: "c1", Index: 1},
		{SourceID: "d", Text: "c2", Index: 2},
	}
	require.NoError(t, x.Build(context.Background(), chunks))
	assert.Equal(t, 3, x.Len())

	res, err := x.Query(context.Background(), "q", 3)
	require.NoError(t, err)
	require.Len(t, res, 3)
	for i, r := range res {
		assert.Equal(t, i, r.Chunk.Index)
		assert.InDelta(t, 1.0, r.Distance, 1e-12)
	}
}

func TestQueryBeforeBuildFails(t *testing.T) {
	x := NewIndex(stubEmbedder{}, Config{URL: "http://unused", Collection: "c"})
	_, err := x.Query(context.Background(), "q", 3)
	assert.Error(t, err)
}
