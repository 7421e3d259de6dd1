package course

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnitutor/internal/chunker"
	"omnitutor/internal/domain"
	"omnitutor/internal/embedding/tfidf"
	"omnitutor/internal/retriever"
	"omnitutor/internal/summarizer"
	"omnitutor/internal/vectorindex/memory"
)

// buildText repeats the phrase until it is exactly n bytes long.
func buildText(phrase string, n int) string {
	repeated := strings.Repeat(phrase, n/len(phrase)+1)
	return repeated[:n]
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestSession(svc *fakeLLM) (*Session, *memory.Index) {
	idx := memory.NewIndex(tfidf.NewEmbedder())
	return NewSession(Deps{
		Chunker:    chunker.NewFixedChunker(730),
		Summarizer: summarizer.NewKeywordSummarizer(20),
		Index:      idx,
		Retriever:  retriever.New(idx),
		LLM:        svc,
	}), idx
}

func TestSessionEndToEnd(t *testing.T) {
	dir := t.TempDir()
	// Two documents of exactly 1460 characters with disjoint vocabularies.
	doc1 := buildText("kubernetes container orchestration scheduling ", 730) +
		buildText("deployment replica rollout autoscaling workload ", 730)
	doc2 := buildText("database transaction isolation snapshot locking ", 730) +
		buildText("replication quorum consensus leader election vote ", 730)
	p1 := writeDoc(t, dir, "one.md", doc1)
	p2 := writeDoc(t, dir, "two.md", doc2)

	svc := &fakeLLM{respond: respondWith(`[["A","a."]]`)}
	s, idx := newTestSession(svc)

	require.NoError(t, s.LoadDocuments([]string{p1, p2}))
	require.Empty(t, s.Skipped())
	require.NoError(t, s.BuildIndex(context.Background()))

	// 1460 chars per document at chunk size 730: two chunks each.
	assert.Equal(t, 4, idx.Len())

	// Querying with the first 730-character slice of document 1 returns
	// that exact chunk as the closest match.
	res, err := idx.Query(context.Background(), doc1[:730], 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, doc1[:730], res[0].Chunk.Text)
	assert.Equal(t, 0, res[0].Chunk.Index)

	summaries := s.Summaries()
	require.Len(t, summaries, 2)
	assert.Contains(t, summaries[0], "one.md")
	assert.Contains(t, summaries[0], "kubernetes")
	assert.Contains(t, summaries[1], "two.md")
}

func TestSessionCourseGeneration(t *testing.T) {
	dir := t.TempDir()
	p := writeDoc(t, dir, "doc.md", buildText("storage engine compaction memtable flush ", 1460))

	outlineJSON := `[` +
		`["L1","first."],["L2","second."],["L3","third."],` +
		`["L4","fourth."],["L5","fifth."]]`
	svc := &fakeLLM{respond: func(messages []domain.Message) (string, error) {
		user := messages[len(messages)-1].Content
		if strings.Contains(user, "course outline") {
			return outlineJSON, nil
		}
		for _, name := range []string{"L1", "L2", "L3", "L4", "L5"} {
			if strings.Contains(user, name+":") {
				return "script-" + name, nil
			}
		}
		return "", nil
	}}
	s, _ := newTestSession(svc)
	require.NoError(t, s.LoadDocuments([]string{p}))
	require.NoError(t, s.BuildIndex(context.Background()))

	entries, err := s.GenerateOutline(context.Background(), 5, "English")
	require.NoError(t, err)
	require.Len(t, entries, 5)

	scripts, err := s.GenerateLessons(context.Background(), entries, "English")
	require.NoError(t, err)
	require.Len(t, scripts, 5)
	// One outline call plus exactly one generation call per entry.
	assert.Equal(t, 6, svc.callCount())
	for i, script := range scripts {
		assert.Equal(t, "script-"+entries[i].Name, script)
	}
}

func TestSessionSkipsUnreadableDocuments(t *testing.T) {
	dir := t.TempDir()
	p := writeDoc(t, dir, "good.md", buildText("alpha beta gamma ", 100))
	missing := filepath.Join(dir, "missing.md")

	s, _ := newTestSession(&fakeLLM{respond: respondWith("")})
	require.NoError(t, s.LoadDocuments([]string{p, missing}))
	assert.Equal(t, []string{missing}, s.Skipped())
	require.Len(t, s.Documents(), 1)
}

func TestSessionAllDocumentsUnreadable(t *testing.T) {
	s, _ := newTestSession(&fakeLLM{respond: respondWith("")})
	err := s.LoadDocuments([]string{"/nonexistent/a.md", "/nonexistent/b.md"})
	assert.Error(t, err)
}

func TestSessionBuildIndexWithNoChunksFails(t *testing.T) {
	dir := t.TempDir()
	p := writeDoc(t, dir, "empty.md", "")
	s, _ := newTestSession(&fakeLLM{respond: respondWith("")})
	require.NoError(t, s.LoadDocuments([]string{p}))
	err := s.BuildIndex(context.Background())
	require.Error(t, err)
	var buildErr *domain.IndexBuildError
	assert.ErrorAs(t, err, &buildErr)
}

func TestSessionIDsAreUnique(t *testing.T) {
	s1, _ := newTestSession(&fakeLLM{respond: respondWith("")})
	s2, _ := newTestSession(&fakeLLM{respond: respondWith("")})
	assert.NotEqual(t, s1.ID(), s2.ID())
	assert.NotEmpty(t, s1.ID())
}
