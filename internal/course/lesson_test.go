package course

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnitutor/internal/domain"
)

type fakeRetriever struct {
	mu        sync.Mutex
	materials []string
	queries   []string
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) []string {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.materials
}

func TestGenerateLessonPromptContents(t *testing.T) {
	ret := &fakeRetriever{materials: []string{"chunk one", "chunk two"}}
	svc := &fakeLLM{respond: respondWith("the lesson script")}
	g := NewLessonGenerator(ret, svc, LessonConfig{})

	entry := domain.OutlineEntry{Name: "Consensus", Abstract: "How nodes agree."}
	script, err := g.Generate(context.Background(), entry, "English")
	require.NoError(t, err)
	assert.Equal(t, "the lesson script", script)

	require.Len(t, ret.queries, 1)
	assert.Equal(t, "Consensus: How nodes agree.", ret.queries[0])

	require.Len(t, svc.calls, 1)
	user := svc.calls[0][1].Content
	assert.Contains(t, user, "Consensus: How nodes agree.")
	assert.Contains(t, user, "chunk one")
	assert.Contains(t, user, "chunk two")
	assert.Contains(t, user, "English")
}

func TestGenerateLessonServiceFailure(t *testing.T) {
	ret := &fakeRetriever{}
	svc := &fakeLLM{respond: func([]domain.Message) (string, error) {
		return "", errors.New("timeout")
	}}
	g := NewLessonGenerator(ret, svc, LessonConfig{})
	_, err := g.Generate(context.Background(), domain.OutlineEntry{Name: "A", Abstract: "a."}, "English")
	require.Error(t, err)
	var genErr *domain.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, domain.StageLesson, genErr.Stage)
}

func TestGenerateAllPreservesOutlineOrder(t *testing.T) {
	entries := make([]domain.OutlineEntry, 5)
	for i := range entries {
		entries[i] = domain.OutlineEntry{
			Name:     fmt.Sprintf("lesson-%d", i),
			Abstract: "abstract.",
		}
	}
	var calls atomic.Int32
	svc := &fakeLLM{respond: func(messages []domain.Message) (string, error) {
		n := calls.Add(1)
		// Later submissions finish first to shuffle completion order.
		time.Sleep(time.Duration(6-n) * time.Millisecond)
		user := messages[1].Content
		for i := range entries {
			if strings.Contains(user, entries[i].Name) {
				return "script:" + entries[i].Name, nil
			}
		}
		return "", errors.New("unknown lesson")
	}}
	g := NewLessonGenerator(&fakeRetriever{}, svc, LessonConfig{Workers: 5})

	scripts, err := g.GenerateAll(context.Background(), entries, "English")
	require.NoError(t, err)
	require.Len(t, scripts, 5)
	assert.Equal(t, int32(5), calls.Load())
	for i, script := range scripts {
		assert.Equal(t, "script:"+entries[i].Name, script)
	}
}

func TestGenerateAllSurfacesFirstFailure(t *testing.T) {
	entries := []domain.OutlineEntry{
		{Name: "ok", Abstract: "a."},
		{Name: "boom", Abstract: "b."},
		{Name: "also ok", Abstract: "c."},
	}
	svc := &fakeLLM{respond: func(messages []domain.Message) (string, error) {
		if strings.Contains(messages[1].Content, "boom") {
			return "", errors.New("service exploded")
		}
		return "fine", nil
	}}
	g := NewLessonGenerator(&fakeRetriever{}, svc, LessonConfig{Workers: 1})
	_, err := g.GenerateAll(context.Background(), entries, "English")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service exploded")
}
