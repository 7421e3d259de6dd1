package course

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"omnitutor/internal/domain"
	"omnitutor/internal/llm"
)

// ContextRetriever supplies grounding material for generation calls.
// Retrieval is best-effort; an empty result is acceptable.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string) []string
}

// DefaultLessonWorkers bounds parallel lesson generation against
// external service rate limits.
const DefaultLessonWorkers = 3

// LessonGenerator writes one full lesson script per outline entry,
// grounding each in retrieved chunks.
type LessonGenerator struct {
	retriever ContextRetriever
	llm       llm.Service
	opts      llm.Options
	workers   int
	limiter   *rate.Limiter
}

// LessonConfig tunes generation parameters and parallelism.
type LessonConfig struct {
	Options llm.Options
	// Workers bounds concurrent generation calls; <=0 means the default.
	Workers int
	// RequestsPerSecond throttles completion calls; <=0 disables the limiter.
	RequestsPerSecond float64
}

func NewLessonGenerator(retriever ContextRetriever, svc llm.Service, cfg LessonConfig) *LessonGenerator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultLessonWorkers
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &LessonGenerator{
		retriever: retriever,
		llm:       svc,
		opts:      cfg.Options,
		workers:   workers,
		limiter:   limiter,
	}
}

// Generate writes the script for one lesson. The outline entry is used
// as the retrieval query; the generated text is returned verbatim.
func (g *LessonGenerator) Generate(ctx context.Context, entry domain.OutlineEntry, language string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", &domain.GenerationError{Stage: domain.StageLesson, Err: err}
		}
	}
	topic := entry.Name + ": " + entry.Abstract
	materials := g.retriever.Retrieve(ctx, topic)
	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: lessonSystemPrompt},
		{Role: domain.RoleUser, Content: lessonUserPrompt(topic, strings.Join(materials, "\n"), language)},
	}
	script, err := g.llm.Complete(ctx, messages, g.opts)
	if err != nil {
		return "", &domain.GenerationError{Stage: domain.StageLesson, Err: err}
	}
	return script, nil
}

// GenerateAll writes every lesson with a bounded worker pool. Lessons
// share no state, so completion order is free, but the returned slice
// tracks outline order. The first failure cancels the rest and is
// surfaced.
func (g *LessonGenerator) GenerateAll(ctx context.Context, entries []domain.OutlineEntry, language string) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scripts := make([]string, len(entries))
	sem := make(chan struct{}, g.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry domain.OutlineEntry) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			script, err := g.Generate(ctx, entry, language)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel()
				return
			}
			scripts[i] = script
		}(i, entry)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return scripts, nil
}
