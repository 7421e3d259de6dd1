package course

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"omnitutor/internal/domain"
	"omnitutor/internal/llm"
)

// OutlineGenerator produces the ordered course outline from document
// summaries via a single completion call with a strict output-format
// contract.
type OutlineGenerator struct {
	llm  llm.Service
	opts llm.Options
}

func NewOutlineGenerator(svc llm.Service, opts llm.Options) *OutlineGenerator {
	return &OutlineGenerator{llm: svc, opts: opts}
}

// Generate asks for lessonCount [name, abstract] pairs in language.
// A service failure is surfaced as a GenerationError; a response that
// cannot be parsed degrades to a single sentinel entry so downstream
// stages can proceed with flagged output instead of aborting.
func (g *OutlineGenerator) Generate(ctx context.Context, summaries []string, lessonCount int, language string) ([]domain.OutlineEntry, error) {
	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: outlineSystemPrompt},
		{Role: domain.RoleUser, Content: outlineUserPrompt(summaries, lessonCount, language)},
	}
	response, err := g.llm.Complete(ctx, messages, g.opts)
	if err != nil {
		return nil, &domain.GenerationError{Stage: domain.StageOutline, Err: err}
	}
	entries, err := ParseOutline(response)
	if err != nil {
		return []domain.OutlineEntry{domain.SentinelOutlineEntry()}, nil
	}
	return entries, nil
}

// ParseOutline parses a literal JSON array of [name, abstract] string
// pairs. The parser fails closed: anything other than well-formed pairs
// with non-empty fields is an error, including a response where only
// one entry is malformed. A fenced code block around the array is the
// one tolerated decoration.
func ParseOutline(response string) ([]domain.OutlineEntry, error) {
	raw := stripCodeFence(strings.TrimSpace(response))
	var pairs [][]string
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		return nil, fmt.Errorf("outline is not a JSON array of string pairs: %w", err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("outline is empty")
	}
	entries := make([]domain.OutlineEntry, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("outline entry %d has %d fields, want 2", i, len(pair))
		}
		name := strings.TrimSpace(pair[0])
		abstract := strings.TrimSpace(pair[1])
		if name == "" || abstract == "" {
			return nil, fmt.Errorf("outline entry %d has an empty field", i)
		}
		entries[i] = domain.OutlineEntry{Name: name, Abstract: abstract}
	}
	return entries, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
