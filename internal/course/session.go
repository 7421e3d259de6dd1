package course

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/google/uuid"

	"omnitutor/internal/chunker"
	"omnitutor/internal/domain"
	"omnitutor/internal/llm"
	"omnitutor/internal/summarizer"
	"omnitutor/internal/vectorindex"
)

// Deps are the collaborators a session is assembled from.
type Deps struct {
	Chunker    domain.Chunker
	Summarizer domain.Summarizer
	Index      vectorindex.Index
	Retriever  ContextRetriever
	LLM        llm.Service

	// GenOpts applies to outline and lesson generation, ChatOpts to QA.
	GenOpts  llm.Options
	ChatOpts llm.Options

	Lessons LessonConfig
}

// Session holds all state of one course-generation run: the documents,
// the built index, the document summaries and the QA transcript. It is
// created on upload and discarded when the session ends; nothing is
// persisted.
type Session struct {
	id   string
	deps Deps

	outline   *OutlineGenerator
	lessons   *LessonGenerator
	assistant *Assistant

	documents []domain.Document
	skipped   []string
	summaries []string
}

// NewSession assembles the orchestrators around the shared retriever
// and completion service.
func NewSession(deps Deps) *Session {
	lessonCfg := deps.Lessons
	if lessonCfg.Options == (llm.Options{}) {
		lessonCfg.Options = deps.GenOpts
	}
	return &Session{
		id:        uuid.NewString(),
		deps:      deps,
		outline:   NewOutlineGenerator(deps.LLM, deps.GenOpts),
		lessons:   NewLessonGenerator(deps.Retriever, deps.LLM, lessonCfg),
		assistant: NewAssistant(deps.Retriever, deps.LLM, deps.ChatOpts),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// LoadDocuments reads the given files in order. Unreadable files are
// skipped and recorded; it is an error only if nothing could be read.
func (s *Session) LoadDocuments(paths []string) error {
	s.documents = nil
	s.skipped = nil
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			s.skipped = append(s.skipped, p)
			continue
		}
		s.documents = append(s.documents, domain.Document{
			ID:      hashString(p),
			Path:    p,
			Content: string(data),
		})
	}
	if len(s.documents) == 0 {
		return fmt.Errorf("no readable documents among %d inputs", len(paths))
	}
	return nil
}

// Skipped lists the paths that could not be read.
func (s *Session) Skipped() []string { return s.skipped }

// Documents returns the loaded documents in source-list order.
func (s *Session) Documents() []domain.Document { return s.documents }

// BuildIndex chunks every loaded document in order, builds the vector
// index from the combined chunk collection and summarizes each
// document for outline generation.
func (s *Session) BuildIndex(ctx context.Context) error {
	chunks, err := chunker.ChunkAll(s.deps.Chunker, s.documents)
	if err != nil {
		return err
	}
	if err := s.deps.Index.Build(ctx, chunks); err != nil {
		return err
	}
	s.summaries = summarizer.SummarizeAll(s.deps.Summarizer, s.documents)
	return nil
}

// Summaries returns the per-document keyword summaries.
func (s *Session) Summaries() []string { return s.summaries }

// GenerateOutline produces the ordered course outline.
func (s *Session) GenerateOutline(ctx context.Context, lessonCount int, language string) ([]domain.OutlineEntry, error) {
	return s.outline.Generate(ctx, s.summaries, lessonCount, language)
}

// GenerateLessons writes one script per outline entry, in outline order.
func (s *Session) GenerateLessons(ctx context.Context, entries []domain.OutlineEntry, language string) ([]string, error) {
	return s.lessons.GenerateAll(ctx, entries, language)
}

// Answer runs one QA turn over the session transcript.
func (s *Session) Answer(ctx context.Context, question string, onFragment llm.FragmentFunc) (string, error) {
	return s.assistant.Answer(ctx, question, onFragment)
}

// Transcript returns a copy of the QA history.
func (s *Session) Transcript() []domain.Message { return s.assistant.Transcript() }

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
