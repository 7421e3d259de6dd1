package course

import (
	"context"

	"omnitutor/internal/domain"
	"omnitutor/internal/llm"
)

// Assistant answers free-form questions about the course material. It
// owns the session transcript: the completion call always sees the
// entire history so multi-turn context is preserved.
type Assistant struct {
	retriever  ContextRetriever
	llm        llm.Service
	opts       llm.Options
	transcript domain.Transcript
}

func NewAssistant(retriever ContextRetriever, svc llm.Service, opts llm.Options) *Assistant {
	return &Assistant{retriever: retriever, llm: svc, opts: opts}
}

// Answer retrieves grounding chunks for the question, appends the
// decorated prompt as a user message, streams the completion over the
// full transcript and appends the answer as an assistant message.
// Fragments are forwarded to onFragment as they arrive; onFragment may
// be nil.
func (a *Assistant) Answer(ctx context.Context, question string, onFragment llm.FragmentFunc) (string, error) {
	materials := a.retriever.Retrieve(ctx, question)
	a.transcript.Append(domain.RoleUser, qaUserPrompt(question, materials))

	answer, err := a.llm.Stream(ctx, a.transcript.Messages(), a.opts, onFragment)
	if err != nil {
		return "", &domain.GenerationError{Stage: domain.StageQA, Err: err}
	}
	a.transcript.Append(domain.RoleAssistant, answer)
	return answer, nil
}

// Transcript returns a copy of the session history.
func (a *Assistant) Transcript() []domain.Message { return a.transcript.Messages() }
