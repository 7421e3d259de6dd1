package llm

import (
	"context"

	"omnitutor/internal/domain"
)

// Options are per-call completion parameters. Zero values fall back to
// the client's configured defaults; Temperature is a pointer so an
// explicit 0 is distinguishable from unset.
type Options struct {
	Model       string
	Temperature *float64
	MaxTokens   int
}

// FragmentFunc receives one streamed output fragment. Returning an
// error stops the stream.
type FragmentFunc func(fragment string) error

// Service is the text-completion collaborator: it accepts a role-tagged
// message sequence and returns generated text, either complete or as an
// incremental fragment stream.
type Service interface {
	Complete(ctx context.Context, messages []domain.Message, opts Options) (string, error)

	// Stream delivers the response incrementally through onFragment and
	// returns the full concatenated text once the stream ends.
	Stream(ctx context.Context, messages []domain.Message, opts Options, onFragment FragmentFunc) (string, error)
}
