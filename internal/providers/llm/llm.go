package llm

import "context"

// Provider is the gateway to the hosted generative model. Calls are billed
// and non-deterministic; callers own retry policy.
type Provider interface {
	// Generate returns the full text of a single completion.
	Generate(ctx context.Context, prompt string) (string, error)
	// StreamAnswer returns a stream of text chunks (incremental).
	StreamAnswer(ctx context.Context, prompt string) (chunks <-chan string, errs <-chan error)
	// Embed returns the embedding vector for a piece of text.
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}
