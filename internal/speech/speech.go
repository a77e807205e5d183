package speech

import "context"

// Provider synthesizes narration audio for a script and writes it to path.
// Returns the path actually written so callers can store it in run state.
type Provider interface {
	Synthesize(ctx context.Context, text, path string) (string, error)
}
