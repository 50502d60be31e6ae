package core

import "context"

// Reporter turns the messages buffered for one participant since its last
// turn into briefing text for its next prompt. Callers guarantee messages is
// never empty; an empty conversation gets a fixed opening prompt instead.
type Reporter interface {
	Report(ctx context.Context, participant string, messages []Message) (string, error)
}

// ReporterFunc is a functional adapter allowing ordinary functions to be used as Reporters.
type ReporterFunc func(ctx context.Context, participant string, messages []Message) (string, error)

// Report implements Reporter.
func (f ReporterFunc) Report(ctx context.Context, participant string, messages []Message) (string, error) {
	return f(ctx, participant, messages)
}
