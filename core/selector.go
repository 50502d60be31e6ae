package core

import "context"

// Selector picks the next speaker among candidates given the recent
// timeline. Implementations are untrusted: the orchestrator validates the
// returned name and falls back to a uniform random pick on any error or
// out-of-set answer.
type Selector interface {
	Select(ctx context.Context, candidates []string, recent []Message) (string, error)
}

// SelectorFunc is a functional adapter allowing ordinary functions to be used as Selectors.
type SelectorFunc func(ctx context.Context, candidates []string, recent []Message) (string, error)

// Select implements Selector.
func (f SelectorFunc) Select(ctx context.Context, candidates []string, recent []Message) (string, error) {
	return f(ctx, candidates, recent)
}
