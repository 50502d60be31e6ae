package core

import (
	"context"
	"sync"
)

// Floor is the single speaking token of a conversation. At most one holder
// may own it at a time; Acquire blocks until the floor is free or the
// context is done.
type Floor struct {
	token  chan struct{}
	mu     sync.Mutex
	holder string
}

// NewFloor creates a free floor.
func NewFloor() *Floor {
	return &Floor{token: make(chan struct{}, 1)}
}

// Acquire takes the floor on behalf of holder.
func (f *Floor) Acquire(ctx context.Context, holder string) error {
	select {
	case f.token <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.holder = holder

	return nil
}

// SetHolder renames the current holder once it is known (e.g. after selection).
func (f *Floor) SetHolder(holder string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.holder = holder
}

// Release frees the floor. Releasing a free floor is a no-op.
func (f *Floor) Release() {
	f.mu.Lock()
	f.holder = ""
	f.mu.Unlock()

	select {
	case <-f.token:
	default:
	}
}

// Holder returns the current holder, or "" when the floor is free.
func (f *Floor) Holder() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.holder
}
