// Package response adapts an agent Output into a uniform lazy sequence of
// (speaker, text) chunks while accumulating the full reply for the commit
// that ends a turn.
//
// A StreamingResponse is a scoped resource: whoever creates it must Close it,
// on every path. Close drains whatever the caller did not read, so a partial
// or abandoned read never leaves the underlying generation half-consumed.
package response

import (
	"context"
	"errors"
	"io"
	"iter"
	"strings"
	"sync"

	"github.com/hupe1980/agentmc/core"
)

// StreamingResponse wraps one participant's reply for the duration of a turn.
type StreamingResponse struct {
	name       string
	output     core.Output
	cumulative bool

	mu       sync.Mutex
	full     strings.Builder
	done     bool  // source exhausted or failed
	err      error // terminal source error
	reported bool  // err already handed to a caller
	closed   bool
}

// New wraps output produced for speaker name. With cumulative set, chunks
// carry the text accumulated so far instead of the latest delta.
func New(name string, output core.Output, cumulative bool) *StreamingResponse {
	return &StreamingResponse{name: name, output: output, cumulative: cumulative}
}

// Name returns the speaker this response belongs to.
func (r *StreamingResponse) Name() string { return r.name }

// Cumulative reports whether chunks carry the accumulated text.
func (r *StreamingResponse) Cumulative() bool { return r.cumulative }

// Next returns the next chunk, io.EOF once the reply is exhausted, or the
// source error if generation failed. Cancelling ctx only stops waiting; the
// underlying generation keeps running and is drained by Close.
func (r *StreamingResponse) Next(ctx context.Context) (core.Chunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return core.Chunk{}, core.ErrTurnEnded
	}

	if r.output.Kind() == core.OutputComplete {
		if r.done {
			return core.Chunk{}, io.EOF
		}
		r.done = true
		r.full.WriteString(r.output.Text())
		return core.Chunk{Name: r.name, Text: r.output.Text()}, nil
	}

	if r.done {
		if r.err != nil {
			r.reported = true
			return core.Chunk{}, r.err
		}
		return core.Chunk{}, io.EOF
	}

	deltas := r.output.Deltas()
	if deltas == nil {
		return r.exhaustedLocked()
	}

	select {
	case delta, ok := <-deltas:
		if !ok {
			return r.exhaustedLocked()
		}
		r.full.WriteString(delta)
		text := delta
		if r.cumulative {
			text = r.full.String()
		}
		return core.Chunk{Name: r.name, Text: text}, nil
	case <-ctx.Done():
		return core.Chunk{}, ctx.Err()
	}
}

// Chunks exposes the response as an iterator. Iteration ends after the last
// chunk or yields a single terminal error. Breaking out early is safe; Close
// still drains the rest.
func (r *StreamingResponse) Chunks(ctx context.Context) iter.Seq2[core.Chunk, error] {
	return func(yield func(core.Chunk, error) bool) {
		for {
			chunk, err := r.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(core.Chunk{}, err)
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// Close drains every remaining delta into the accumulator and ends the
// session. It returns the source error only if no previous Next call
// already returned it, so a failure is never reported twice. Close is
// idempotent.
func (r *StreamingResponse) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	switch r.output.Kind() {
	case core.OutputComplete:
		if !r.done {
			r.done = true
			r.full.WriteString(r.output.Text())
		}
	case core.OutputIncremental:
		if !r.done {
			if deltas := r.output.Deltas(); deltas != nil {
				for delta := range deltas {
					r.full.WriteString(delta)
				}
			}
			r.finishLocked()
		}
	}

	if r.err != nil && !r.reported {
		r.reported = true
		return r.err
	}
	return nil
}

// FullText returns the concatenation of every delta produced so far (or the
// complete string). After Close it is the final reply text.
func (r *StreamingResponse) FullText() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.full.String()
}

// Err returns the terminal source error, if generation failed.
func (r *StreamingResponse) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}

// exhaustedLocked finishes the source and returns its error, or io.EOF.
func (r *StreamingResponse) exhaustedLocked() (core.Chunk, error) {
	r.finishLocked()
	if r.err != nil {
		r.reported = true
		return core.Chunk{}, r.err
	}
	return core.Chunk{}, io.EOF
}

// finishLocked marks the source exhausted and collects its error; caller must hold the lock.
func (r *StreamingResponse) finishLocked() {
	r.done = true
	if errs := r.output.Errs(); errs != nil {
		if err, ok := <-errs; ok && err != nil {
			r.err = err
		}
	}
}
