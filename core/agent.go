package core

import (
	"context"
	"fmt"
)

// Agent is the opaque generation capability behind a participant. It turns
// a prompt into either a complete reply or an incremental stream of text
// deltas. Errors are not suppressed by the orchestrator; they surface from
// the turn that invoked the agent.
type Agent interface {
	Reply(ctx context.Context, prompt string) (Output, error)
}

// AgentFunc is a functional adapter allowing ordinary functions to be used as Agents.
type AgentFunc func(ctx context.Context, prompt string) (Output, error)

// Reply implements Agent.
func (f AgentFunc) Reply(ctx context.Context, prompt string) (Output, error) { return f(ctx, prompt) }

// OutputKind tags the shape of an agent Output.
type OutputKind int

const (
	// OutputComplete is a single already-complete string.
	OutputComplete OutputKind = iota
	// OutputIncremental is a lazy sequence of non-cumulative text deltas.
	OutputIncremental
)

// String returns the string representation of the output kind.
func (k OutputKind) String() string {
	switch k {
	case OutputComplete:
		return "complete"
	case OutputIncremental:
		return "incremental"
	default:
		return "unknown"
	}
}

// Output is what an Agent produces: either Complete(text) or
// Incremental(deltas, errs). Consumers switch on Kind once.
//
// Incremental producers must close deltas when generation ends and report
// at most one error on errs, which must be buffered or closed so a consumer
// reading it after deltas closed never blocks. Each delta is new text only;
// the same fragment is never repeated.
type Output struct {
	kind   OutputKind
	text   string
	deltas <-chan string
	errs   <-chan error
}

// Complete wraps an already complete reply.
func Complete(text string) Output {
	return Output{kind: OutputComplete, text: text}
}

// Incremental wraps a stream of non-cumulative text deltas. errs may be nil
// when the producer cannot fail mid-stream.
func Incremental(deltas <-chan string, errs <-chan error) Output {
	return Output{kind: OutputIncremental, deltas: deltas, errs: errs}
}

// IncrementalFunc runs produce in its own goroutine and exposes everything it
// sends as an Incremental output. A non-nil error returned by produce, or a
// panic wrapped in ErrPanicked, is reported after the last delta.
func IncrementalFunc(produce func(send func(delta string)) error) Output {
	deltas := make(chan string, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(errs)
		defer close(deltas)

		if err := runProducer(produce, deltas); err != nil {
			errs <- err
		}
	}()

	return Incremental(deltas, errs)
}

func runProducer(produce func(send func(delta string)) error, deltas chan<- string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()

	return produce(func(delta string) { deltas <- delta })
}

// Kind reports which variant this output holds.
func (o Output) Kind() OutputKind { return o.kind }

// Text returns the complete reply; empty for incremental outputs.
func (o Output) Text() string { return o.text }

// Deltas returns the delta channel; nil for complete outputs.
func (o Output) Deltas() <-chan string { return o.deltas }

// Errs returns the error channel; nil for complete outputs.
func (o Output) Errs() <-chan error { return o.errs }

// Chunk is one observable piece of a reply: the speaker and either the
// latest delta or the text accumulated so far.
type Chunk struct {
	Name string `json:"name"`
	Text string `json:"text"`
}
