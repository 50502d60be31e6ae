package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/hupe1980/agentmc/core"
)

// ScriptedAgent is a core.Agent replaying canned replies and recording every
// prompt it receives. Replies are consumed in order; once exhausted the last
// reply repeats. Each reply is either complete text or a list of deltas.
type ScriptedAgent struct {
	mu        sync.Mutex
	replies   []ScriptedReply
	prompts   []string
	callCount int
}

// ScriptedReply is one canned answer of a ScriptedAgent.
type ScriptedReply struct {
	Text      string   // complete reply (used when Deltas is nil)
	Deltas    []string // incremental reply
	StreamErr error    // error raised after the deltas
	CallErr   error    // error returned instead of any output
	Hold      <-chan struct{}
}

// NewScriptedAgent creates an agent answering with the given complete texts.
func NewScriptedAgent(texts ...string) *ScriptedAgent {
	a := &ScriptedAgent{}
	for _, t := range texts {
		a.replies = append(a.replies, ScriptedReply{Text: t})
	}
	return a
}

// NewStreamingAgent creates an agent answering every prompt with the given deltas.
func NewStreamingAgent(deltas ...string) *ScriptedAgent {
	return &ScriptedAgent{replies: []ScriptedReply{{Deltas: deltas}}}
}

// NewFailingAgent creates an agent whose stream fails with err after the deltas.
func NewFailingAgent(err error, deltas ...string) *ScriptedAgent {
	if deltas == nil {
		deltas = []string{}
	}
	return &ScriptedAgent{replies: []ScriptedReply{{Deltas: deltas, StreamErr: err}}}
}

// Then appends another scripted reply (chainable).
func (a *ScriptedAgent) Then(r ScriptedReply) *ScriptedAgent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.replies = append(a.replies, r)
	return a
}

// Reply implements core.Agent.
func (a *ScriptedAgent) Reply(_ context.Context, prompt string) (core.Output, error) {
	a.mu.Lock()
	a.prompts = append(a.prompts, prompt)
	r := ScriptedReply{}
	if len(a.replies) > 0 {
		r = a.replies[min(a.callCount, len(a.replies)-1)]
	}
	a.callCount++
	a.mu.Unlock()

	if r.CallErr != nil {
		return core.Output{}, r.CallErr
	}
	if r.Deltas == nil && r.StreamErr == nil && r.Hold == nil {
		return core.Complete(r.Text), nil
	}
	return core.IncrementalFunc(func(send func(string)) error {
		if r.Hold != nil {
			<-r.Hold
		}
		for _, d := range r.Deltas {
			send(d)
		}
		return r.StreamErr
	}), nil
}

// Prompts returns every prompt received so far.
func (a *ScriptedAgent) Prompts() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.prompts...)
}

// LastPrompt returns the most recent prompt, or "" if never called.
func (a *ScriptedAgent) LastPrompt() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.prompts) == 0 {
		return ""
	}
	return a.prompts[len(a.prompts)-1]
}

// Calls returns how many times the agent was asked to reply.
func (a *ScriptedAgent) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.callCount
}

// ErrSelector is the error raised by FailingSelector.
var ErrSelector = errors.New("selector unavailable")

// FixedSelector always answers name, whether or not it is a candidate.
func FixedSelector(name string) core.Selector {
	return core.SelectorFunc(func(context.Context, []string, []core.Message) (string, error) {
		return name, nil
	})
}

// FailingSelector always fails.
func FailingSelector() core.Selector {
	return core.SelectorFunc(func(context.Context, []string, []core.Message) (string, error) {
		return "", ErrSelector
	})
}

// RecordingSelector picks the first candidate and records every call.
type RecordingSelector struct {
	mu    sync.Mutex
	Calls [][]string
	Seen  [][]core.Message
}

// Select implements core.Selector.
func (s *RecordingSelector) Select(_ context.Context, candidates []string, recent []core.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, append([]string(nil), candidates...))
	s.Seen = append(s.Seen, recent)
	return candidates[0], nil
}
