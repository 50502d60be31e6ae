package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/logging"
	"github.com/hupe1980/agentmc/model"
)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	Instruction        Instruction
	EnableStreaming    bool
	MaxHistoryMessages int
	Logger             logging.Logger
}

// ModelAgent answers prompts with a language model.
//
// This agent implementation supports:
//   - Persona instructions through a system prompt
//   - Streaming responses for real-time presentation
//   - A rolling history of prompts and replies
//
// ModelAgent is safe for concurrent use, although the orchestrator never
// asks the same agent for two replies at once.
type ModelAgent struct {
	name               string
	llm                model.Model
	instruction        Instruction
	enableStreaming    bool
	maxHistoryMessages int
	logger             logging.Logger

	mu      sync.Mutex
	history []model.Content
}

// NewModelAgent creates a new model-based agent with sensible defaults.
//
// The agent is initialized with:
//   - A generic persona instruction using name
//   - Streaming enabled
//   - 20-message conversation history limit
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Instruction:        NewInstructionFromText(fmt.Sprintf("You are %s, taking part in a conversation.", name)),
		EnableStreaming:    true,
		MaxHistoryMessages: 20,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &ModelAgent{
		name:               name,
		llm:                llm,
		instruction:        opts.Instruction,
		enableStreaming:    opts.EnableStreaming,
		maxHistoryMessages: opts.MaxHistoryMessages,
		logger:             logging.OrNoOp(opts.Logger),
	}
}

// Name returns the agent's display name.
func (a *ModelAgent) Name() string { return a.name }

// IsStreamingEnabled returns whether streaming responses are enabled.
func (a *ModelAgent) IsStreamingEnabled() bool { return a.enableStreaming }

// MaxHistoryMessages returns the maximum number of conversation history messages to keep.
func (a *ModelAgent) MaxHistoryMessages() int { return a.maxHistoryMessages }

// History returns a copy of the recorded prompts and replies.
func (a *ModelAgent) History() []model.Content {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]model.Content(nil), a.history...)
}

// Reply implements core.Agent. The prompt is recorded as a user message and
// the model's final text as an assistant message.
//
// ctx governs the generation itself: cancelling it aborts the model call.
func (a *ModelAgent) Reply(ctx context.Context, prompt string) (core.Output, error) {
	instructions, err := a.instruction.Resolve(ctx)
	if err != nil {
		return core.Output{}, fmt.Errorf("resolve instruction: %w", err)
	}

	req := model.Request{
		Instructions: instructions,
		Contents:     a.record(model.NewTextContent("user", prompt)),
		Stream:       a.enableStreaming,
	}

	a.logger.Debug("Agent reply started", "agent", a.name, "history", len(req.Contents), "stream", req.Stream)

	if !a.enableStreaming {
		start := time.Now()
		resp, err := model.Final(ctx, a.llm, req)
		logging.LogLLMCall(a.logger, a.llm.Info().Name, time.Since(start), err)
		if err != nil {
			return core.Output{}, err
		}

		text := resp.Content.Text()
		a.record(model.NewTextContent("assistant", text))

		return core.Complete(text), nil
	}

	return core.IncrementalFunc(func(send func(string)) error {
		start := time.Now()
		text, err := a.stream(ctx, req, send)
		logging.LogLLMCall(a.logger, a.llm.Info().Name, time.Since(start), err)
		if text != "" {
			a.record(model.NewTextContent("assistant", text))
		}
		return err
	}), nil
}

// stream forwards partial responses as deltas and returns the final text.
// Models that only emit a final response have its text sent as one delta.
func (a *ModelAgent) stream(ctx context.Context, req model.Request, send func(string)) (string, error) {
	respCh, errCh := a.llm.Generate(ctx, req)

	var (
		sent  strings.Builder
		final string
		found bool
	)
	for resp := range respCh {
		if resp.Partial {
			if delta := resp.Content.Text(); delta != "" {
				sent.WriteString(delta)
				send(delta)
			}
			continue
		}
		final, found = resp.Content.Text(), true
	}

	if err, ok := <-errCh; ok && err != nil {
		return sent.String(), err
	}

	if found && sent.Len() == 0 && final != "" {
		send(final)
		return final, nil
	}

	return sent.String(), nil
}

// record appends c to the history, trims it to the configured limit and
// returns a snapshot. A trimmed history always starts with a user message.
func (a *ModelAgent) record(c model.Content) []model.Content {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, c)
	if a.maxHistoryMessages > 0 && len(a.history) > a.maxHistoryMessages {
		kept := a.history[len(a.history)-a.maxHistoryMessages:]
		for len(kept) > 1 && kept[0].Role != "user" {
			kept = kept[1:]
		}
		a.history = append([]model.Content(nil), kept...)
	}

	return append([]model.Content(nil), a.history...)
}
