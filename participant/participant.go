// Package participant implements a conversation participant: a named agent
// with its own buffer of messages heard since it last spoke.
//
// A participant never buffers its own messages. Its buffers are drained
// atomically when it is asked to reply, so anything delivered while the agent
// is generating belongs to the next turn: nothing is lost and nothing is
// delivered twice.
package participant

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/logging"
	"github.com/hupe1980/agentmc/reporter"
	"github.com/hupe1980/agentmc/response"
)

// Options configures a Participant.
type Options struct {
	// Prompts overrides the prompt templates; unset templates keep their default.
	Prompts Prompts
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Participant owns one agent and the context buffered for it.
type Participant struct {
	name     string
	agent    core.Agent
	reporter core.Reporter
	prompts  Prompts
	logger   logging.Logger

	mu        sync.Mutex
	messages  []core.Message
	modifiers []core.ContextModifier
}

// New creates a participant named name speaking through agent. A nil
// reporter falls back to the bullet point reporter.
func New(name string, agent core.Agent, rep core.Reporter, optFns ...func(o *Options)) *Participant {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if rep == nil {
		rep = reporter.NewBulletPoint()
	}

	return &Participant{
		name:     name,
		agent:    agent,
		reporter: rep,
		prompts:  opts.Prompts.withDefaults(),
		logger:   logging.OrNoOp(opts.Logger),
	}
}

// Name returns the participant's unique name.
func (p *Participant) Name() string { return p.name }

// ReceiveMessage buffers msg for the next turn unless p sent it itself.
// Delivering the same message twice buffers it twice.
func (p *Participant) ReceiveMessage(msg core.Message) {
	if msg.Sender == p.name {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages = append(p.messages, msg)
}

// ReceiveModifier buffers a context modifier for the next turn.
func (p *Participant) ReceiveModifier(mod core.ContextModifier) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.modifiers = append(p.modifiers, mod)
}

// PendingMessages returns a copy of the messages buffered since the last turn.
func (p *Participant) PendingMessages() []core.Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]core.Message(nil), p.messages...)
}

// PendingModifiers returns a copy of the modifiers buffered since the last turn.
func (p *Participant) PendingModifiers() []core.ContextModifier {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]core.ContextModifier(nil), p.modifiers...)
}

// Reply drains the buffers, builds a prompt from them and asks the agent to
// answer it. An empty buffer yields the opening prompt without consulting
// the reporter.
//
// If the prompt cannot be built the drained context is put back in front of
// anything that arrived meanwhile. Once the agent has been invoked the
// context counts as delivered, even if the agent fails.
func (p *Participant) Reply(ctx context.Context, cumulative bool) (*response.StreamingResponse, error) {
	messages, modifiers := p.drain()

	prompt, err := p.prompt(ctx, messages, modifiers)
	if err != nil {
		p.restore(messages, modifiers)
		return nil, fmt.Errorf("participant %s: build prompt: %w", p.name, err)
	}

	p.logger.Debug("Participant replying", "participant", p.name, "messages", len(messages), "modifiers", len(modifiers))

	out, err := p.agent.Reply(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("participant %s: agent reply: %w", p.name, err)
	}

	return response.New(p.name, out, cumulative), nil
}

// Prompt renders the prompt the participant would send for the given
// context without touching its buffers.
func (p *Participant) Prompt(ctx context.Context, messages []core.Message, modifiers []core.ContextModifier) (string, error) {
	return p.prompt(ctx, messages, modifiers)
}

func (p *Participant) prompt(ctx context.Context, messages []core.Message, modifiers []core.ContextModifier) (string, error) {
	var report string
	if len(messages) > 0 {
		r, err := p.reporter.Report(ctx, p.name, messages)
		if err != nil {
			return "", fmt.Errorf("report: %w", err)
		}
		report = r
	}

	return p.prompts.render(p.name, report, len(messages) > 0, modifiers)
}

// drain atomically takes and clears both buffers.
func (p *Participant) drain() ([]core.Message, []core.ContextModifier) {
	p.mu.Lock()
	defer p.mu.Unlock()

	messages, modifiers := p.messages, p.modifiers
	p.messages, p.modifiers = nil, nil

	return messages, modifiers
}

// restore puts drained context back ahead of anything buffered since.
func (p *Participant) restore(messages []core.Message, modifiers []core.ContextModifier) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages = append(append([]core.Message(nil), messages...), p.messages...)
	p.modifiers = append(append([]core.ContextModifier(nil), modifiers...), p.modifiers...)
}
