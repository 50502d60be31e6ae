package testutil

import (
	"time"

	"github.com/hupe1980/agentmc/core"
)

// MessageBuilder provides a fluent helper for constructing messages in tests.
// Example:
//
//	msg := NewMessageBuilder().Sender("Ava").Content("hello").Index(3).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MessageBuilder struct {
	id      string
	index   int
	sender  string
	content string
	at      time.Time
}

// NewMessageBuilder creates a builder with default sender "agent".
func NewMessageBuilder() *MessageBuilder { return &MessageBuilder{sender: "agent", index: -1} }

// ID overrides the auto-generated message ID (chainable).
func (b *MessageBuilder) ID(id string) *MessageBuilder { b.id = id; return b }

// Index sets the timeline position (chainable).
func (b *MessageBuilder) Index(i int) *MessageBuilder { b.index = i; return b }

// Sender sets the sender name (chainable).
func (b *MessageBuilder) Sender(s string) *MessageBuilder { b.sender = s; return b }

// Content sets the message text (chainable).
func (b *MessageBuilder) Content(c string) *MessageBuilder { b.content = c; return b }

// At sets the timestamp (chainable).
func (b *MessageBuilder) At(t time.Time) *MessageBuilder { b.at = t; return b }

// Build materializes the message.
func (b *MessageBuilder) Build() core.Message {
	msg := core.NewMessage(b.sender, b.content)
	msg.Index = b.index
	if b.id != "" {
		msg.ID = b.id
	}
	if !b.at.IsZero() {
		msg.Timestamp = b.at
	}
	return msg
}

// Messages builds an indexed message list from sender/content pairs:
//
//	Messages("Ava", "hi", "Kael", "hello")
//
// A trailing unpaired sender is ignored.
func Messages(pairs ...string) []core.Message {
	tl := core.NewTimeline()
	for i := 0; i+1 < len(pairs); i += 2 {
		tl.Append(pairs[i], pairs[i+1])
	}
	return tl.Messages()
}
