package core

import "sync"

// Timeline is the canonical, append-only, ordered log of committed messages.
// Entries are never mutated or removed once appended. It is safe for
// concurrent access; every read returns a defensive copy.
type Timeline struct {
	mu       sync.RWMutex
	messages []Message
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{messages: []Message{}}
}

// Append creates a message from sender and content, assigns it the next
// index and appends it.
func (t *Timeline) Append(sender, content string) Message {
	msg := NewMessage(sender, content)

	t.mu.Lock()
	defer t.mu.Unlock()

	msg.Index = len(t.messages)
	t.messages = append(t.messages, msg)

	return msg
}

// SliceSince returns every message at position >= index. Offsets outside the
// timeline are clamped, so a cursor equal to Len() yields an empty slice.
func (t *Timeline) SliceSince(index int) []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.sliceLocked(index)
}

// Recent returns the last n messages. n <= 0 yields an empty slice.
func (t *Timeline) Recent(n int) []Message {
	if n <= 0 {
		return []Message{}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.sliceLocked(len(t.messages) - n)
}

// Messages returns a copy of the full timeline.
func (t *Timeline) Messages() []Message { return t.SliceSince(0) }

// Len returns the number of committed messages.
func (t *Timeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.messages)
}

// sliceLocked copies messages from index onwards; caller must hold the lock.
func (t *Timeline) sliceLocked(index int) []Message {
	if index < 0 {
		index = 0
	}
	if index >= len(t.messages) {
		return []Message{}
	}

	out := make([]Message, len(t.messages)-index)
	copy(out, t.messages[index:])

	return out
}
