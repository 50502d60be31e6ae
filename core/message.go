package core

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single committed utterance. After creation it should be
// treated as immutable; ordering is given by Index, the position in the
// Timeline the message was appended to.
type Message struct {
	ID        string    `json:"id"`
	Index     int       `json:"index"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a detached message (Index -1) with a fresh ID.
// Timeline.Append assigns the index when the message is committed.
func NewMessage(sender, content string) Message {
	return Message{
		ID:        NewID(),
		Index:     -1,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// String renders the message as "Sender: Content", the form used in
// selector and reporter prompts.
func (m Message) String() string { return m.Sender + ": " + m.Content }

// NewID generates a new unique identifier for messages and turns.
func NewID() string { return uuid.NewString() }
