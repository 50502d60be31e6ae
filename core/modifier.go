package core

// ModifierKind classifies a ContextModifier.
type ModifierKind string

const (
	// ModifierNarratorEvent describes something happening in the scene.
	ModifierNarratorEvent ModifierKind = "narrator_event"
	// ModifierInternalMonologue is a private thought injected into one participant.
	ModifierInternalMonologue ModifierKind = "internal_monologue"
)

// ContextModifier is an out-of-band narrative annotation merged into a
// participant's next prompt alongside its buffered messages.
type ContextModifier struct {
	Kind    ModifierKind `json:"kind"`
	Content string       `json:"content"`
}

// String returns the modifier content.
func (m ContextModifier) String() string { return m.Content }
