package participant

import (
	"github.com/samber/lo"

	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/internal/util"
)

// Prompts holds the text/templates used to turn a participant's buffered
// context into its next prompt. Each template receives PromptData.
type Prompts struct {
	// Empty is used when nothing was said since the last turn and no
	// modifiers are pending, typically the very first turn.
	Empty string
	// MessagesOnly wraps the report of buffered messages.
	MessagesOnly string
	// ModifiersOnly is used when only context modifiers are pending.
	ModifiersOnly string
	// Full combines a report with pending modifiers.
	Full string
}

// PromptData is the data passed to every prompt template.
type PromptData struct {
	Name      string
	Report    string
	Modifiers []string
}

// DefaultPrompts returns the built-in prompt templates.
func DefaultPrompts() Prompts {
	return Prompts{
		Empty: `The conversation is just beginning. Nobody has spoken yet.

Now it is your turn:`,
		MessagesOnly: `Report of the conversation since your last turn:
{{ .Report }}

Now it is your turn:`,
		ModifiersOnly: `Nobody has spoken since your last turn, but the situation changed:
{{ bullets .Modifiers }}

Now it is your turn:`,
		Full: `Report of the conversation since your last turn:
{{ .Report }}

Meanwhile, the situation changed:
{{ bullets .Modifiers }}

Now it is your turn:`,
	}
}

// withDefaults fills unset templates from DefaultPrompts.
func (p Prompts) withDefaults() Prompts {
	d := DefaultPrompts()
	return Prompts{
		Empty:         lo.CoalesceOrEmpty(p.Empty, d.Empty),
		MessagesOnly:  lo.CoalesceOrEmpty(p.MessagesOnly, d.MessagesOnly),
		ModifiersOnly: lo.CoalesceOrEmpty(p.ModifiersOnly, d.ModifiersOnly),
		Full:          lo.CoalesceOrEmpty(p.Full, d.Full),
	}
}

// render picks the template matching what is pending and renders it.
// report is only meaningful when messages were buffered.
func (p Prompts) render(name, report string, hasMessages bool, modifiers []core.ContextModifier) (string, error) {
	data := PromptData{
		Name:      name,
		Report:    report,
		Modifiers: lo.Map(modifiers, func(m core.ContextModifier, _ int) string { return m.String() }),
	}

	switch {
	case !hasMessages && len(modifiers) == 0:
		return util.RenderTemplate(p.Empty, data)
	case !hasMessages:
		return util.RenderTemplate(p.ModifiersOnly, data)
	case len(modifiers) == 0:
		return util.RenderTemplate(p.MessagesOnly, data)
	default:
		return util.RenderTemplate(p.Full, data)
	}
}
