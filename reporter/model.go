package reporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/internal/util"
	"github.com/hupe1980/agentmc/logging"
	"github.com/hupe1980/agentmc/model"
)

// DefaultReportTemplate asks for a second-person briefing of what a
// participant missed. It receives .Participant and .Messages ([]string).
const DefaultReportTemplate = `You are a conversation reporter assigned to assist the participant named **{{ .Participant }}**.

The following conversation is a dialogue between other participants that occurred **since {{ .Participant }} last spoke**.

Your job is to write a short, natural-language briefing that helps {{ .Participant }} understand what was said.

- Write directly to {{ .Participant }}, using "you" when appropriate.
- Preserve the meaning and intent of each message, but rephrase in plain language.
- Keep all names except {{ .Participant }}, which should become "you".
- Do not copy, quote, or imitate dialogue formatting (e.g., "Name: ...").
- Your report should be roughly one sentence per message unless merging is natural.
- Do not invent or assume information that wasn't stated.
- Do not add intro or final note, output the report only.

Keep the style simple and neutral, as if you are a helpful assistant catching them up.

Messages to report:
{{ bullets .Messages }}`

// ModelOptions configures a Model reporter.
type ModelOptions struct {
	// Template is the text/template rendered into the model prompt.
	Template string
	// MaxMessages bounds how many of the most recent messages are reported (<= 0: all).
	MaxMessages int
	// TokenBudget, when set, derives the output token limit from the
	// rendered message length so briefings never outgrow what they brief.
	TokenBudget bool
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Model is a core.Reporter that asks a language model for the briefing.
type Model struct {
	llm  model.Model
	opts ModelOptions
}

// NewModel creates a model-backed reporter.
// Defaults: DefaultReportTemplate, last 100 messages, token budget enabled.
func NewModel(llm model.Model, optFns ...func(o *ModelOptions)) *Model {
	opts := ModelOptions{
		Template:    DefaultReportTemplate,
		MaxMessages: 100,
		TokenBudget: true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &Model{llm: llm, opts: opts}
}

// Report implements core.Reporter.
func (r *Model) Report(ctx context.Context, participant string, messages []core.Message) (string, error) {
	if len(messages) == 0 {
		return "", nil
	}

	recent := lo.Map(window(messages, r.opts.MaxMessages), func(m core.Message, _ int) string { return m.String() })

	prompt, err := util.RenderTemplate(r.opts.Template, map[string]any{
		"Participant": participant,
		"Messages":    recent,
	})
	if err != nil {
		return "", fmt.Errorf("render report prompt: %w", err)
	}

	req := model.Request{Contents: []model.Content{model.NewTextContent("user", prompt)}}
	if r.opts.TokenBudget {
		req.MaxTokens = int64(lo.SumBy(recent, func(s string) int { return len(s) }))
	}

	text, err := model.GenerateText(ctx, r.llm, req)
	if err != nil {
		return "", fmt.Errorf("generate report for %s: %w", participant, err)
	}

	r.opts.Logger.Debug("Report generated", "participant", participant, "messages", len(recent), "model", r.llm.Info().Name)

	return strings.TrimSpace(text), nil
}
