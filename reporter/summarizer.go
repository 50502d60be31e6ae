package reporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/internal/util"
	"github.com/hupe1980/agentmc/model"
)

// DefaultSummaryTemplate asks for a neutral third-person summary. It
// receives .Participant and .Conversation (already bulleted).
const DefaultSummaryTemplate = `Summarize the following conversation in a few plain sentences.
Keep every speaker's name, keep the order of events and do not invent anything.
Output the summary only.

Conversation:
{{ .Conversation }}`

// SummarizerOptions configures a Summarizer.
type SummarizerOptions struct {
	Template    string
	MaxMessages int   // most recent messages summarized (<= 0: all)
	MaxTokens   int64 // output budget passed to the model (0: adapter default)
}

// Summarizer is a core.Reporter producing a neutral summary instead of a
// personal briefing. It is cheaper to prompt and suits large groups.
type Summarizer struct {
	llm  model.Model
	opts SummarizerOptions
}

// NewSummarizer creates a model-backed summarizer.
// Defaults: DefaultSummaryTemplate, last 10 messages, 1000 output tokens.
func NewSummarizer(llm model.Model, optFns ...func(o *SummarizerOptions)) *Summarizer {
	opts := SummarizerOptions{
		Template:    DefaultSummaryTemplate,
		MaxMessages: 10,
		MaxTokens:   1000,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Summarizer{llm: llm, opts: opts}
}

// Report implements core.Reporter.
func (s *Summarizer) Report(ctx context.Context, participant string, messages []core.Message) (string, error) {
	if len(messages) == 0 {
		return "Produce a new message", nil
	}

	prompt, err := util.RenderTemplate(s.opts.Template, map[string]any{
		"Participant":  participant,
		"Conversation": bulletList(window(messages, s.opts.MaxMessages)),
	})
	if err != nil {
		return "", fmt.Errorf("render summary prompt: %w", err)
	}

	text, err := model.GenerateText(ctx, s.llm, model.Request{
		Contents:  []model.Content{model.NewTextContent("user", prompt)},
		MaxTokens: s.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	return strings.TrimSpace(lo.CoalesceOrEmpty(text, bulletList(messages))), nil
}
