package selector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/internal/util"
	"github.com/hupe1980/agentmc/logging"
	"github.com/hupe1980/agentmc/model"
)

// ToolName is the name of the function offered to the model.
const ToolName = "select_participant"

// DefaultPromptTemplate is the selection prompt. It receives .Participants
// and .Messages, both as []string.
const DefaultPromptTemplate = `You are managing a multi-character conversation. Based on the recent messages and the current situation, choose the next participant who should speak. Consider who has the most reason to respond, take initiative, clarify something, or move the discussion forward.

Available participants:
{{ bullets .Participants }}

Recent messages:
{{ if .Messages }}{{ bullets .Messages }}{{ else }}(none yet){{ end }}

Rules:
- Always select exactly one participant from the list.
- Choose the one whose voice is most needed right now.
- Do not explain your choice or provide any commentary.

Return the name of the selected participant only, exactly as it appears in the list.`

// ModelOptions configures a Model selector.
type ModelOptions struct {
	// Template overrides DefaultPromptTemplate.
	Template string
	// MaxMessages caps the recent messages shown to the model; 0 shows none.
	MaxMessages int
	// DisableTool sends a plain prompt and parses the answer as text.
	DisableTool bool
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Model asks a language model who speaks next.
type Model struct {
	llm  model.Model
	opts ModelOptions
}

// NewModel creates a model-backed selector.
func NewModel(llm model.Model, optFns ...func(o *ModelOptions)) *Model {
	opts := ModelOptions{
		Template:    DefaultPromptTemplate,
		MaxMessages: 10,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	return &Model{llm: llm, opts: opts}
}

type promptData struct {
	Participants []string
	Messages     []string
}

// Select implements core.Selector. A tool call argument wins over the text
// answer; the result is returned unvalidated.
func (s *Model) Select(ctx context.Context, candidates []string, recent []core.Message) (string, error) {
	if s.opts.MaxMessages <= 0 {
		recent = nil
	} else if len(recent) > s.opts.MaxMessages {
		recent = recent[len(recent)-s.opts.MaxMessages:]
	}

	prompt, err := util.RenderTemplate(s.opts.Template, promptData{
		Participants: candidates,
		Messages:     lo.Map(recent, func(m core.Message, _ int) string { return m.String() }),
	})
	if err != nil {
		return "", fmt.Errorf("render selector prompt: %w", err)
	}

	req := model.Request{
		Contents: []model.Content{model.NewTextContent("user", prompt)},
	}
	if !s.opts.DisableTool {
		req.Tools = []model.ToolDefinition{selectionTool(candidates)}
		req.ToolChoice = ToolName
	}

	start := time.Now()
	resp, err := model.Final(ctx, s.llm, req)
	logging.LogLLMCall(s.opts.Logger, s.llm.Info().Name, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("select participant: %w", err)
	}

	return parseSelection(resp.Content), nil
}

func selectionTool(candidates []string) model.ToolDefinition {
	return model.ToolDefinition{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        ToolName,
			Description: "Select the next participant to speak.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"participant": map[string]any{
						"type":        "string",
						"description": "Name of the next speaker.",
						"enum":        candidates,
					},
				},
				"required": []string{"participant"},
			},
		},
	}
}

// parseSelection extracts the chosen name from a tool call, falling back to
// the trimmed text of the answer.
func parseSelection(c model.Content) string {
	for _, call := range c.FunctionCalls() {
		if call.Name != ToolName {
			continue
		}
		var args struct {
			Participant string `json:"participant"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err == nil && args.Participant != "" {
			return strings.TrimSpace(args.Participant)
		}
	}

	return strings.Trim(strings.TrimSpace(c.Text()), `"'*.`)
}
