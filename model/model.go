package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Part represents a polymorphic segment of role-based content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text string
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// FunctionCall describes a tool/function invocation request.
type FunctionCall struct {
	ID        string `json:"id,omitempty"`        // Optional stable id
	Name      string `json:"name"`                // Tool / function name
	Arguments string `json:"arguments,omitempty"` // Serialized argument payload (JSON)
}

// FunctionCallPart wraps a FunctionCall as a content part.
type FunctionCallPart struct {
	FunctionCall FunctionCall
}

// isPart implements the Part interface for FunctionCallPart.
func (FunctionCallPart) isPart() {}

// Content is a role tagged list of parts ("system", "user" or "assistant").
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// NewTextContent creates a single text part content for role.
func NewTextContent(role, text string) Content {
	return Content{Role: role, Parts: []Part{TextPart{Text: text}}}
}

// Text concatenates all text parts.
func (c Content) Text() string {
	var b strings.Builder
	for _, p := range c.Parts {
		if tp, ok := p.(TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// FunctionCalls returns the function call parts preserving their order.
func (c Content) FunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, p := range c.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input.
type Request struct {
	Instructions string           `json:"instructions"` // System instructions for the model
	Contents     []Content        `json:"contents"`     // Conversation converted to provider messages
	Tools        []ToolDefinition `json:"tools,omitempty"`
	ToolChoice   string           `json:"tool_choice,omitempty"` // Name of a tool the model must call
	Stream       bool             `json:"stream,omitempty"`
	MaxTokens    int64            `json:"max_tokens,omitempty"` // Overrides the adapter default when > 0
}

// Response is a (partial or final) chunk emitted by a model. Partial
// responses carry text deltas; the final response carries the full content.
type Response struct {
	ID           string  `json:"id"`
	Partial      bool    `json:"partial"`
	Content      Content `json:"content"`
	FinishReason string  `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by agents, selectors and reporters.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// ErrNoResponse is returned when a model finished without a final response.
var ErrNoResponse = errors.New("model returned no final response")

// Final runs a generation to completion and returns its final response.
func Final(ctx context.Context, m Model, req Request) (Response, error) {
	respCh, errCh := m.Generate(ctx, req)

	var (
		final Response
		found bool
	)
	for resp := range respCh {
		if !resp.Partial {
			final = resp
			found = true
		}
	}
	if err, ok := <-errCh; ok && err != nil {
		return Response{}, err
	}
	if !found {
		return Response{}, ErrNoResponse
	}
	return final, nil
}

// GenerateText is Final reduced to the text of the final response.
func GenerateText(ctx context.Context, m Model, req Request) (string, error) {
	resp, err := Final(ctx, m, req)
	if err != nil {
		return "", err
	}
	return resp.Content.Text(), nil
}

// MockModel is a lightweight in‑memory Model useful for tests & examples.
// It answers with a canned response keyed by the last user text, or echoes
// the input. When streaming, the answer is emitted one word at a time.
type MockModel struct {
	info      Info
	responses map[string]Content
	err       error
	requests  []Request
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
		responses: make(map[string]Content),
	}
}

// AddResponse registers a deterministic canned text completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.responses[prompt] = NewTextContent("assistant", response)
}

// AddFunctionCall registers a canned function call for an input prompt.
func (m *MockModel) AddFunctionCall(prompt string, call FunctionCall) {
	m.responses[prompt] = Content{Role: "assistant", Parts: []Part{FunctionCallPart{FunctionCall: call}}}
}

// FailWith makes every subsequent generation fail with err.
func (m *MockModel) FailWith(err error) { m.err = err }

// Requests returns the requests received so far.
func (m *MockModel) Requests() []Request { return append([]Request(nil), m.requests...) }

// Generate implements Model; emits optional streaming word chunks then final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)
	m.requests = append(m.requests, req)

	go func() {
		defer close(respCh)
		defer close(errCh)
		if m.err != nil {
			errCh <- m.err
			return
		}
		if len(req.Contents) == 0 {
			errCh <- fmt.Errorf("no contents provided")
			return
		}
		inputText := req.Contents[len(req.Contents)-1].Text()
		content, ok := m.responses[inputText]
		if !ok {
			content = NewTextContent("assistant", fmt.Sprintf("Mock response to: %s", inputText))
		}
		if req.Stream {
			for _, w := range strings.SplitAfter(content.Text(), " ") {
				if w == "" {
					continue
				}
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Content: NewTextContent("assistant", w)}:
				}
			}
		}
		respCh <- Response{
			Partial:      false,
			Content:      content,
			FinishReason: "stop",
		}
	}()
	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
