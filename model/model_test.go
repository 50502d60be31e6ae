package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel_StreamsWordsThenFinal(t *testing.T) {
	m := NewMockModel("mock", "test")
	m.AddResponse("hi", "hello there friend")

	respCh, errCh := m.Generate(context.Background(), Request{
		Contents: []Content{NewTextContent("user", "hi")},
		Stream:   true,
	})

	var partials []string
	var final Response
	for r := range respCh {
		if r.Partial {
			partials = append(partials, r.Content.Text())
			continue
		}
		final = r
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, []string{"hello ", "there ", "friend"}, partials)
	assert.Equal(t, "hello there friend", final.Content.Text())
	assert.Equal(t, "stop", final.FinishReason)
}

func TestFinalAndGenerateText(t *testing.T) {
	m := NewMockModel("mock", "test")
	m.AddFunctionCall("pick", FunctionCall{Name: "select_participant", Arguments: `{"participant":"Ava"}`})

	resp, err := Final(context.Background(), m, Request{Contents: []Content{NewTextContent("user", "pick")}})
	require.NoError(t, err)
	calls := resp.Content.FunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "select_participant", calls[0].Name)

	text, err := GenerateText(context.Background(), m, Request{Contents: []Content{NewTextContent("user", "echo")}})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: echo", text)
	assert.Len(t, m.Requests(), 2)
}

func TestFinal_PropagatesErrors(t *testing.T) {
	m := NewMockModel("mock", "test")
	_, err := Final(context.Background(), m, Request{})
	assert.Error(t, err)

	boom := errors.New("boom")
	m.FailWith(boom)
	_, err = GenerateText(context.Background(), m, Request{Contents: []Content{NewTextContent("user", "x")}})
	assert.ErrorIs(t, err, boom)
}

func TestContentHelpers(t *testing.T) {
	c := Content{Role: "assistant", Parts: []Part{
		TextPart{Text: "a"},
		FunctionCallPart{FunctionCall: FunctionCall{Name: "f"}},
		TextPart{Text: "b"},
	}}
	assert.Equal(t, "ab", c.Text())
	assert.Len(t, c.FunctionCalls(), 1)
}
