package selector

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/internal/testutil"
	"github.com/hupe1980/agentmc/model"
)

// fakeModel answers every request with a fixed final response.
type fakeModel struct {
	resp     model.Response
	err      error
	requests []model.Request
}

func (f *fakeModel) Generate(_ context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	f.requests = append(f.requests, req)
	out := make(chan model.Response, 1)
	errCh := make(chan error, 1)
	if f.err != nil {
		errCh <- f.err
	} else {
		out <- f.resp
	}
	close(out)
	close(errCh)
	return out, errCh
}

func (f *fakeModel) Info() model.Info { return model.Info{Name: "fake", Provider: "test"} }

func toolAnswer(args string) model.Response {
	return model.Response{Content: model.Content{Role: "assistant", Parts: []model.Part{
		model.FunctionCallPart{FunctionCall: model.FunctionCall{Name: ToolName, Arguments: args}},
	}}}
}

func TestRandom_AlwaysPicksACandidate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		candidates := rapid.SliceOfNDistinct(rapid.StringMatching(`[A-Z][a-z]{1,6}`), 1, 6, rapid.ID[string]).Draw(t, "candidates")
		seed := rapid.Uint64().Draw(t, "seed")

		s := NewRandom(func(o *RandomOptions) { o.Rand = rand.New(rand.NewPCG(seed, seed)) })
		got, err := s.Select(context.Background(), candidates, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		found := false
		for _, c := range candidates {
			found = found || c == got
		}
		if !found {
			t.Fatalf("%q not in %v", got, candidates)
		}
	})
}

func TestRandom_ReachesEveryCandidate(t *testing.T) {
	s := NewRandom(func(o *RandomOptions) { o.Rand = rand.New(rand.NewPCG(1, 2)) })
	candidates := []string{"Ava", "Kael", "Zed"}

	seen := map[string]int{}
	for range 300 {
		got, err := s.Select(context.Background(), candidates, nil)
		require.NoError(t, err)
		seen[got]++
	}

	assert.Len(t, seen, 3)
}

func TestRandom_NoCandidates(t *testing.T) {
	_, err := NewRandom().Select(context.Background(), nil, nil)
	assert.ErrorIs(t, err, core.ErrNoParticipants)
}

func TestSequential(t *testing.T) {
	s := NewSequential()

	got, err := s.Select(context.Background(), []string{"Kael", "Zed"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Kael", got)

	_, err = s.Select(context.Background(), []string{}, nil)
	assert.ErrorIs(t, err, core.ErrNoParticipants)
}

func TestModel_ParsesToolCall(t *testing.T) {
	llm := &fakeModel{resp: toolAnswer(`{"participant":"Zed"}`)}
	s := NewModel(llm)

	got, err := s.Select(context.Background(), []string{"Kael", "Zed"}, testutil.Messages("Ava", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "Zed", got)

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Equal(t, ToolName, req.ToolChoice)
	require.Len(t, req.Tools, 1)
	props := req.Tools[0].Function.Parameters["properties"].(map[string]any)
	assert.Equal(t, []string{"Kael", "Zed"}, props["participant"].(map[string]any)["enum"])

	prompt := req.Contents[0].Text()
	assert.Contains(t, prompt, "- Kael\n- Zed")
	assert.Contains(t, prompt, "- Ava: hello")
}

func TestModel_FallsBackToText(t *testing.T) {
	llm := &fakeModel{resp: model.Response{Content: model.NewTextContent("assistant", "  Kael.\n")}}
	s := NewModel(llm, func(o *ModelOptions) { o.DisableTool = true })

	got, err := s.Select(context.Background(), []string{"Kael", "Zed"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Kael", got)
	assert.Empty(t, llm.requests[0].Tools)
	assert.Contains(t, llm.requests[0].Contents[0].Text(), "(none yet)")
}

func TestModel_ReturnsOutOfSetAnswersUnchanged(t *testing.T) {
	llm := &fakeModel{resp: toolAnswer(`{"participant":"Nobody"}`)}

	got, err := NewModel(llm).Select(context.Background(), []string{"Kael"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Nobody", got)
}

func TestModel_WindowsRecentMessages(t *testing.T) {
	msgs := testutil.Messages("A", "m0", "B", "m1", "A", "m2", "B", "m3")

	llm := &fakeModel{resp: toolAnswer(`{"participant":"A"}`)}
	_, err := NewModel(llm, func(o *ModelOptions) { o.MaxMessages = 2 }).Select(context.Background(), []string{"A"}, msgs)
	require.NoError(t, err)
	prompt := llm.requests[0].Contents[0].Text()
	assert.NotContains(t, prompt, "m1")
	assert.Contains(t, prompt, "- A: m2\n- B: m3")

	llm = &fakeModel{resp: toolAnswer(`{"participant":"A"}`)}
	_, err = NewModel(llm, func(o *ModelOptions) { o.MaxMessages = 0 }).Select(context.Background(), []string{"A"}, msgs)
	require.NoError(t, err)
	assert.NotContains(t, llm.requests[0].Contents[0].Text(), "m3")
}

func TestModel_PropagatesModelError(t *testing.T) {
	boom := errors.New("rate limited")
	_, err := NewModel(&fakeModel{err: boom}).Select(context.Background(), []string{"Kael"}, nil)
	assert.ErrorIs(t, err, boom)
}
