package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/model"
)

// MockModelImpl for testing LLM functionality
type MockModelImpl struct{ mock.Mock }

func (m *MockModelImpl) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	args := m.Called(ctx, req)

	respCh := make(chan model.Response, 16)
	errCh := make(chan error, 1)

	for _, r := range args.Get(0).([]model.Response) {
		respCh <- r
	}
	if err := args.Error(1); err != nil {
		errCh <- err
	}

	close(respCh)
	close(errCh)

	return respCh, errCh
}

func (m *MockModelImpl) Info() model.Info {
	return model.Info{Name: "mock-model", Provider: "mock"}
}

func partial(text string) model.Response {
	return model.Response{Partial: true, Content: model.NewTextContent("assistant", text)}
}

func final(text string) model.Response {
	return model.Response{Content: model.NewTextContent("assistant", text), FinishReason: "stop"}
}

// collect reads an output to the end.
func collect(t *testing.T, out core.Output) ([]string, error) {
	t.Helper()
	if out.Kind() == core.OutputComplete {
		return []string{out.Text()}, nil
	}
	var deltas []string
	for d := range out.Deltas() {
		deltas = append(deltas, d)
	}
	return deltas, <-out.Errs()
}

func TestModelAgent_NewAgent(t *testing.T) {
	mockLLM := &MockModelImpl{}
	agent := NewModelAgent("Ava", mockLLM)

	assert.NotNil(t, agent)
	assert.Equal(t, "Ava", agent.Name())
	assert.True(t, agent.IsStreamingEnabled())
	assert.Equal(t, 20, agent.MaxHistoryMessages())
	assert.Empty(t, agent.History())
}

func TestModelAgent_StreamingReply(t *testing.T) {
	mockLLM := &MockModelImpl{}
	mockLLM.On("Generate", mock.Anything, mock.MatchedBy(func(req model.Request) bool {
		return req.Stream && req.Instructions == "You are Ava, taking part in a conversation." &&
			len(req.Contents) == 1 && req.Contents[0].Text() == "Now it is your turn:"
	})).Return([]model.Response{partial("Hello "), partial("there."), final("Hello there.")}, nil)

	agent := NewModelAgent("Ava", mockLLM)
	out, err := agent.Reply(context.Background(), "Now it is your turn:")
	require.NoError(t, err)
	require.Equal(t, core.OutputIncremental, out.Kind())

	deltas, err := collect(t, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello ", "there."}, deltas)

	history := agent.History()
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "Hello there.", history[1].Text())
	mockLLM.AssertExpectations(t)
}

func TestModelAgent_StreamingFinalOnlyModel(t *testing.T) {
	mockLLM := &MockModelImpl{}
	mockLLM.On("Generate", mock.Anything, mock.Anything).Return([]model.Response{final("All at once.")}, nil)

	out, err := NewModelAgent("Ava", mockLLM).Reply(context.Background(), "go")
	require.NoError(t, err)

	deltas, err := collect(t, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"All at once."}, deltas)
}

func TestModelAgent_StreamingError(t *testing.T) {
	boom := errors.New("connection reset")
	mockLLM := &MockModelImpl{}
	mockLLM.On("Generate", mock.Anything, mock.Anything).Return([]model.Response{partial("Half a")}, boom)

	agent := NewModelAgent("Ava", mockLLM)
	out, err := agent.Reply(context.Background(), "go")
	require.NoError(t, err)

	deltas, err := collect(t, out)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"Half a"}, deltas)
	assert.Equal(t, "Half a", agent.History()[1].Text())
}

func TestModelAgent_NonStreamingReply(t *testing.T) {
	mockLLM := &MockModelImpl{}
	mockLLM.On("Generate", mock.Anything, mock.MatchedBy(func(req model.Request) bool { return !req.Stream })).
		Return([]model.Response{final("Done.")}, nil)

	agent := NewModelAgent("Ava", mockLLM, func(o *ModelAgentOptions) { o.EnableStreaming = false })
	out, err := agent.Reply(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, core.OutputComplete, out.Kind())
	assert.Equal(t, "Done.", out.Text())
}

func TestModelAgent_NonStreamingError(t *testing.T) {
	boom := errors.New("unauthorized")
	mockLLM := &MockModelImpl{}
	mockLLM.On("Generate", mock.Anything, mock.Anything).Return([]model.Response{}, boom)

	agent := NewModelAgent("Ava", mockLLM, func(o *ModelAgentOptions) { o.EnableStreaming = false })
	_, err := agent.Reply(context.Background(), "go")
	assert.ErrorIs(t, err, boom)
}

func TestModelAgent_InstructionError(t *testing.T) {
	boom := errors.New("no persona")
	mockLLM := &MockModelImpl{}

	agent := NewModelAgent("Ava", mockLLM, func(o *ModelAgentOptions) {
		o.Instruction = NewInstructionFromProvider(mockProvider{err: boom})
	})
	_, err := agent.Reply(context.Background(), "go")
	assert.ErrorIs(t, err, boom)
	mockLLM.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestModelAgent_HistoryIsTrimmed(t *testing.T) {
	mockLLM := &MockModelImpl{}
	mockLLM.On("Generate", mock.Anything, mock.Anything).Return([]model.Response{final("ok")}, nil)

	agent := NewModelAgent("Ava", mockLLM, func(o *ModelAgentOptions) {
		o.EnableStreaming = false
		o.MaxHistoryMessages = 4
	})

	for i := range 5 {
		_, err := agent.Reply(context.Background(), "turn "+strings.Repeat("!", i))
		require.NoError(t, err)
	}

	history := agent.History()
	assert.LessOrEqual(t, len(history), 4)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "turn !!!!", history[len(history)-2].Text())

	last := mockLLM.Calls[len(mockLLM.Calls)-1].Arguments.Get(1).(model.Request)
	assert.Equal(t, "user", last.Contents[0].Role)
	assert.LessOrEqual(t, len(last.Contents), 4)
}
