package participant

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/internal/testutil"
)

type countingReporter struct {
	calls int
	err   error
}

func (r *countingReporter) Report(_ context.Context, name string, msgs []core.Message) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	out := ""
	for _, m := range msgs {
		out += "[" + m.String() + "]"
	}
	return out, nil
}

func replyText(t *testing.T, p *Participant) string {
	t.Helper()
	resp, err := p.Reply(context.Background(), false)
	require.NoError(t, err)
	require.NoError(t, resp.Close())
	return resp.FullText()
}

func TestParticipant_IgnoresOwnMessages(t *testing.T) {
	p := New("Ava", testutil.NewScriptedAgent("ok"), nil)

	p.ReceiveMessage(testutil.NewMessageBuilder().Sender("Ava").Content("mine").Build())
	p.ReceiveMessage(testutil.NewMessageBuilder().Sender("Kael").Content("theirs").Build())

	pending := p.PendingMessages()
	require.Len(t, pending, 1)
	assert.Equal(t, "Kael", pending[0].Sender)
}

func TestParticipant_EmptyBufferUsesOpeningPrompt(t *testing.T) {
	agent := testutil.NewScriptedAgent("hello")
	rep := &countingReporter{}
	p := New("Ava", agent, rep)

	assert.Equal(t, "hello", replyText(t, p))
	assert.Zero(t, rep.calls, "reporter must never see an empty message list")
	assert.Equal(t, DefaultPrompts().Empty, agent.LastPrompt())
}

func TestParticipant_ReplyDrainsBufferIntoPrompt(t *testing.T) {
	agent := testutil.NewScriptedAgent("reply")
	rep := &countingReporter{}
	p := New("Ava", agent, rep)

	for _, m := range testutil.Messages("Kael", "one", "Zed", "two") {
		p.ReceiveMessage(m)
	}
	replyText(t, p)

	assert.Equal(t, 1, rep.calls)
	assert.Contains(t, agent.LastPrompt(), "[Kael: one][Zed: two]")
	assert.Contains(t, agent.LastPrompt(), "Report of the conversation since your last turn:")
	assert.Empty(t, p.PendingMessages())

	// next turn starts from an empty window again
	replyText(t, p)
	assert.Equal(t, DefaultPrompts().Empty, agent.LastPrompt())
	assert.Equal(t, 1, rep.calls)
}

func TestParticipant_ModifiersMergeIntoPrompt(t *testing.T) {
	agent := testutil.NewScriptedAgent("reply")
	p := New("Ava", agent, &countingReporter{})

	p.ReceiveModifier(core.ContextModifier{Kind: core.ModifierNarratorEvent, Content: "The lights go out."})
	replyText(t, p)
	assert.Contains(t, agent.LastPrompt(), "- The lights go out.")
	assert.Contains(t, agent.LastPrompt(), "situation changed")

	p.ReceiveModifier(core.ContextModifier{Kind: core.ModifierInternalMonologue, Content: "You feel watched."})
	p.ReceiveMessage(testutil.NewMessageBuilder().Sender("Kael").Content("Who's there?").Build())
	replyText(t, p)
	assert.Contains(t, agent.LastPrompt(), "[Kael: Who's there?]")
	assert.Contains(t, agent.LastPrompt(), "- You feel watched.")

	assert.Empty(t, p.PendingModifiers())
	assert.Empty(t, p.PendingMessages())
}

func TestParticipant_ReportFailureRestoresBuffer(t *testing.T) {
	boom := errors.New("report down")
	rep := &countingReporter{err: boom}
	agent := testutil.NewScriptedAgent("never")
	p := New("Ava", agent, rep)

	first := testutil.NewMessageBuilder().Sender("Kael").Content("first").Build()
	p.ReceiveMessage(first)
	p.ReceiveModifier(core.ContextModifier{Kind: core.ModifierNarratorEvent, Content: "rain"})

	_, err := p.Reply(context.Background(), false)
	require.ErrorIs(t, err, boom)
	assert.Zero(t, agent.Calls())

	p.ReceiveMessage(testutil.NewMessageBuilder().Sender("Zed").Content("second").Build())
	pending := p.PendingMessages()
	require.Len(t, pending, 2)
	assert.Equal(t, "first", pending[0].Content)
	assert.Equal(t, "second", pending[1].Content)
	assert.Len(t, p.PendingModifiers(), 1)
}

func TestParticipant_AgentCallErrorConsumesBuffer(t *testing.T) {
	boom := errors.New("agent down")
	agent := &testutil.ScriptedAgent{}
	agent.Then(testutil.ScriptedReply{CallErr: boom})
	p := New("Ava", agent, nil)
	p.ReceiveMessage(testutil.NewMessageBuilder().Sender("Kael").Content("hi").Build())

	_, err := p.Reply(context.Background(), false)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, p.PendingMessages())
}

func TestParticipant_MessagesArrivingDuringGenerationWaitForNextTurn(t *testing.T) {
	hold := make(chan struct{})
	agent := &testutil.ScriptedAgent{}
	agent.Then(testutil.ScriptedReply{Deltas: []string{"thinking"}, Hold: hold})
	p := New("Ava", agent, &countingReporter{})

	resp, err := p.Reply(context.Background(), false)
	require.NoError(t, err)

	late := testutil.NewMessageBuilder().Sender("Kael").Content("late").Build()
	p.ReceiveMessage(late)
	close(hold)

	chunk, err := resp.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "thinking", chunk.Text)
	_, err = resp.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	require.NoError(t, resp.Close())

	assert.NotContains(t, agent.LastPrompt(), "late")
	pending := p.PendingMessages()
	require.Len(t, pending, 1)
	assert.Equal(t, late.ID, pending[0].ID)
}

func TestParticipant_CustomPrompts(t *testing.T) {
	agent := testutil.NewScriptedAgent("x")
	p := New("Ava", agent, nil, func(o *Options) {
		o.Prompts.Empty = "{{ .Name }}, you open the scene."
	})

	replyText(t, p)
	assert.Equal(t, "Ava, you open the scene.", agent.LastPrompt())

	p.ReceiveMessage(testutil.NewMessageBuilder().Sender("Kael").Content("hey").Build())
	replyText(t, p)
	assert.Contains(t, agent.LastPrompt(), "- Kael: hey", "unset templates keep their defaults")
}
