package agentmc

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/logging"
	"github.com/hupe1980/agentmc/participant"
	"github.com/hupe1980/agentmc/response"
)

// Turn is one participant's reply in flight. It holds the conversation's
// floor until End is called, so every Turn must be ended, on every path:
//
//	turn, err := mc.Step(ctx, false)
//	if err != nil {
//		return err
//	}
//	defer turn.End()
type Turn struct {
	id      string
	mc      *MasterOfCeremony
	speaker string
	resp    *response.StreamingResponse
	started time.Time

	once sync.Once
	msg  core.Message
	err  error
}

// ID returns the turn's unique identifier.
func (t *Turn) ID() string { return t.id }

// Speaker returns the selected participant.
func (t *Turn) Speaker() string { return t.speaker }

// Next returns the next chunk of the reply, io.EOF when it is complete or
// the agent's error. Cancelling ctx stops waiting but not the generation.
func (t *Turn) Next(ctx context.Context) (core.Chunk, error) { return t.resp.Next(ctx) }

// Chunks iterates over the reply.
func (t *Turn) Chunks(ctx context.Context) iter.Seq2[core.Chunk, error] { return t.resp.Chunks(ctx) }

// End drains the reply, commits its full text and releases the floor. It
// returns the committed message together with the agent's error if the
// generation failed and no Next call reported it yet. Repeated calls
// return the same result.
func (t *Turn) End() (core.Message, error) {
	t.once.Do(func() {
		t.mc.setState(StateCommitting)

		t.err = t.resp.Close()
		t.msg = t.mc.commit(t.speaker, t.resp.FullText())

		logging.LogTurn(t.mc.logger, t.speaker, len(t.msg.Content), time.Since(t.started), t.resp.Err())

		t.mc.setState(StateIdle)
		t.mc.floor.Release()
	})

	return t.msg, t.err
}

// Step begins a turn: it waits for the floor, selects the next speaker and
// asks its participant to reply. ctx bounds the wait, the selector call and
// the generation started by the agent. With cumulative set, chunks carry
// the reply so far instead of the latest delta.
//
// If the participant cannot reply, or panics while trying, an empty message
// is committed for it, the floor is released and the error is returned.
// ErrNoParticipants is returned without any commit.
func (m *MasterOfCeremony) Step(ctx context.Context, cumulative bool) (*Turn, error) {
	if holder := m.floor.Holder(); holder != "" {
		m.logger.Debug("Waiting for the floor", "holder", holder)
	}

	if err := m.floor.Acquire(ctx, ""); err != nil {
		return nil, err
	}

	speaker, err := m.selectSpeaker(ctx)
	if err != nil {
		m.setState(StateIdle)
		m.floor.Release()
		return nil, err
	}

	m.floor.SetHolder(speaker)
	m.setState(StateTurnInProgress)

	p, _ := m.Participant(speaker)
	started := time.Now()

	resp, err := m.reply(ctx, p, cumulative)
	if err != nil {
		m.setState(StateCommitting)
		m.commit(speaker, "")
		logging.LogTurn(m.logger, speaker, 0, time.Since(started), err)
		m.setState(StateIdle)
		m.floor.Release()
		return nil, err
	}

	return &Turn{
		id:      core.NewID(),
		mc:      m,
		speaker: speaker,
		resp:    resp,
		started: started,
	}, nil
}

// reply asks p to reply, turning a panic into an error wrapping ErrPanicked.
func (m *MasterOfCeremony) reply(ctx context.Context, p *participant.Participant, cumulative bool) (resp *response.StreamingResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("participant %s: %w: %v", p.Name(), core.ErrPanicked, r)
			logging.LogPanic(m.logger, err, "Participant panicked", "participant", p.Name())
		}
	}()

	return p.Reply(ctx, cumulative)
}

// Run plays one complete turn, passing every chunk to fn (which may be
// nil). The reply is committed even if fn fails or ctx is cancelled while
// reading; the returned message is the committed one.
//
// ctx serves both Step and the reading, so cancelling it also cancels the
// generation, and the committed text is whatever was produced until then.
// Returning an error from fn stops reading without touching the generation.
// Callers that need to stop observing while generation continues use Step,
// Next and End directly.
func (m *MasterOfCeremony) Run(ctx context.Context, cumulative bool, fn func(core.Chunk) error) (msg core.Message, err error) {
	turn, err := m.Step(ctx, cumulative)
	if err != nil {
		return core.Message{}, err
	}

	defer func() {
		endMsg, endErr := turn.End()
		msg, err = endMsg, errors.Join(err, endErr)
	}()

	for chunk, err := range turn.Chunks(ctx) {
		if err != nil {
			return core.Message{}, err
		}
		if fn == nil {
			continue
		}
		if err := fn(chunk); err != nil {
			return core.Message{}, err
		}
	}

	return core.Message{}, nil
}
