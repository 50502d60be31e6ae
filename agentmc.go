// Package agentmc orchestrates multi-party, turn-based conversations among
// autonomous agents. A MasterOfCeremony owns the participant registry and
// the canonical timeline and runs the conversation one turn at a time:
//  1. Step picks the next speaker (never the previous one) and asks its
//     participant to reply, handing back a Turn.
//  2. The caller reads the Turn's chunks as they are generated.
//  3. End drains whatever was not read and commits the full reply, exactly
//     once, to the timeline and to every other participant's buffer.
//
// Messages from outside the registry (a human, a narrator) enter through
// AddMessage, which is the same commit routine turns use. Presenters that
// poll instead of streaming use Pull to fetch what they have not seen yet.
package agentmc

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/samber/lo"

	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/logging"
	"github.com/hupe1980/agentmc/participant"
)

// State is the orchestrator's position in the turn lifecycle.
type State int

const (
	// StateIdle means no turn is in flight.
	StateIdle State = iota
	// StateSelecting means the next speaker is being chosen.
	StateSelecting
	// StateTurnInProgress means a participant is generating its reply.
	StateTurnInProgress
	// StateCommitting means the reply is being drained and committed.
	StateCommitting
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelecting:
		return "selecting"
	case StateTurnInProgress:
		return "turn_in_progress"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// Options configures the MasterOfCeremony instance.
type Options struct {
	// Selector chooses the next speaker. Its answer is validated; on error
	// or an out-of-set name a uniformly random candidate is used instead.
	// A nil Selector always picks at random.
	Selector core.Selector

	// SelectorWindow is how many of the most recent timeline messages are
	// passed to the selector. 0 passes none.
	SelectorWindow int

	// Rand drives the random fallback (defaults to a randomly seeded PCG).
	Rand *rand.Rand

	// StrictSenders restricts AddMessage to registered participants and the
	// names listed in Speakers. By default any non-empty sender is accepted.
	StrictSenders bool
	Speakers      []string

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// MasterOfCeremony coordinates who speaks when and keeps the timeline.
// All methods are safe for concurrent use; turns are serialized.
type MasterOfCeremony struct {
	selector core.Selector
	window   int
	strict   bool
	speakers []string
	logger   logging.Logger
	timeline *core.Timeline
	floor    *core.Floor

	rndMu sync.Mutex
	rnd   *rand.Rand

	commitMu sync.Mutex // serializes append and delivery

	mu          sync.RWMutex
	names       []string
	registered  map[string]*participant.Participant
	lastSpeaker string
	offsets     map[string]int
	state       State
}

// New creates a MasterOfCeremony with an empty registry and timeline.
func New(optFns ...func(o *Options)) *MasterOfCeremony {
	opts := Options{
		SelectorWindow: 10,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &MasterOfCeremony{
		selector:   opts.Selector,
		window:     max(opts.SelectorWindow, 0),
		strict:     opts.StrictSenders,
		speakers:   append([]string(nil), opts.Speakers...),
		logger:     logging.OrNoOp(opts.Logger),
		timeline:   core.NewTimeline(),
		floor:      core.NewFloor(),
		rnd:        opts.Rand,
		registered: make(map[string]*participant.Participant),
		offsets:    make(map[string]int),
	}
}

// AddParticipant registers participants in order. Registration is all or
// nothing: on a duplicate or empty name no participant is added.
func (m *MasterOfCeremony) AddParticipant(ps ...*participant.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		if p == nil || p.Name() == "" {
			return core.ErrInvalidName
		}
		if _, ok := m.registered[p.Name()]; ok {
			return fmt.Errorf("%w: %s", core.ErrDuplicateParticipant, p.Name())
		}
		if _, ok := seen[p.Name()]; ok {
			return fmt.Errorf("%w: %s", core.ErrDuplicateParticipant, p.Name())
		}
		seen[p.Name()] = struct{}{}
	}

	for _, p := range ps {
		m.registered[p.Name()] = p
		m.names = append(m.names, p.Name())
		m.logger.Info("Participant added", "participant", p.Name())
	}

	return nil
}

// Participant returns the registered participant called name.
func (m *MasterOfCeremony) Participant(name string) (*participant.Participant, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.registered[name]
	return p, ok
}

// Names returns the registered names in registration order.
func (m *MasterOfCeremony) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]string(nil), m.names...)
}

// Timeline returns a snapshot of every committed message.
func (m *MasterOfCeremony) Timeline() []core.Message { return m.timeline.Messages() }

// LastSpeaker returns the sender of the latest commit, or "" before the first.
func (m *MasterOfCeremony) LastSpeaker() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lastSpeaker
}

// Speaking returns the participant holding the floor, or "" between turns
// and while the next speaker is being selected.
func (m *MasterOfCeremony) Speaking() string { return m.floor.Holder() }

// State returns the current lifecycle state.
func (m *MasterOfCeremony) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state
}

// AddMessage commits a message on behalf of sender, typically a human or a
// narrator outside the registry. It becomes the last speaker and the
// message is delivered to every participant except sender.
func (m *MasterOfCeremony) AddMessage(sender, content string) (core.Message, error) {
	if sender == "" {
		return core.Message{}, core.ErrInvalidName
	}

	if m.strict {
		if _, ok := m.Participant(sender); !ok && !lo.Contains(m.speakers, sender) {
			return core.Message{}, fmt.Errorf("%w: %s", core.ErrUnknownParticipant, sender)
		}
	}

	return m.commit(sender, content), nil
}

// commit is the only path onto the timeline.
func (m *MasterOfCeremony) commit(sender, content string) core.Message {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	msg := m.timeline.Append(sender, content)

	m.mu.Lock()
	m.lastSpeaker = sender
	recipients := make([]*participant.Participant, 0, len(m.names))
	for _, name := range m.names {
		recipients = append(recipients, m.registered[name])
	}
	m.mu.Unlock()

	for _, p := range recipients {
		p.ReceiveMessage(msg)
	}

	m.logger.Debug("Message committed", "sender", sender, "index", msg.Index, "chars", len(content))

	return msg
}

// AddModifier queues a context modifier for target, or for every
// participant when target is empty. It is merged into the recipient's next
// prompt and never appears on the timeline.
func (m *MasterOfCeremony) AddModifier(kind core.ModifierKind, content, target string) error {
	mod := core.ContextModifier{Kind: kind, Content: content}

	if target != "" {
		p, ok := m.Participant(target)
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrUnknownParticipant, target)
		}
		p.ReceiveModifier(mod)
		return nil
	}

	m.mu.RLock()
	recipients := lo.Values(m.registered)
	m.mu.RUnlock()

	for _, p := range recipients {
		p.ReceiveModifier(mod)
	}

	return nil
}

// Pull returns the messages committed since subscriber's previous Pull and
// advances its cursor. A new subscriber starts from the beginning.
func (m *MasterOfCeremony) Pull(subscriber string) []core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := m.timeline.SliceSince(m.offsets[subscriber])
	m.offsets[subscriber] += len(msgs)

	return msgs
}

func (m *MasterOfCeremony) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = s
}

// selectSpeaker chooses among every registered name except the last
// speaker. A lone participant is its own only candidate.
func (m *MasterOfCeremony) selectSpeaker(ctx context.Context) (string, error) {
	m.mu.Lock()
	names := append([]string(nil), m.names...)
	last := m.lastSpeaker
	m.state = StateSelecting
	m.mu.Unlock()

	if len(names) == 0 {
		return "", core.ErrNoParticipants
	}

	candidates := lo.Without(names, last)
	if len(candidates) == 0 {
		candidates = names
	}

	if m.selector == nil {
		name := m.randomCandidate(candidates)
		logging.LogSelection(m.logger, name, candidates, false, nil)
		return name, nil
	}

	name, err := m.consult(ctx, candidates)
	if err == nil && !lo.Contains(candidates, name) {
		err = fmt.Errorf("%w: %q", core.ErrInvalidSelection, name)
	}
	if err != nil {
		name = m.randomCandidate(candidates)
		logging.LogSelection(m.logger, name, candidates, true, err)
		return name, nil
	}

	logging.LogSelection(m.logger, name, candidates, false, nil)

	return name, nil
}

// consult asks the selector, turning a panic into an error.
func (m *MasterOfCeremony) consult(ctx context.Context, candidates []string) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("selector: %w: %v", core.ErrPanicked, r)
			logging.LogPanic(m.logger, err, "Selector panicked")
		}
	}()

	recent := m.timeline.Recent(m.window)

	return m.selector.Select(ctx, append([]string(nil), candidates...), recent)
}

func (m *MasterOfCeremony) randomCandidate(candidates []string) string {
	m.rndMu.Lock()
	defer m.rndMu.Unlock()

	return candidates[m.rnd.IntN(len(candidates))]
}

// Replay commits msgs in order as if each had been added with AddMessage,
// typically to resume a saved transcript. Messages get fresh ids and
// timestamps. It stops at the first rejected sender.
func (m *MasterOfCeremony) Replay(msgs []core.Message) error {
	for _, msg := range msgs {
		if _, err := m.AddMessage(msg.Sender, msg.Content); err != nil {
			return fmt.Errorf("replay message %d: %w", msg.Index, err)
		}
	}
	return nil
}
