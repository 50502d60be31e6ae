package selector

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/hupe1980/agentmc/core"
)

// RandomOptions configures a Random selector.
type RandomOptions struct {
	// Rand is the source of randomness. Defaults to a PCG seeded from the
	// global generator.
	Rand *rand.Rand
}

// Random selects a uniformly random candidate.
type Random struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom creates a Random selector.
func NewRandom(optFns ...func(o *RandomOptions)) *Random {
	opts := RandomOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Random{rnd: opts.Rand}
}

// Select implements core.Selector.
func (r *Random) Select(_ context.Context, candidates []string, _ []core.Message) (string, error) {
	if len(candidates) == 0 {
		return "", core.ErrNoParticipants
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return candidates[r.rnd.IntN(len(candidates))], nil
}

// Sequential selects the first candidate.
type Sequential struct{}

// NewSequential creates a Sequential selector.
func NewSequential() *Sequential { return &Sequential{} }

// Select implements core.Selector.
func (Sequential) Select(_ context.Context, candidates []string, _ []core.Message) (string, error) {
	if len(candidates) == 0 {
		return "", core.ErrNoParticipants
	}
	return candidates[0], nil
}
