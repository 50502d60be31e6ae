package session

import (
	"fmt"
	"sync"

	"github.com/hupe1980/agentmc/core"
)

// InMemoryStore is a volatile TranscriptStore storing transcripts in a
// process local map. It is safe for concurrent access. Transcripts are
// copied on the way in and out to prevent external mutation.
type InMemoryStore struct {
	mu          sync.RWMutex
	transcripts map[string][]core.Message
}

// NewInMemoryStore constructs an empty in‑memory transcript store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{transcripts: make(map[string][]core.Message)}
}

// Save stores a copy of messages under id, replacing any previous version.
func (s *InMemoryStore) Save(id string, messages []core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[id] = append([]core.Message(nil), messages...)
	return nil
}

// Load returns a copy of the transcript stored under id.
func (s *InMemoryStore) Load(id string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs, ok := s.transcripts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrTranscriptNotFound, id)
	}
	return append([]core.Message(nil), msgs...), nil
}

// IDs returns the ids of all stored transcripts.
func (s *InMemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.transcripts))
	for id := range s.transcripts {
		ids = append(ids, id)
	}
	return ids
}
