package core

import "errors"

// ErrTranscriptNotFound is returned when loading an unknown transcript.
var ErrTranscriptNotFound = errors.New("transcript not found")

// ErrInvalidTranscriptID is returned for ids that are empty or contain a path.
var ErrInvalidTranscriptID = errors.New("invalid transcript id")

// TranscriptStore persists conversation timelines by id. Implementations
// must return copies so callers cannot mutate stored transcripts.
type TranscriptStore interface {
	Save(id string, messages []Message) error
	Load(id string) ([]Message, error)
}
