package core

import "errors"

var (
	// ErrDuplicateParticipant is returned when registering a name that is already taken.
	ErrDuplicateParticipant = errors.New("participant already exists")
	// ErrUnknownParticipant is returned when a name does not match any registered participant.
	ErrUnknownParticipant = errors.New("unknown participant")
	// ErrNoParticipants is returned when a turn is requested with an empty registry.
	ErrNoParticipants = errors.New("no participants registered")
	// ErrInvalidName is returned for empty participant or sender names.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidSelection is recorded when a selector names someone who is not a candidate.
	ErrInvalidSelection = errors.New("selected participant is not a candidate")
	// ErrTurnEnded is returned when reading from a turn that has already been ended.
	ErrTurnEnded = errors.New("turn already ended")
	// ErrPanicked wraps a panic recovered from an agent, reporter or selector.
	ErrPanicked = errors.New("recovered panic")
)
