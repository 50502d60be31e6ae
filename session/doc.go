// Package session houses concrete implementations of core.TranscriptStore.
// The interface itself lives in the core package to centralize domain
// contracts, so the orchestrator never depends on concrete storage.
//
// InMemoryStore suits tests and demos; FileStore keeps one YAML file per
// transcript so a conversation can be inspected, edited and resumed.
package session
