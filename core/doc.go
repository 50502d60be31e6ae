// Package core provides the foundational domain types and collaborator
// contracts used by agentmc. It defines:
//
//   - Messages and the append-only Timeline they live in
//   - Agent, the opaque generation capability behind a participant, and its
//     Output (a complete string or an incremental stream of text deltas)
//   - Selector, the pluggable next-speaker decision function
//   - Reporter, the pluggable briefing function turning buffered messages
//     into prompt text
//   - ContextModifier, out-of-band narrative annotations
//   - Floor, the single-speaker token serializing turns
//
// The package keeps orchestration (see the root agentmc package) and concrete
// providers (model, agent, selector, reporter) out of scope, exposing small
// interfaces so backends can be swapped freely.
package core
