// Package agent contains the model-backed agent used by participants.
//
// ModelAgent implements core.Agent on top of any model.Model. It keeps a
// rolling chat history of its own prompts and replies, so every turn sees
// what the participant was told and what it said before, and it resolves a
// system instruction (static or dynamic) on every call.
//
// With streaming enabled the reply is an incremental output of the model's
// text deltas; otherwise it is a complete output. Either way the final text
// is recorded in the history once generation ends.
//
// The package keeps model specifics in the model package and buffering in
// the participant package to avoid cyclic deps.
package agent
